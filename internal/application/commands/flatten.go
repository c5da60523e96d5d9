package commands

import (
	"context"
	"iter"

	"icane/internal/application"
	"icane/internal/domain"
	"icane/internal/errors"
	"icane/internal/ports"
)

// DefaultValueColumn names the observation column of flattened data.
const DefaultValueColumn = "Value"

// Table is a lazily flattened payload. Rows can be ranged over once per
// call to the flattener; ranging again walks the payload again.
type Table struct {
	Kind   domain.RowKind
	Source string
	Header []string
	Rows   iter.Seq2[domain.Row, error]
}

// Collect drains the rows. On failure the rows produced before the error
// are returned with it.
func (t *Table) Collect() ([]domain.Row, error) {
	return domain.CollectRows(t.Rows)
}

// FlattenDataCommand flattens a data payload into one row per observation
type FlattenDataCommand struct {
	source      ports.PayloadSource
	Path        string
	Payload     any // used instead of fetching Path when set
	ValueColumn string
}

// NewFlattenDataCommand creates a FlattenDataCommand reading path from source
func NewFlattenDataCommand(source ports.PayloadSource, path string) *FlattenDataCommand {
	return &FlattenDataCommand{source: source, Path: path}
}

// NewFlattenDataPayloadCommand creates a FlattenDataCommand over an
// already decoded payload; name labels it in results
func NewFlattenDataPayloadCommand(payload any, name string) *FlattenDataCommand {
	return &FlattenDataCommand{Payload: payload, Path: name}
}

// Execute resolves the payload and prepares its rows
func (c *FlattenDataCommand) Execute(ctx context.Context) (*Table, error) {
	v, err := resolvePayload(ctx, c.source, c.Path, c.Payload)
	if err != nil {
		return nil, err
	}
	n, err := domain.DecodeObject(v)
	if err != nil {
		return nil, &application.PayloadError{Path: c.Path, Reason: err.Error()}
	}

	valueColumn := c.ValueColumn
	if valueColumn == "" {
		valueColumn = DefaultValueColumn
	}
	header, err := domain.DataHeader(n, valueColumn)
	if err != nil {
		return nil, err
	}

	return &Table{
		Kind:   domain.RowKindData,
		Source: c.Path,
		Header: header,
		Rows:   domain.FlattenData(n),
	}, nil
}

// FlattenMetadataCommand flattens a metadata payload into digest rows
type FlattenMetadataCommand struct {
	source  ports.PayloadSource
	Path    string
	Payload any
	Leaves  domain.LeafSet
}

// NewFlattenMetadataCommand creates a FlattenMetadataCommand reading path from source
func NewFlattenMetadataCommand(source ports.PayloadSource, path string, leaves domain.LeafSet) *FlattenMetadataCommand {
	return &FlattenMetadataCommand{source: source, Path: path, Leaves: leaves}
}

// NewFlattenMetadataPayloadCommand creates a FlattenMetadataCommand over
// an already decoded payload
func NewFlattenMetadataPayloadCommand(payload any, name string, leaves domain.LeafSet) *FlattenMetadataCommand {
	return &FlattenMetadataCommand{Payload: payload, Path: name, Leaves: leaves}
}

// Execute resolves the payload and prepares its digest rows
func (c *FlattenMetadataCommand) Execute(ctx context.Context) (*Table, error) {
	v, err := resolvePayload(ctx, c.source, c.Path, c.Payload)
	if err != nil {
		return nil, err
	}
	f := domain.NewMetadataFlattener(c.Leaves)
	return &Table{
		Kind:   domain.RowKindMetadata,
		Source: c.Path,
		Header: append([]string(nil), domain.DigestColumns...),
		Rows:   f.Flatten(v),
	}, nil
}

func resolvePayload(ctx context.Context, source ports.PayloadSource, path string, payload any) (any, error) {
	if payload != nil {
		return domain.Decode(payload), nil
	}
	if err := application.ValidateRequired("path", path); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, errors.New("no payload source configured")
	}
	v, err := source.Fetch(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", path)
	}
	return v, nil
}
