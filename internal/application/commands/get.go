package commands

import (
	"context"

	"icane/internal/application"
	"icane/internal/domain"
	"icane/internal/errors"
	"icane/internal/ports"
)

// GetEntityCommand fetches one entity, addressed either by entity kind and
// uriTag or by a raw payload path
type GetEntityCommand struct {
	source ports.PayloadSource
	Entity string
	URITag string
	Path   string
}

// NewGetEntityCommand creates a new GetEntityCommand
func NewGetEntityCommand(source ports.PayloadSource, entity, uriTag string) *GetEntityCommand {
	return &GetEntityCommand{
		source: source,
		Entity: entity,
		URITag: uriTag,
	}
}

// NewGetPathCommand creates a GetEntityCommand for a raw payload path
func NewGetPathCommand(source ports.PayloadSource, path string) *GetEntityCommand {
	return &GetEntityCommand{source: source, Path: path}
}

// Validate checks the command arguments and resolves the payload path
func (c *GetEntityCommand) Validate() (string, error) {
	if c.Path != "" {
		return c.Path, nil
	}
	e, err := application.ValidateEntity(c.Entity, false)
	if err != nil {
		return "", err
	}
	if e == domain.EntityData || e == domain.EntityMetadata {
		return "", &application.ValidationError{
			Field:   "entity",
			Message: e.String() + " is fetched with the last-updated command",
		}
	}
	if err := application.ValidateURITag("uriTag", c.URITag); err != nil {
		return "", err
	}
	return domain.EntityPath(e, c.URITag), nil
}

// Execute runs the get command
func (c *GetEntityCommand) Execute(ctx context.Context) (*domain.Node, error) {
	path, err := c.Validate()
	if err != nil {
		return nil, err
	}
	return fetchObject(ctx, c.source, path)
}

// fetchObject fetches a payload that must be a JSON object
func fetchObject(ctx context.Context, source ports.PayloadSource, path string) (*domain.Node, error) {
	v, err := source.Fetch(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", path)
	}
	n, err := domain.DecodeObject(v)
	if err != nil {
		return nil, &application.PayloadError{Path: path, Reason: err.Error()}
	}
	return n, nil
}

// fetchList fetches a payload that must be a JSON array of objects
func fetchList(ctx context.Context, source ports.PayloadSource, path string) ([]*domain.Node, error) {
	v, err := source.Fetch(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", path)
	}
	nodes, err := domain.DecodeList(v)
	if err != nil {
		return nil, &application.PayloadError{Path: path, Reason: err.Error()}
	}
	return nodes, nil
}
