package commands

import (
	"context"

	"icane/internal/application"
	"icane/internal/domain"
	"icane/internal/ports"
)

// TimeSeriesListCommand lists the nodes of a category, optionally narrowed
// by section, subsection and data set
type TimeSeriesListCommand struct {
	source     ports.PayloadSource
	Category   string
	Section    string
	Subsection string
	DataSet    string
	Query      domain.QueryParams
}

// NewTimeSeriesListCommand creates a new TimeSeriesListCommand
func NewTimeSeriesListCommand(source ports.PayloadSource, category string) *TimeSeriesListCommand {
	return &TimeSeriesListCommand{source: source, Category: category}
}

// Validate checks the tags and resolves the payload path
func (c *TimeSeriesListCommand) Validate() (string, error) {
	if err := application.ValidateURITag("category", c.Category); err != nil {
		return "", err
	}
	for _, f := range []struct{ name, tag string }{
		{"section", c.Section},
		{"subsection", c.Subsection},
		{"dataSet", c.DataSet},
	} {
		if f.tag == "" {
			continue
		}
		if err := application.ValidateURITag(f.name, f.tag); err != nil {
			return "", err
		}
	}
	if c.Section == "" && (c.Subsection != "" || c.DataSet != "") {
		return "", &application.ValidationError{Field: "section", Message: "section is required to narrow by subsection or data set"}
	}
	if c.Subsection == "" && c.DataSet != "" {
		return "", &application.ValidationError{Field: "subsection", Message: "subsection is required to narrow by data set"}
	}
	return domain.TimeSeriesListPath(c.Category, c.Section, c.Subsection, c.DataSet, c.Query), nil
}

// Execute runs the time series list command
func (c *TimeSeriesListCommand) Execute(ctx context.Context) ([]*domain.Node, error) {
	path, err := c.Validate()
	if err != nil {
		return nil, err
	}
	return fetchList(ctx, c.source, path)
}

// ParentsCommand lists the ancestors of a node, nearest last
type ParentsCommand struct {
	source ports.PayloadSource
	URITag string
}

// NewParentsCommand creates a new ParentsCommand
func NewParentsCommand(source ports.PayloadSource, uriTag string) *ParentsCommand {
	return &ParentsCommand{source: source, URITag: uriTag}
}

// Execute runs the parents command
func (c *ParentsCommand) Execute(ctx context.Context) ([]*domain.Node, error) {
	if err := application.ValidateURITag("uriTag", c.URITag); err != nil {
		return nil, err
	}
	return fetchList(ctx, c.source, domain.ParentsPath(c.URITag))
}

// LastUpdated is a last-updated timestamp in both raw and display form
type LastUpdated struct {
	Entity domain.Entity
	Millis string
	Date   string
}

// LastUpdatedCommand reads when data or metadata last changed
type LastUpdatedCommand struct {
	source ports.PayloadSource
	Entity string
}

// NewLastUpdatedCommand creates a new LastUpdatedCommand
func NewLastUpdatedCommand(source ports.PayloadSource, entity string) *LastUpdatedCommand {
	return &LastUpdatedCommand{source: source, Entity: entity}
}

// Execute runs the last updated command. The payload is either the bare
// millisecond timestamp or an object carrying it under lastUpdated.
func (c *LastUpdatedCommand) Execute(ctx context.Context) (*LastUpdated, error) {
	e := domain.ParseEntity(c.Entity)
	if e != domain.EntityData && e != domain.EntityMetadata {
		return nil, &application.ValidationError{
			Field:   "entity",
			Message: "expected data or metadata, got: " + c.Entity,
		}
	}
	path := domain.LastUpdatedPath(e)

	v, err := resolvePayload(ctx, c.source, path, nil)
	if err != nil {
		return nil, err
	}
	if n, ok := v.(*domain.Node); ok {
		if v, err = n.Get("lastUpdated"); err != nil {
			return nil, &application.PayloadError{Path: path, Reason: err.Error()}
		}
	}

	date, err := domain.FormatMillis(v)
	if err != nil {
		return nil, &application.PayloadError{Path: path, Reason: err.Error()}
	}
	return &LastUpdated{
		Entity: e,
		Millis: domain.FormatValue(v),
		Date:   date,
	}, nil
}
