package commands

import (
	"context"

	"icane/internal/application"
	"icane/internal/domain"
	"icane/internal/errors"
	"icane/internal/ports"
)

// DefaultLanguage is the language of class descriptions when none is given
const DefaultLanguage = "es"

// ListEntitiesCommand lists every entity of a kind
type ListEntitiesCommand struct {
	source   ports.PayloadSource
	Entity   string
	Language string // class descriptions only
}

// NewListEntitiesCommand creates a new ListEntitiesCommand
func NewListEntitiesCommand(source ports.PayloadSource, entity string) *ListEntitiesCommand {
	return &ListEntitiesCommand{
		source: source,
		Entity: entity,
	}
}

// Validate checks the entity and resolves the collection path
func (c *ListEntitiesCommand) Validate() (string, error) {
	e, err := application.ValidateEntity(c.Entity, false)
	if err != nil {
		return "", err
	}
	if e == domain.EntityClass {
		lang := c.Language
		if lang == "" {
			lang = DefaultLanguage
		}
		return domain.ClassesPath(lang), nil
	}
	if !e.Listable() {
		return "", &application.ValidationError{
			Field:   "entity",
			Message: e.String() + " has no collection endpoint",
		}
	}
	return domain.CollectionPath(e), nil
}

// Execute runs the list command
func (c *ListEntitiesCommand) Execute(ctx context.Context) ([]*domain.Node, error) {
	path, err := c.Validate()
	if err != nil {
		return nil, err
	}
	return fetchList(ctx, c.source, path)
}

// BuildTreeCommand builds a navigable tree from a metadata payload
type BuildTreeCommand struct {
	source ports.PayloadSource
	Path   string
	Leaves domain.LeafSet
}

// NewBuildTreeCommand creates a new BuildTreeCommand
func NewBuildTreeCommand(source ports.PayloadSource, path string, leaves domain.LeafSet) *BuildTreeCommand {
	return &BuildTreeCommand{source: source, Path: path, Leaves: leaves}
}

// Execute runs the build tree command
func (c *BuildTreeCommand) Execute(ctx context.Context) (*domain.TreeNode, error) {
	if err := application.ValidateRequired("path", c.Path); err != nil {
		return nil, err
	}
	v, err := c.source.Fetch(ctx, c.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", c.Path)
	}
	if !domain.IsMetadata(v) {
		return nil, &application.PayloadError{Path: c.Path, Reason: "not a metadata payload"}
	}
	return domain.BuildTree(v, c.Leaves)
}
