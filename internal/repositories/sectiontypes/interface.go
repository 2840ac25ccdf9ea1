package sectiontypes

import (
	"context"

	"github.com/dmitrijs2005/daybook/internal/models"
)

// Repository describes CRUD and query operations for SectionType objects
// (the templates recurring sections are stamped from).
type Repository interface {
	// CreateOrUpdate inserts a new section type or updates an existing one by Id.
	CreateOrUpdate(ctx context.Context, st *models.SectionType) error

	// GetByID returns a section type by id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.SectionType, error)

	// GetByTitle returns a section type by its title, or common.ErrorNotFound.
	GetByTitle(ctx context.Context, title string) (*models.SectionType, error)

	// GetAll returns all section types ordered by (display_order, title).
	GetAll(ctx context.Context) ([]models.SectionType, error)

	// UpdateFrequency changes how often new sections of this type are created.
	UpdateFrequency(ctx context.Context, id string, freq models.TimeframeType) error

	// DeleteByID removes a section type. Its sections go with it via the
	// schema's cascade rule.
	DeleteByID(ctx context.Context, id string) error

	// DeleteAll removes every section type. Used when importing a snapshot.
	DeleteAll(ctx context.Context) error
}
