package columns

import (
	"context"

	"github.com/dmitrijs2005/daybook/internal/models"
)

// Repository describes CRUD operations for layout columns.
type Repository interface {
	// CreateOrUpdate inserts a new column or updates an existing one by Id.
	CreateOrUpdate(ctx context.Context, col *models.Column) error

	// GetByID returns a column by id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Column, error)

	// GetAll returns all columns ordered by (display_order, title).
	GetAll(ctx context.Context) ([]models.Column, error)

	// DeleteAll removes every column. Used when importing a snapshot.
	DeleteAll(ctx context.Context) error
}
