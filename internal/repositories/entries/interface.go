package entries

import (
	"context"

	"github.com/dmitrijs2005/daybook/internal/models"
)

// Repository describes CRUD and query operations for Entry objects.
// Implementations are backed by a local SQLite database or by Postgres.
type Repository interface {
	// CreateOrUpdate inserts a new entry or updates an existing one by Id.
	CreateOrUpdate(ctx context.Context, entry *models.Entry) error

	// GetByID returns an entry by its identifier.
	GetByID(ctx context.Context, id string) (*models.Entry, error)

	// GetByDate returns the entry for a calendar date, or common.ErrorNotFound.
	GetByDate(ctx context.Context, date string) (*models.Entry, error)

	// RecentDates returns up to limit entry dates, newest first.
	RecentDates(ctx context.Context, limit int) ([]string, error)

	// GetAll returns all entries ordered by date.
	GetAll(ctx context.Context) ([]models.Entry, error)

	// DeleteAll removes every entry. Used when importing a snapshot.
	DeleteAll(ctx context.Context) error
}
