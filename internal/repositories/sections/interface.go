package sections

import (
	"context"

	"github.com/dmitrijs2005/daybook/internal/models"
)

// Repository describes CRUD and query operations for Section objects.
//
// A section is addressed either by id or by its bucket key
// (section type, timeframe type, timeframe start).
type Repository interface {
	// CreateOrUpdate inserts a new section or updates an existing one by Id.
	CreateOrUpdate(ctx context.Context, section *models.Section) error

	// GetByID returns a section by its identifier, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Section, error)

	// GetByBucket returns the section for a bucket key, or common.ErrorNotFound.
	GetByBucket(ctx context.Context, sectionTypeId string, tfType models.TimeframeType, start string) (*models.Section, error)

	// GetByType returns the oldest section of a type under the given
	// timeframe type, or common.ErrorNotFound. Persistent sections are
	// looked up this way because their start is the date of first access.
	GetByType(ctx context.Context, sectionTypeId string, tfType models.TimeframeType) (*models.Section, error)

	// UpdateContent replaces a section's content and bumps updated_at.
	UpdateContent(ctx context.Context, id, content string) error

	// UpdateBucket moves a section to new timeframe bounds.
	UpdateBucket(ctx context.Context, id string, tfType models.TimeframeType, start, end string) error

	// MostRecentlyLinked returns the section of the given type linked to the
	// entry with the latest date, or common.ErrorNotFound when the type has
	// no linked sections yet.
	MostRecentlyLinked(ctx context.Context, sectionTypeId string) (*models.Section, error)

	// ForEntry returns all sections linked to an entry.
	ForEntry(ctx context.Context, entryId string) ([]models.Section, error)

	// RecentCreated returns up to limit sections, newest created first.
	RecentCreated(ctx context.Context, limit int) ([]models.Section, error)

	// GetAll returns all sections ordered by id.
	GetAll(ctx context.Context) ([]models.Section, error)

	// DeleteAll removes every section. Used when importing a snapshot.
	DeleteAll(ctx context.Context) error
}
