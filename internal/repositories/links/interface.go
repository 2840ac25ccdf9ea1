package links

import (
	"context"

	"github.com/dmitrijs2005/daybook/internal/models"
)

// Repository manages the entry_sections junction table.
type Repository interface {
	// Upsert links a section to an entry. Re-linking an existing pair is a
	// no-op, so at most one link exists per (section, entry) pair.
	Upsert(ctx context.Context, link *models.EntrySectionLink) error

	// GetAll returns all links ordered by (section_id, entry_id).
	GetAll(ctx context.Context) ([]models.EntrySectionLink, error)

	// DeleteAll removes every link. Used when importing a snapshot.
	DeleteAll(ctx context.Context) error
}
