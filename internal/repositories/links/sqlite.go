package links

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/daybook/internal/dbx"
	"github.com/dmitrijs2005/daybook/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert inserts the link unless the (section, entry) pair already exists.
func (r *SQLiteRepository) Upsert(ctx context.Context, l *models.EntrySectionLink) error {
	query := `INSERT INTO entry_sections (section_id, entry_id, created_at)
			values (?, ?, ?)
			ON CONFLICT(section_id, entry_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, l.SectionId, l.EntryId, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert link: %w", err)
	}
	return nil
}

// GetAll lists all links in a stable order.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.EntrySectionLink, error) {
	query := `select section_id, entry_id, created_at from entry_sections order by section_id, entry_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select links: %w", err)
	}
	defer rows.Close()

	var result []models.EntrySectionLink
	for rows.Next() {
		var item models.EntrySectionLink
		if err := rows.Scan(&item.SectionId, &item.EntryId, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteAll removes every link.
func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `delete from entry_sections`); err != nil {
		return fmt.Errorf("failed to delete links: %w", err)
	}
	return nil
}
