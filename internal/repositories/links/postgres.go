package links

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/daybook/internal/dbx"
	"github.com/dmitrijs2005/daybook/internal/models"
)

// PostgresRepository implements Repository on top of a Postgres database.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, l *models.EntrySectionLink) error {
	query := `INSERT INTO entry_sections (section_id, entry_id, created_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (section_id, entry_id) DO NOTHING
		 `
	_, err := r.db.ExecContext(ctx, query, l.SectionId, l.EntryId, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]models.EntrySectionLink, error) {
	query := `SELECT section_id, entry_id, created_at FROM entry_sections ORDER BY section_id, entry_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
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

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM entry_sections`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
