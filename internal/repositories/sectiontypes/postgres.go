package sectiontypes

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

func (r *PostgresRepository) CreateOrUpdate(ctx context.Context, st *models.SectionType) error {
	query := `INSERT INTO section_types (` + typeColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET title = excluded.title,
			frequency = excluded.frequency,
			display_order = excluded.display_order,
			placeholder = excluded.placeholder,
			default_content = excluded.default_content,
			content_type = excluded.content_type,
			column_id = excluded.column_id
		 `
	_, err := r.db.ExecContext(ctx, query,
		st.Id, st.Title, st.Frequency, st.DisplayOrder, st.Placeholder, st.DefaultContent, st.ContentType, st.ColumnId)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.SectionType, error) {
	query := `SELECT ` + typeColumns + ` FROM section_types WHERE id = $1`
	return scanType(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByTitle(ctx context.Context, title string) (*models.SectionType, error) {
	query := `SELECT ` + typeColumns + ` FROM section_types WHERE title = $1`
	return scanType(r.db.QueryRowContext(ctx, query, title))
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]models.SectionType, error) {
	query := `SELECT ` + typeColumns + ` FROM section_types ORDER BY display_order, title`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.SectionType
	for rows.Next() {
		var item models.SectionType
		if err := rows.Scan(&item.Id, &item.Title, &item.Frequency, &item.DisplayOrder,
			&item.Placeholder, &item.DefaultContent, &item.ContentType, &item.ColumnId); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) UpdateFrequency(ctx context.Context, id string, freq models.TimeframeType) error {
	res, err := r.db.ExecContext(ctx, `UPDATE section_types SET frequency = $1 WHERE id = $2`, freq, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM section_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM section_types`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
