package sectiontypes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/daybook/internal/common"
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

const typeColumns = `id, title, frequency, display_order, placeholder, default_content, content_type, column_id`

// CreateOrUpdate upserts a section type by id.
func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, st *models.SectionType) error {
	query := `INSERT INTO section_types (` + typeColumns + `)
			values (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET title = excluded.title,
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
		return fmt.Errorf("failed to upsert section type: %w", err)
	}
	return nil
}

// GetByID returns a single section type by id.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.SectionType, error) {
	query := `select ` + typeColumns + ` from section_types where id=?`
	return scanType(r.db.QueryRowContext(ctx, query, id))
}

// GetByTitle returns a single section type by its title.
func (r *SQLiteRepository) GetByTitle(ctx context.Context, title string) (*models.SectionType, error) {
	query := `select ` + typeColumns + ` from section_types where title=?`
	return scanType(r.db.QueryRowContext(ctx, query, title))
}

// GetAll lists all section types in display order.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.SectionType, error) {
	query := `select ` + typeColumns + ` from section_types order by display_order, title`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select section types: %w", err)
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

// UpdateFrequency changes the bucketing frequency of a section type.
// It expects exactly one row to be affected.
func (r *SQLiteRepository) UpdateFrequency(ctx context.Context, id string, freq models.TimeframeType) error {
	res, err := r.db.ExecContext(ctx, `update section_types set frequency=? where id=?`, freq, id)
	if err != nil {
		return fmt.Errorf("failed to update frequency: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}

// DeleteByID removes a section type.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `delete from section_types where id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete section type: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}

// DeleteAll removes every section type.
func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `delete from section_types`); err != nil {
		return fmt.Errorf("failed to delete section types: %w", err)
	}
	return nil
}

func scanType(row *sql.Row) (*models.SectionType, error) {
	st := &models.SectionType{}
	err := row.Scan(&st.Id, &st.Title, &st.Frequency, &st.DisplayOrder,
		&st.Placeholder, &st.DefaultContent, &st.ContentType, &st.ColumnId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return st, nil
}
