package columns

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

// CreateOrUpdate upserts a column by id.
func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, c *models.Column) error {
	query := `INSERT INTO columns (id, title, width, display_order)
			values (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET title = excluded.title,
				width = excluded.width,
				display_order = excluded.display_order
	`
	_, err := r.db.ExecContext(ctx, query, c.Id, c.Title, c.Width, c.DisplayOrder)
	if err != nil {
		return fmt.Errorf("failed to upsert column: %w", err)
	}
	return nil
}

// GetByID returns a single column by id.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Column, error) {
	query := `select id, title, width, display_order from columns where id=?`
	c := &models.Column{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.Id, &c.Title, &c.Width, &c.DisplayOrder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return c, nil
}

// GetAll lists all columns in display order.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Column, error) {
	query := `select id, title, width, display_order from columns order by display_order, title`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select columns: %w", err)
	}
	defer rows.Close()

	var result []models.Column
	for rows.Next() {
		var item models.Column
		if err := rows.Scan(&item.Id, &item.Title, &item.Width, &item.DisplayOrder); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteAll removes every column.
func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `delete from columns`); err != nil {
		return fmt.Errorf("failed to delete columns: %w", err)
	}
	return nil
}
