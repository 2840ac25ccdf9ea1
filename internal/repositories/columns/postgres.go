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

// PostgresRepository implements Repository on top of a Postgres database.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateOrUpdate(ctx context.Context, c *models.Column) error {
	query := `INSERT INTO columns (id, title, width, display_order)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET title = excluded.title,
			width = excluded.width,
			display_order = excluded.display_order
		 `
	_, err := r.db.ExecContext(ctx, query, c.Id, c.Title, c.Width, c.DisplayOrder)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Column, error) {
	query := `SELECT id, title, width, display_order FROM columns WHERE id = $1`
	c := &models.Column{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.Id, &c.Title, &c.Width, &c.DisplayOrder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]models.Column, error) {
	query := `SELECT id, title, width, display_order FROM columns ORDER BY display_order, title`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
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

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM columns`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
