package entries

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

// CreateOrUpdate upserts an entry by id. On conflict, date and updated_at are refreshed.
func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, e *models.Entry) error {
	query := `INSERT INTO entries (id, date, created_at, updated_at)
			values (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET date = excluded.date,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query, e.Id, e.Date, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert entry: %w", err)
	}
	return nil
}

// GetByID returns a single entry by id.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	query := `select id, date, created_at, updated_at from entries where id=?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByDate returns the entry for a calendar date.
func (r *SQLiteRepository) GetByDate(ctx context.Context, date string) (*models.Entry, error) {
	query := `select id, date, created_at, updated_at from entries where date=?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, date))
}

func (r *SQLiteRepository) scanOne(row *sql.Row) (*models.Entry, error) {
	e := &models.Entry{}
	err := row.Scan(&e.Id, &e.Date, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return e, nil
}

// RecentDates lists up to limit entry dates, newest first.
func (r *SQLiteRepository) RecentDates(ctx context.Context, limit int) ([]string, error) {
	query := `select date from entries order by date desc limit ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select entry dates: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		result = append(result, date)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetAll lists all entries ordered by date.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Entry, error) {
	query := `select id, date, created_at, updated_at from entries order by date`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []models.Entry
	for rows.Next() {
		var item models.Entry
		if err := rows.Scan(&item.Id, &item.Date, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteAll removes every entry.
func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `delete from entries`); err != nil {
		return fmt.Errorf("failed to delete entries: %w", err)
	}
	return nil
}
