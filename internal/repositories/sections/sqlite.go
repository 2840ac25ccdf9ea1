package sections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

const sectionColumns = `id, section_type_id, content, timeframe_type, timeframe_start, timeframe_end, created_at, updated_at`

// CreateOrUpdate upserts a section by id.
func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, s *models.Section) error {
	query := `INSERT INTO sections (` + sectionColumns + `)
			values (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET content = excluded.content,
				timeframe_type = excluded.timeframe_type,
				timeframe_start = excluded.timeframe_start,
				timeframe_end = excluded.timeframe_end,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		s.Id, s.SectionTypeId, s.Content, s.TimeframeType, s.TimeframeStart, s.TimeframeEnd, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert section: %w", err)
	}
	return nil
}

// GetByID returns a single section by id.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Section, error) {
	query := `select ` + sectionColumns + ` from sections where id=?`
	return scanSection(r.db.QueryRowContext(ctx, query, id))
}

// GetByBucket returns the section for (section type, timeframe type, start).
func (r *SQLiteRepository) GetByBucket(ctx context.Context, sectionTypeId string, tfType models.TimeframeType, start string) (*models.Section, error) {
	query := `select ` + sectionColumns + ` from sections
			where section_type_id=? and timeframe_type=? and timeframe_start=?`
	return scanSection(r.db.QueryRowContext(ctx, query, sectionTypeId, tfType, start))
}

// GetByType returns the oldest section of a type bucketed under tfType.
func (r *SQLiteRepository) GetByType(ctx context.Context, sectionTypeId string, tfType models.TimeframeType) (*models.Section, error) {
	query := `select ` + sectionColumns + ` from sections
			where section_type_id=? and timeframe_type=?
			order by created_at, id
			limit 1`
	return scanSection(r.db.QueryRowContext(ctx, query, sectionTypeId, tfType))
}

// UpdateContent replaces the content of a section and bumps updated_at.
// It expects exactly one row to be affected.
func (r *SQLiteRepository) UpdateContent(ctx context.Context, id, content string) error {
	query := `update sections set content=?, updated_at=? where id=?`
	res, err := r.db.ExecContext(ctx, query, content, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update section content: %w", err)
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

// UpdateBucket moves a section to new timeframe bounds.
// It expects exactly one row to be affected.
func (r *SQLiteRepository) UpdateBucket(ctx context.Context, id string, tfType models.TimeframeType, start, end string) error {
	query := `update sections set timeframe_type=?, timeframe_start=?, timeframe_end=?, updated_at=? where id=?`
	res, err := r.db.ExecContext(ctx, query, tfType, start, end, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update section bucket: %w", err)
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

// MostRecentlyLinked finds the section of the given type attached to the
// entry with the latest date.
func (r *SQLiteRepository) MostRecentlyLinked(ctx context.Context, sectionTypeId string) (*models.Section, error) {
	query := `select s.id, s.section_type_id, s.content, s.timeframe_type, s.timeframe_start, s.timeframe_end, s.created_at, s.updated_at
			from sections s
			join entry_sections es on es.section_id = s.id
			join entries e on e.id = es.entry_id
			where s.section_type_id = ?
			order by e.date desc, es.created_at desc
			limit 1`
	return scanSection(r.db.QueryRowContext(ctx, query, sectionTypeId))
}

// ForEntry lists all sections linked to the given entry.
func (r *SQLiteRepository) ForEntry(ctx context.Context, entryId string) ([]models.Section, error) {
	query := `select s.id, s.section_type_id, s.content, s.timeframe_type, s.timeframe_start, s.timeframe_end, s.created_at, s.updated_at
			from sections s
			join entry_sections es on es.section_id = s.id
			where es.entry_id = ?
			order by s.created_at, s.id`
	return r.list(ctx, query, entryId)
}

// RecentCreated lists up to limit sections, newest created first. Ties on
// created_at are broken by id so the order stays stable.
func (r *SQLiteRepository) RecentCreated(ctx context.Context, limit int) ([]models.Section, error) {
	query := `select ` + sectionColumns + ` from sections order by created_at desc, id desc limit ?`
	return r.list(ctx, query, limit)
}

// GetAll lists all sections ordered by id.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Section, error) {
	query := `select ` + sectionColumns + ` from sections order by id`
	return r.list(ctx, query)
}

// DeleteAll removes every section.
func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `delete from sections`); err != nil {
		return fmt.Errorf("failed to delete sections: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.Section, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select sections: %w", err)
	}
	defer rows.Close()

	var result []models.Section
	for rows.Next() {
		var item models.Section
		if err := rows.Scan(&item.Id, &item.SectionTypeId, &item.Content, &item.TimeframeType,
			&item.TimeframeStart, &item.TimeframeEnd, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanSection(row *sql.Row) (*models.Section, error) {
	s := &models.Section{}
	err := row.Scan(&s.Id, &s.SectionTypeId, &s.Content, &s.TimeframeType,
		&s.TimeframeStart, &s.TimeframeEnd, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return s, nil
}
