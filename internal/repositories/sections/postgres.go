package sections

import (
	"context"
	"fmt"
	"time"

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

func (r *PostgresRepository) CreateOrUpdate(ctx context.Context, s *models.Section) error {
	query := `INSERT INTO sections (` + sectionColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET content = excluded.content,
			timeframe_type = excluded.timeframe_type,
			timeframe_start = excluded.timeframe_start,
			timeframe_end = excluded.timeframe_end,
			updated_at = excluded.updated_at
		 `
	_, err := r.db.ExecContext(ctx, query,
		s.Id, s.SectionTypeId, s.Content, s.TimeframeType, s.TimeframeStart, s.TimeframeEnd, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections WHERE id = $1`
	return scanSection(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByBucket(ctx context.Context, sectionTypeId string, tfType models.TimeframeType, start string) (*models.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections
		 WHERE section_type_id = $1 AND timeframe_type = $2 AND timeframe_start = $3`
	return scanSection(r.db.QueryRowContext(ctx, query, sectionTypeId, tfType, start))
}

func (r *PostgresRepository) GetByType(ctx context.Context, sectionTypeId string, tfType models.TimeframeType) (*models.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections
		 WHERE section_type_id = $1 AND timeframe_type = $2
		 ORDER BY created_at, id
		 LIMIT 1`
	return scanSection(r.db.QueryRowContext(ctx, query, sectionTypeId, tfType))
}

func (r *PostgresRepository) UpdateContent(ctx context.Context, id, content string) error {
	query := `UPDATE sections SET content = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, content, time.Now().UTC(), id)
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

func (r *PostgresRepository) UpdateBucket(ctx context.Context, id string, tfType models.TimeframeType, start, end string) error {
	query := `UPDATE sections SET timeframe_type = $1, timeframe_start = $2, timeframe_end = $3, updated_at = $4 WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, tfType, start, end, time.Now().UTC(), id)
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

func (r *PostgresRepository) MostRecentlyLinked(ctx context.Context, sectionTypeId string) (*models.Section, error) {
	query := `SELECT s.id, s.section_type_id, s.content, s.timeframe_type, s.timeframe_start, s.timeframe_end, s.created_at, s.updated_at
		 FROM sections s
		 JOIN entry_sections es ON es.section_id = s.id
		 JOIN entries e ON e.id = es.entry_id
		 WHERE s.section_type_id = $1
		 ORDER BY e.date DESC, es.created_at DESC
		 LIMIT 1`
	return scanSection(r.db.QueryRowContext(ctx, query, sectionTypeId))
}

func (r *PostgresRepository) ForEntry(ctx context.Context, entryId string) ([]models.Section, error) {
	query := `SELECT s.id, s.section_type_id, s.content, s.timeframe_type, s.timeframe_start, s.timeframe_end, s.created_at, s.updated_at
		 FROM sections s
		 JOIN entry_sections es ON es.section_id = s.id
		 WHERE es.entry_id = $1
		 ORDER BY s.created_at, s.id`
	return r.list(ctx, query, entryId)
}

func (r *PostgresRepository) RecentCreated(ctx context.Context, limit int) ([]models.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections ORDER BY created_at DESC, id DESC LIMIT $1`
	return r.list(ctx, query, limit)
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]models.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections ORDER BY id`
	return r.list(ctx, query)
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sections`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.Section, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
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
