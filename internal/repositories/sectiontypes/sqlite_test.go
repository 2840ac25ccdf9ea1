package sectiontypes

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE section_types (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  frequency TEXT NOT NULL,
  display_order INTEGER NOT NULL DEFAULT 0,
  placeholder TEXT NOT NULL DEFAULT '',
  default_content TEXT NOT NULL DEFAULT '',
  content_type TEXT NOT NULL DEFAULT 'text',
  column_id TEXT NOT NULL DEFAULT ''
);
`)
	require.NoError(t, err)

	return db
}

func newType(id, title string, freq models.TimeframeType, order int) *models.SectionType {
	return &models.SectionType{
		Id:           id,
		Title:        title,
		Frequency:    freq,
		DisplayOrder: order,
		ContentType:  "text",
		ColumnId:     "c1",
	}
}

func TestCreateOrUpdate_UpsertByID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.CreateOrUpdate(ctx, newType("t1", "Tasks", models.TimeframeDaily, 1)))

	// update того же id
	updated := newType("t1", "Tasks!", models.TimeframeWeekly, 2)
	updated.Placeholder = "what to do"
	require.NoError(t, r.CreateOrUpdate(ctx, updated))

	got, err := r.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Tasks!", got.Title)
	assert.Equal(t, models.TimeframeWeekly, got.Frequency)
	assert.Equal(t, "what to do", got.Placeholder)
}

func TestGetByTitle(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.CreateOrUpdate(ctx, newType("t1", "Notes", models.TimeframeDaily, 1)))

	got, err := r.GetByTitle(ctx, "Notes")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.Id)

	_, err = r.GetByTitle(ctx, "Missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetAll_DisplayOrder(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.CreateOrUpdate(ctx, newType("t2", "B", models.TimeframeDaily, 2)))
	require.NoError(t, r.CreateOrUpdate(ctx, newType("t1", "A", models.TimeframeDaily, 1)))
	require.NoError(t, r.CreateOrUpdate(ctx, newType("t3", "AA", models.TimeframeDaily, 1)))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "A", all[0].Title)
	assert.Equal(t, "AA", all[1].Title)
	assert.Equal(t, "B", all[2].Title)
}

func TestUpdateFrequency(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.CreateOrUpdate(ctx, newType("t1", "Habits", models.TimeframeDaily, 1)))
	require.NoError(t, r.UpdateFrequency(ctx, "t1", models.TimeframeMonthly))

	got, err := r.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, models.TimeframeMonthly, got.Frequency)

	assert.Error(t, r.UpdateFrequency(ctx, "missing", models.TimeframeDaily))
}

func TestDeleteByID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.CreateOrUpdate(ctx, newType("t1", "Tmp", models.TimeframeDaily, 1)))
	require.NoError(t, r.DeleteByID(ctx, "t1"))

	_, err := r.GetByID(ctx, "t1")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.Error(t, r.DeleteByID(ctx, "t1"), "second delete must fail")
}
