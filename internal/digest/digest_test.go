package digest

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/daybook/internal/models"
	"github.com/dmitrijs2005/daybook/internal/repositories/columns"
	"github.com/dmitrijs2005/daybook/internal/repositories/entries"
	"github.com/dmitrijs2005/daybook/internal/repositories/sections"
	"github.com/dmitrijs2005/daybook/internal/repositories/sectiontypes"
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
CREATE TABLE entries (
  id TEXT PRIMARY KEY,
  date TEXT NOT NULL UNIQUE,
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL
);
CREATE TABLE columns (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  width INTEGER NOT NULL,
  display_order INTEGER NOT NULL
);
CREATE TABLE section_types (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  frequency TEXT NOT NULL,
  display_order INTEGER NOT NULL,
  placeholder TEXT NOT NULL,
  default_content TEXT NOT NULL,
  content_type TEXT NOT NULL,
  column_id TEXT NOT NULL
);
CREATE TABLE sections (
  id TEXT PRIMARY KEY,
  section_type_id TEXT NOT NULL,
  content TEXT NOT NULL,
  timeframe_type TEXT NOT NULL,
  timeframe_start TEXT NOT NULL,
  timeframe_end TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL,
  UNIQUE (section_type_id, timeframe_type, timeframe_start)
);
`)
	require.NoError(t, err)

	return db
}

func sourceFor(db *sql.DB) Source {
	return Source{
		Entries:  entries.NewSQLiteRepository(db),
		Sections: sections.NewSQLiteRepository(db),
		Types:    sectiontypes.NewSQLiteRepository(db),
		Columns:  columns.NewSQLiteRepository(db),
	}
}

func hashOf(t *testing.T, db *sql.DB) string {
	t.Helper()
	h, err := Hash(context.Background(), sourceFor(db))
	require.NoError(t, err)
	return h
}

func addEntry(t *testing.T, db *sql.DB, date string, at time.Time) {
	t.Helper()
	r := entries.NewSQLiteRepository(db)
	err := r.CreateOrUpdate(context.Background(), &models.Entry{
		Id: "entry-" + date, Date: date, CreatedAt: at, UpdatedAt: at,
	})
	require.NoError(t, err)
}

func addSection(t *testing.T, db *sql.DB, id, typeId, content, start string, at time.Time) {
	t.Helper()
	r := sections.NewSQLiteRepository(db)
	err := r.CreateOrUpdate(context.Background(), &models.Section{
		Id: id, SectionTypeId: typeId, Content: content,
		TimeframeType: models.TimeframeDaily, TimeframeStart: start, TimeframeEnd: start,
		CreatedAt: at, UpdatedAt: at,
	})
	require.NoError(t, err)
}

func addType(t *testing.T, db *sql.DB, id, title string, order int) {
	t.Helper()
	r := sectiontypes.NewSQLiteRepository(db)
	err := r.CreateOrUpdate(context.Background(), &models.SectionType{
		Id: id, Title: title, Frequency: models.TimeframeDaily,
		DisplayOrder: order, ContentType: "text", ColumnId: "col1",
	})
	require.NoError(t, err)
}

func addColumn(t *testing.T, db *sql.DB, id, title string, order int) {
	t.Helper()
	r := columns.NewSQLiteRepository(db)
	err := r.CreateOrUpdate(context.Background(), &models.Column{
		Id: id, Title: title, Width: 300, DisplayOrder: order,
	})
	require.NoError(t, err)
}

func TestHash_EmptyStoreIsStable(t *testing.T) {
	a := setupDB(t)
	b := setupDB(t)

	ha := hashOf(t, a)
	hb := hashOf(t, b)

	assert.Equal(t, ha, hb)
	assert.Len(t, ha, 64)
	assert.Regexp(t, "^[0-9a-f]{64}$", ha)
}

func TestHash_InsertionOrderDoesNotMatter(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	a := setupDB(t)
	addColumn(t, a, "col1", "Left", 0)
	addColumn(t, a, "col2", "Right", 1)
	addType(t, a, "st1", "Notes", 0)
	addType(t, a, "st2", "Tasks", 1)
	addEntry(t, a, "2024-03-01", base)
	addEntry(t, a, "2024-03-02", base.Add(time.Hour))
	addSection(t, a, "s1", "st1", "hello", "2024-03-01", base)
	addSection(t, a, "s2", "st2", "world", "2024-03-02", base.Add(time.Hour))

	// same rows, reversed write order
	b := setupDB(t)
	addSection(t, b, "s2", "st2", "world", "2024-03-02", base.Add(time.Hour))
	addSection(t, b, "s1", "st1", "hello", "2024-03-01", base)
	addEntry(t, b, "2024-03-02", base.Add(time.Hour))
	addEntry(t, b, "2024-03-01", base)
	addType(t, b, "st2", "Tasks", 1)
	addType(t, b, "st1", "Notes", 0)
	addColumn(t, b, "col2", "Right", 1)
	addColumn(t, b, "col1", "Left", 0)

	assert.Equal(t, hashOf(t, a), hashOf(t, b))
}

func TestHash_ContentChangeChangesHash(t *testing.T) {
	db := setupDB(t)
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	addSection(t, db, "s1", "st1", "draft", "2024-03-01", at)

	before := hashOf(t, db)

	r := sections.NewSQLiteRepository(db)
	require.NoError(t, r.UpdateContent(context.Background(), "s1", "final"))

	assert.NotEqual(t, before, hashOf(t, db))
}

func TestHash_EntryTimestampsExcluded(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	a := setupDB(t)
	addEntry(t, a, "2024-03-01", at)

	b := setupDB(t)
	addEntry(t, b, "2024-03-01", at.Add(48*time.Hour))

	assert.Equal(t, hashOf(t, a), hashOf(t, b))
}

func TestHash_OldEntriesBeyondLimitExcluded(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	a := setupDB(t)
	b := setupDB(t)
	// same RecentEntryLimit newest dates in both
	for i := 0; i < RecentEntryLimit; i++ {
		date := fmt.Sprintf("2024-04-%02d", i+1)
		addEntry(t, a, date, base)
		addEntry(t, b, date, base)
	}
	// older tails differ
	addEntry(t, a, "2024-01-05", base)
	addEntry(t, b, "2024-02-20", base)

	assert.Equal(t, hashOf(t, a), hashOf(t, b))
}

func TestHash_OldSectionsBeyondLimitExcluded(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	a := setupDB(t)
	b := setupDB(t)
	// same RecentSectionLimit newest sections in both
	for i := 0; i < RecentSectionLimit; i++ {
		id := fmt.Sprintf("s%03d", i)
		start := base.AddDate(0, 0, i).Format("2006-01-02")
		at := base.Add(time.Duration(i+1) * time.Hour)
		addSection(t, a, id, "st1", "text "+id, start, at)
		addSection(t, b, id, "st1", "text "+id, start, at)
	}
	// older tails differ, created before everything above
	addSection(t, a, "old-a", "st1", "forgotten a", "2023-12-01", base.Add(-time.Hour))
	addSection(t, b, "old-b", "st1", "forgotten b", "2023-12-02", base.Add(-time.Hour))

	assert.Equal(t, hashOf(t, a), hashOf(t, b))
}

func TestHash_TemplateChangeChangesHash(t *testing.T) {
	db := setupDB(t)
	addType(t, db, "st1", "Notes", 0)

	before := hashOf(t, db)

	r := sectiontypes.NewSQLiteRepository(db)
	require.NoError(t, r.UpdateFrequency(context.Background(), "st1", models.TimeframeWeekly))

	assert.NotEqual(t, before, hashOf(t, db))
}

func TestHash_ColumnChangeChangesHash(t *testing.T) {
	db := setupDB(t)
	addColumn(t, db, "col1", "Left", 0)

	before := hashOf(t, db)

	addColumn(t, db, "col1", "Leftmost", 0)

	assert.NotEqual(t, before, hashOf(t, db))
}
