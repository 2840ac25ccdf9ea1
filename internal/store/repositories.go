package store

import (
	"github.com/dmitrijs2005/daybook/internal/dbx"
	"github.com/dmitrijs2005/daybook/internal/repositories/columns"
	"github.com/dmitrijs2005/daybook/internal/repositories/entries"
	"github.com/dmitrijs2005/daybook/internal/repositories/links"
	"github.com/dmitrijs2005/daybook/internal/repositories/metadata"
	"github.com/dmitrijs2005/daybook/internal/repositories/sections"
	"github.com/dmitrijs2005/daybook/internal/repositories/sectiontypes"
)

// Repositories bundles every repository bound to one database handle. The
// handle may be the store's *sql.DB or a transaction inside Write/Read.
type Repositories struct {
	Entries  entries.Repository
	Sections sections.Repository
	Links    links.Repository
	Types    sectiontypes.Repository
	Columns  columns.Repository
	Metadata metadata.Repository
}

func newRepositories(backend string, db dbx.DBTX) *Repositories {
	if backend == BackendPostgres {
		return &Repositories{
			Entries:  entries.NewPostgresRepository(db),
			Sections: sections.NewPostgresRepository(db),
			Links:    links.NewPostgresRepository(db),
			Types:    sectiontypes.NewPostgresRepository(db),
			Columns:  columns.NewPostgresRepository(db),
			Metadata: metadata.NewPostgresRepository(db),
		}
	}
	return &Repositories{
		Entries:  entries.NewSQLiteRepository(db),
		Sections: sections.NewSQLiteRepository(db),
		Links:    links.NewSQLiteRepository(db),
		Types:    sectiontypes.NewSQLiteRepository(db),
		Columns:  columns.NewSQLiteRepository(db),
		Metadata: metadata.NewSQLiteRepository(db),
	}
}
