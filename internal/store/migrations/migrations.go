// Package migrations embeds the SQL migrations applied by the local store.
// Each supported backend keeps its migrations in its own subdirectory.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite postgres
var Migrations embed.FS

// For returns the migration tree for the given backend ("sqlite" or
// "postgres").
func For(backend string) (fs.FS, error) {
	return fs.Sub(Migrations, backend)
}
