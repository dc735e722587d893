// Package migrations holds the embedded SQL schema for every supported backend.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

const (
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// Sub returns the migration files of a single backend.
func Sub(dialect string) (fs.FS, error) {
	return fs.Sub(FS, dialect)
}
