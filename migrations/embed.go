package migrations

import (
	"embed"
	"fmt"
	"io/fs"
)

// Files stores forward-only SQL migrations, one directory per dialect.
//
//go:embed sqlite/*.sql postgres/*.sql
var Files embed.FS

func ForDialect(dialect string) (fs.FS, error) {
	switch dialect {
	case "sqlite", "postgres":
		return fs.Sub(Files, dialect)
	default:
		return nil, fmt.Errorf("no embedded migrations for dialect %q", dialect)
	}
}
