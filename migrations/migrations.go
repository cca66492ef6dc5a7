// Package migrations holds the PostgreSQL schema and applies it with darwin.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/GuiaBolso/darwin"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/database"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed *.sql
var files embed.FS

// Load returns the embedded migrations ordered by version. File names follow
// NNNN_description.sql.
func Load() ([]darwin.Migration, error) {
	return load(files)
}

func load(fsys fs.FS) ([]darwin.Migration, error) {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	migrations := make([]darwin.Migration, 0, len(names))
	for _, name := range names {
		prefix, desc, ok := strings.Cut(strings.TrimSuffix(name, ".sql"), "_")
		if !ok {
			return nil, fmt.Errorf("migration %s: expected NNNN_description.sql", name)
		}
		version, err := strconv.ParseFloat(prefix, 64)
		if err != nil {
			return nil, fmt.Errorf("migration %s: invalid version: %w", name, err)
		}
		script, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, darwin.Migration{
			Version:     version,
			Description: strings.ReplaceAll(desc, "_", " "),
			Script:      string(script),
		})
	}
	return migrations, nil
}

// Up applies every pending migration on the pool's database.
func Up(db *database.DB) error {
	migrations, err := Load()
	if err != nil {
		return err
	}

	sqlDB := stdlib.OpenDBFromPool(db.Pool)
	defer sqlDB.Close()

	driver := darwin.NewGenericDriver(sqlDB, darwin.PostgresDialect{})
	if err := darwin.New(driver, migrations, nil).Migrate(); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
