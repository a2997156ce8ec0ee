package application

import (
	"context"
	"embed"
	"io/fs"
	"sort"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MigrationManager applies module-embedded schema files. Schemas must be
// written to be re-runnable (CREATE TABLE IF NOT EXISTS and friends): the
// manager executes every registered file on each Apply.
type MigrationManager interface {
	RegisterSchema(fs ...*embed.FS)
	Apply(ctx context.Context) error
}

func NewMigrationManager(pool *pgxpool.Pool) MigrationManager {
	return &migrationManager{pool: pool}
}

type migrationManager struct {
	pool    *pgxpool.Pool
	schemas []*embed.FS
}

func (m *migrationManager) RegisterSchema(schemas ...*embed.FS) {
	m.schemas = append(m.schemas, schemas...)
}

func (m *migrationManager) Apply(ctx context.Context) error {
	for _, schema := range m.schemas {
		files, err := listSQLFiles(schema)
		if err != nil {
			return err
		}
		for _, file := range files {
			ddl, err := schema.ReadFile(file)
			if err != nil {
				return errors.Wrapf(err, "read schema %s", file)
			}
			if _, err := m.pool.Exec(ctx, string(ddl)); err != nil {
				return errors.Wrapf(err, "apply schema %s", file)
			}
		}
	}
	return nil
}

func listSQLFiles(fsys fs.FS) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
