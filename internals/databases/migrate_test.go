package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationURL(t *testing.T) {
	assert.Equal(t,
		"postgres://u@h/db?x-migrations-table=workshop_schema_migrations",
		migrationURL("postgres://u@h/db"))
	assert.Equal(t,
		"postgres://u@h/db?sslmode=disable&x-migrations-table=workshop_schema_migrations",
		migrationURL("postgres://u@h/db?sslmode=disable"))
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	require.NoError(t, err)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Equal(t, 3, ups)
	assert.Equal(t, ups, downs)
}
