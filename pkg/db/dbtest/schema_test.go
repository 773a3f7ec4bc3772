package dbtest_test

import (
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/supplyhub-backend/pkg/db/dbtest"
	"github.com/angelmondragon/supplyhub-backend/pkg/migrate"
)

var createTableRe = regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS (\w+) \((.*?)\n\);`)

var tableConstraints = map[string]bool{
	"PRIMARY":    true,
	"UNIQUE":     true,
	"CHECK":      true,
	"CONSTRAINT": true,
	"FOREIGN":    true,
}

// migrationColumns reads the Up sections of the embedded migrations and
// returns the declared columns per table.
func migrationColumns(t *testing.T) map[string][]string {
	t.Helper()
	src := migrate.Embedded()
	files, err := fs.Glob(src.FS, path.Join(src.Dir, "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	tables := map[string][]string{}
	for _, name := range files {
		raw, err := fs.ReadFile(src.FS, name)
		require.NoError(t, err)
		up, _, _ := strings.Cut(string(raw), "-- +goose Down")

		for _, m := range createTableRe.FindAllStringSubmatch(up, -1) {
			for _, line := range strings.Split(m[2], "\n") {
				fields := strings.Fields(line)
				if len(fields) == 0 || tableConstraints[strings.ToUpper(fields[0])] {
					continue
				}
				tables[m[1]] = append(tables[m[1]], fields[0])
			}
		}
	}
	for name := range tables {
		sort.Strings(tables[name])
	}
	return tables
}

func TestSQLiteSchemaMatchesMigrations(t *testing.T) {
	want := migrationColumns(t)
	conn := dbtest.Open(t)

	tables, err := conn.Migrator().GetTables()
	require.NoError(t, err)
	wantTables := make([]string, 0, len(want))
	for name := range want {
		wantTables = append(wantTables, name)
	}
	assert.ElementsMatch(t, wantTables, tables)

	for table, columns := range want {
		types, err := conn.Migrator().ColumnTypes(table)
		require.NoError(t, err, table)
		got := make([]string, 0, len(types))
		for _, ct := range types {
			got = append(got, ct.Name())
		}
		assert.ElementsMatch(t, columns, got, "columns of %s", table)
	}
}
