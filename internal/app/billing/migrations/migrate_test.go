package migrations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDDLStatements(t *testing.T) {
	sql := `
-- header comment
CREATE TABLE a (
    id STRING(36) NOT NULL, -- inline
) PRIMARY KEY (id);

CREATE INDEX a_by_id ON a (id);
CREATE TABLE b (id INT64) PRIMARY KEY (id)
`

	statements := ParseDDLStatements(sql)

	assert.Equal(t, []string{
		"CREATE TABLE a ( id STRING(36) NOT NULL, ) PRIMARY KEY (id)",
		"CREATE INDEX a_by_id ON a (id)",
		"CREATE TABLE b (id INT64) PRIMARY KEY (id)",
	}, statements)
}

func TestParseDDLStatements_Empty(t *testing.T) {
	assert.Empty(t, ParseDDLStatements("-- nothing here\n\n"))
}

func TestLoadStatements_OrdersFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "002_second.sql"), []byte("CREATE INDEX x ON t (c);"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_first.sql"), []byte("CREATE TABLE t (c INT64) PRIMARY KEY (c);"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o600))

	logger, _ := test.NewNullLogger()
	statements, err := LoadStatements(dir, logger)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"CREATE TABLE t (c INT64) PRIMARY KEY (c)",
		"CREATE INDEX x ON t (c)",
	}, statements)
}

func TestSchemaMigration(t *testing.T) {
	dir, err := FindMigrationsDir()
	require.NoError(t, err)

	logger, _ := test.NewNullLogger()
	statements, err := LoadStatements(dir, logger)

	require.NoError(t, err)
	require.Len(t, statements, 2)
	assert.Contains(t, statements[0], "CREATE TABLE billing_notifications")
	assert.Contains(t, statements[1], "CREATE INDEX billing_notifications_by_delivered_at")
}
