package migrate_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chamber122/chamber122-backend/pkg/migrate"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))
}

func TestBusinessMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_users_and_businesses.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS businesses",
		"FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_businesses_owner_id",
		"FOREIGN KEY (business_id) REFERENCES businesses(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS businesses",
	} {
		assert.True(t, strings.Contains(content, sub), "missing %q", sub)
	}
}

func TestMigrationsApplyAndRollBackOnSQLite(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	require.NoError(t, migrate.Run(ctx, db, "sqlite", "migrations", "up"))

	for _, table := range []string{"users", "businesses", "business_media", "events", "bulletins", "conversations", "messages", "kv_entries"} {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, table)
	}

	require.NoError(t, migrate.Run(ctx, db, "sqlite", "migrations", "reset"))
	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='businesses'").Scan(&count))
	assert.Zero(t, count)
}

func TestDialect(t *testing.T) {
	d, err := migrate.Dialect("postgres")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d)

	d, err = migrate.Dialect("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", d)

	_, err = migrate.Dialect("oracle")
	assert.Error(t, err)
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Business Tags!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_business_tags.sql"))
	require.NoError(t, migrate.ValidateDir(dir))

	_, err = migrate.CreateSQLMigration(dir, "!!!")
	assert.Error(t, err)
}

func TestValidateDirRejectsBrokenFiles(t *testing.T) {
	cases := map[string]string{
		"20260101000000_no_down.sql":  "-- +goose Up\nSELECT 1;\n",
		"20260101000000_swapped.sql":  "-- +goose Down\nSELECT 1;\n-- +goose Up\nSELECT 1;\n",
		"20260101000000_unclosed.sql": "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
			assert.Error(t, migrate.ValidateDir(dir))
		})
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad-name.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	assert.Error(t, migrate.ValidateDir(dir))
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "add_event_tags", migrate.SanitizeName("  Add Event-Tags "))
	assert.Empty(t, migrate.SanitizeName("__"))
}
