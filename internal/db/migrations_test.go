package db

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openBareSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "bare.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return database
}

func TestRunMigrationsAppliesInVersionOrderOnce(t *testing.T) {
	database := openBareSQLite(t)
	source := fstest.MapFS{
		"0002_add_note.sql": {Data: []byte("ALTER TABLE widgets ADD COLUMN note TEXT;")},
		"0001_widgets.sql":  {Data: []byte("CREATE TABLE widgets (id INTEGER PRIMARY KEY);")},
		"README.md":         {Data: []byte("ignored")},
	}

	if err := runMigrations(database, source); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := runMigrations(database, source); err != nil {
		t.Fatalf("second run: %v", err)
	}

	var versions []string
	if err := database.Raw(`SELECT version FROM schema_migrations ORDER BY version`).Scan(&versions).Error; err != nil {
		t.Fatalf("load versions: %v", err)
	}
	if strings.Join(versions, ",") != "1,2" {
		t.Fatalf("expected versions 1,2, got %v", versions)
	}
	if err := database.Exec(`INSERT INTO widgets(id, note) VALUES (1, 'ok')`).Error; err != nil {
		t.Fatalf("expected note column: %v", err)
	}
}

func TestRunMigrationsSkipsColumnsAddedByHand(t *testing.T) {
	database := openBareSQLite(t)
	if err := database.Exec(`CREATE TABLE widgets (id INTEGER PRIMARY KEY, note TEXT)`).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}

	source := fstest.MapFS{
		"0001_add_note.sql": {Data: []byte("ALTER TABLE widgets ADD COLUMN note TEXT;")},
	}
	if err := runMigrations(database, source); err != nil {
		t.Fatalf("expected existing column to be skipped, got %v", err)
	}
}

func TestRunMigrationsRejectsBadSources(t *testing.T) {
	database := openBareSQLite(t)

	duplicate := fstest.MapFS{
		"0001_first.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"001_second.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
	}
	if err := runMigrations(database, duplicate); err == nil || !strings.Contains(err.Error(), "used by") {
		t.Fatalf("expected duplicate version error, got %v", err)
	}

	empty := fstest.MapFS{
		"0001_empty.sql": {Data: []byte(" ; \n ;")},
	}
	if err := runMigrations(database, empty); !errors.Is(err, errEmptyMigration) {
		t.Fatalf("expected errEmptyMigration, got %v", err)
	}
}

func TestRunMigrationsRollsBackFailedFile(t *testing.T) {
	database := openBareSQLite(t)
	source := fstest.MapFS{
		"0001_broken.sql": {Data: []byte("CREATE TABLE half (id INTEGER); CREATE TABLE half (id INTEGER);")},
	}
	if err := runMigrations(database, source); err == nil {
		t.Fatal("expected broken migration to fail")
	}

	var count int64
	if err := database.Raw(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'half'`).Scan(&count).Error; err != nil {
		t.Fatalf("inspect schema: %v", err)
	}
	if count != 0 {
		t.Fatal("expected failed migration to be rolled back")
	}
}

func TestSQLiteDSNCarriesPragmas(t *testing.T) {
	dsn := sqliteDSN(filepath.Join("data", "redrecon.db"))
	for _, pragma := range []string{"foreign_keys%281%29", "busy_timeout%285000%29", "journal_mode%28WAL%29"} {
		if !strings.Contains(dsn, "_pragma="+pragma) {
			t.Fatalf("expected %s in %q", pragma, dsn)
		}
	}
}
