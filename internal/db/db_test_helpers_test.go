package db

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"
)

func openTestSQLite(t *testing.T, name string) (*gorm.DB, string) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), name)
	database, err := OpenSQLite(databasePath)
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
	return database, databasePath
}
