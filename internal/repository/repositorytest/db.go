// Package repositorytest provides migrated in-memory databases for tests.
package repositorytest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/kursadbilgin/partnership-gateway/internal/infra/postgresql/migrations"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with every migration applied.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get underlying sql.DB: %v", err)
	}
	// A single connection serialises access like a row lock would.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := migrations.Migrate(db); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}

	return db
}
