package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/kursadbilgin/partnership-gateway/internal/repository"
	"gorm.io/gorm"
)

// One table per provider, each keyed 1:1 by integration id.
func createProviderConfigTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000002_create_provider_configs",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(repository.ConfigModels()...)
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(repository.ConfigModels()...)
		},
	}
}
