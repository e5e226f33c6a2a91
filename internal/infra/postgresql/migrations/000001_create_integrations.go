package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/kursadbilgin/partnership-gateway/internal/repository"
	"gorm.io/gorm"
)

func createIntegrationsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000001_create_integrations",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(&repository.IntegrationModel{}); err != nil {
				return err
			}
			return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_integrations_usage ON integrations (usage)`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.IntegrationModel{})
		},
	}
}
