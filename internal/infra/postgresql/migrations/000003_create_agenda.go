package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/kursadbilgin/partnership-gateway/internal/repository"
	"gorm.io/gorm"
)

func createAgendaTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000003_create_agenda",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&repository.SpeakerModel{}, &repository.SessionModel{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.SessionModel{}, &repository.SpeakerModel{})
		},
	}
}
