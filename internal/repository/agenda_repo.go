package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const agendaUpsertBatchSize = 100

type AgendaRepository interface {
	// SaveAgenda upserts speakers and sessions keyed by (event, external id)
	// in a single transaction.
	SaveAgenda(ctx context.Context, eventID string, speakers []domain.Speaker, sessions []domain.Session) error
	ListSessions(ctx context.Context, eventID string) ([]domain.Session, error)
	ListSpeakers(ctx context.Context, eventID string) ([]domain.Speaker, error)
}

type GormAgendaRepo struct {
	db *gorm.DB
}

func NewGormAgendaRepo(db *gorm.DB) *GormAgendaRepo {
	return &GormAgendaRepo{db: db}
}

func (r *GormAgendaRepo) SaveAgenda(ctx context.Context, eventID string, speakers []domain.Speaker, sessions []domain.Session) error {
	speakerModels := make([]SpeakerModel, 0, len(speakers))
	for i := range speakers {
		model := speakerModelFromDomain(&speakers[i])
		model.ID = uuid.NewString()
		model.EventID = eventID
		speakerModels = append(speakerModels, *model)
	}

	sessionModels := make([]SessionModel, 0, len(sessions))
	for i := range sessions {
		model := sessionModelFromDomain(&sessions[i])
		model.ID = uuid.NewString()
		model.EventID = eventID
		sessionModels = append(sessionModels, *model)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(speakerModels) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "event_id"}, {Name: "external_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "bio", "company", "photo_url", "updated_at"}),
			}).CreateInBatches(&speakerModels, agendaUpsertBatchSize).Error
			if err != nil {
				return fmt.Errorf("failed to upsert speakers: %w", err)
			}
		}

		if len(sessionModels) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "event_id"}, {Name: "external_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"title", "abstract", "track", "language", "start_time", "end_time", "speaker_refs", "updated_at",
				}),
			}).CreateInBatches(&sessionModels, agendaUpsertBatchSize).Error
			if err != nil {
				return fmt.Errorf("failed to upsert sessions: %w", err)
			}
		}

		return nil
	})
}

func (r *GormAgendaRepo) ListSessions(ctx context.Context, eventID string) ([]domain.Session, error) {
	var models []SessionModel
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("external_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	sessions := make([]domain.Session, 0, len(models))
	for i := range models {
		sessions = append(sessions, *sessionModelToDomain(&models[i]))
	}
	return sessions, nil
}

func (r *GormAgendaRepo) ListSpeakers(ctx context.Context, eventID string) ([]domain.Speaker, error) {
	var models []SpeakerModel
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("external_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	speakers := make([]domain.Speaker, 0, len(models))
	for i := range models {
		speakers = append(speakers, *speakerModelToDomain(&models[i]))
	}
	return speakers, nil
}
