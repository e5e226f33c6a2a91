package repository

import (
	"time"

	"github.com/kursadbilgin/partnership-gateway/internal/domain"
)

// IntegrationModel is the persistence model for the integrations table.
type IntegrationModel struct {
	ID        string          `gorm:"type:uuid;primaryKey"`
	EventID   string          `gorm:"type:varchar(64);not null;index:idx_integrations_event_usage"`
	Provider  domain.Provider `gorm:"type:varchar(20);not null"`
	Usage     domain.Usage    `gorm:"type:varchar(20);not null;index:idx_integrations_event_usage"`
	CreatedAt time.Time       `gorm:"not null"`
}

func (IntegrationModel) TableName() string {
	return "integrations"
}

// SessionModel is the persistence model for imported agenda sessions.
type SessionModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	EventID     string `gorm:"type:varchar(64);not null;uniqueIndex:idx_sessions_event_external"`
	ExternalID  string `gorm:"type:varchar(255);not null;uniqueIndex:idx_sessions_event_external"`
	Title       string `gorm:"type:varchar(512);not null"`
	Abstract    string `gorm:"type:text"`
	Track       string `gorm:"type:varchar(255)"`
	Language    string `gorm:"type:varchar(16)"`
	StartTime   *time.Time
	EndTime     *time.Time
	SpeakerRefs []string `gorm:"serializer:json;type:text"`
	UpdatedAt   time.Time
}

func (SessionModel) TableName() string {
	return "agenda_sessions"
}

// SpeakerModel is the persistence model for imported agenda speakers.
type SpeakerModel struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	EventID    string `gorm:"type:varchar(64);not null;uniqueIndex:idx_speakers_event_external"`
	ExternalID string `gorm:"type:varchar(255);not null;uniqueIndex:idx_speakers_event_external"`
	Name       string `gorm:"type:varchar(255);not null"`
	Bio        string `gorm:"type:text"`
	Company    string `gorm:"type:varchar(255)"`
	PhotoURL   string `gorm:"type:varchar(1024)"`
	UpdatedAt  time.Time
}

func (SpeakerModel) TableName() string {
	return "agenda_speakers"
}

func integrationModelFromDomain(i *domain.Integration) *IntegrationModel {
	if i == nil {
		return nil
	}

	return &IntegrationModel{
		ID:        i.ID,
		EventID:   i.EventID,
		Provider:  i.Provider,
		Usage:     i.Usage,
		CreatedAt: i.CreatedAt,
	}
}

func integrationModelToDomain(m *IntegrationModel) *domain.Integration {
	if m == nil {
		return nil
	}

	return &domain.Integration{
		ID:        m.ID,
		EventID:   m.EventID,
		Provider:  m.Provider,
		Usage:     m.Usage,
		CreatedAt: m.CreatedAt,
	}
}

func sessionModelFromDomain(s *domain.Session) *SessionModel {
	return &SessionModel{
		ID:          s.ID,
		EventID:     s.EventID,
		ExternalID:  s.ExternalID,
		Title:       s.Title,
		Abstract:    s.Abstract,
		Track:       s.Track,
		Language:    s.Language,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		SpeakerRefs: s.SpeakerRefs,
	}
}

func sessionModelToDomain(m *SessionModel) *domain.Session {
	return &domain.Session{
		ID:          m.ID,
		EventID:     m.EventID,
		ExternalID:  m.ExternalID,
		Title:       m.Title,
		Abstract:    m.Abstract,
		Track:       m.Track,
		Language:    m.Language,
		StartTime:   m.StartTime,
		EndTime:     m.EndTime,
		SpeakerRefs: m.SpeakerRefs,
	}
}

func speakerModelFromDomain(s *domain.Speaker) *SpeakerModel {
	return &SpeakerModel{
		ID:         s.ID,
		EventID:    s.EventID,
		ExternalID: s.ExternalID,
		Name:       s.Name,
		Bio:        s.Bio,
		Company:    s.Company,
		PhotoURL:   s.PhotoURL,
	}
}

func speakerModelToDomain(m *SpeakerModel) *domain.Speaker {
	return &domain.Speaker{
		ID:         m.ID,
		EventID:    m.EventID,
		ExternalID: m.ExternalID,
		Name:       m.Name,
		Bio:        m.Bio,
		Company:    m.Company,
		PhotoURL:   m.PhotoURL,
	}
}
