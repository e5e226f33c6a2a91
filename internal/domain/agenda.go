package domain

import "time"

// Session is a talk imported from an agenda provider.
type Session struct {
	ID          string
	EventID     string
	ExternalID  string
	Title       string
	Abstract    string
	Track       string
	Language    string
	StartTime   *time.Time
	EndTime     *time.Time
	SpeakerRefs []string
}

type Speaker struct {
	ID         string
	EventID    string
	ExternalID string
	Name       string
	Bio        string
	Company    string
	PhotoURL   string
}

type AgendaSyncResult struct {
	Sessions int
	Speakers int
}
