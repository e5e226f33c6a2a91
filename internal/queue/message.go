package queue

import (
	"fmt"
	"strings"
	"time"
)

// AgendaSyncMessage asks a worker to refresh the agenda of one event.
type AgendaSyncMessage struct {
	EventID       string    `json:"eventId"`
	CorrelationID string    `json:"correlationId,omitempty"`
	RequestedAt   time.Time `json:"requestedAt"`
}

func (m AgendaSyncMessage) Validate() error {
	if strings.TrimSpace(m.EventID) == "" {
		return fmt.Errorf("eventId is required")
	}
	return nil
}
