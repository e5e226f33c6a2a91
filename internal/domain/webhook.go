package domain

import (
	"fmt"
	"strings"
	"time"
)

// WebhookEvent is a partnership lifecycle event pushed to webhook integrations.
type WebhookEvent struct {
	Type          string
	EventID       string
	PartnershipID string
	OccurredAt    time.Time
	Data          map[string]any
}

func (e *WebhookEvent) Validate() error {
	if strings.TrimSpace(e.Type) == "" {
		return fmt.Errorf("%w: webhook event type is required", ErrValidation)
	}
	if strings.TrimSpace(e.PartnershipID) == "" {
		return fmt.Errorf("%w: partnership id is required", ErrValidation)
	}
	return nil
}
