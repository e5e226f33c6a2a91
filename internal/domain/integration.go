package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxEventIDLength bounds event ids to what the event_id columns hold.
const MaxEventIDLength = 64

func ValidateEventID(eventID string) error {
	if strings.TrimSpace(eventID) == "" {
		return fmt.Errorf("%w: event id is required", ErrValidation)
	}
	if n := utf8.RuneCountInString(eventID); n > MaxEventIDLength {
		return fmt.Errorf("%w: event id has %d characters, at most %d allowed", ErrValidation, n, MaxEventIDLength)
	}
	return nil
}

// Integration associates an event with a provider serving one usage.
// Provider-specific settings live in a ProviderConfig keyed by the same ID.
type Integration struct {
	ID        string
	EventID   string
	Provider  Provider
	Usage     Usage
	CreatedAt time.Time
}

// ProviderConfig is the persisted, provider-specific half of an Integration.
type ProviderConfig interface {
	Provider() Provider
}

type SlackConfig struct {
	Token   string
	Channel string
}

type MailjetConfig struct {
	APIKey    string
	Secret    string
	FromEmail string
	FromName  string
}

type WebhookConfig struct {
	URL    string
	Secret string
	// Events restricts deliveries to the listed event types; empty means all.
	Events []string
}

type QontoConfig struct {
	APIKey       string
	Secret       string
	SandboxToken string
}

type BilletwebConfig struct {
	Basic   string
	EventID string
	RateID  string
}

type OpenPlannerConfig struct {
	EventID string
	APIKey  string
}

func (SlackConfig) Provider() Provider       { return ProviderSlack }
func (MailjetConfig) Provider() Provider     { return ProviderMailjet }
func (WebhookConfig) Provider() Provider     { return ProviderWebhook }
func (QontoConfig) Provider() Provider       { return ProviderQonto }
func (BilletwebConfig) Provider() Provider   { return ProviderBilletweb }
func (OpenPlannerConfig) Provider() Provider { return ProviderOpenPlanner }

// Accepts reports whether the webhook should receive events of the given type.
func (c WebhookConfig) Accepts(eventType string) bool {
	if len(c.Events) == 0 {
		return true
	}
	for _, e := range c.Events {
		if e == eventType {
			return true
		}
	}
	return false
}
