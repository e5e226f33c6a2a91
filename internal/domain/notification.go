package domain

import (
	"fmt"
	"strings"
)

// NotificationKind selects the message template.
type NotificationKind string

const (
	NotificationNewPartnership       NotificationKind = "new_partnership"
	NotificationPartnershipValidated NotificationKind = "partnership_validated"
	NotificationPartnershipDeclined  NotificationKind = "partnership_declined"
	NotificationAgreementSigned      NotificationKind = "agreement_signed"
	NotificationCustom               NotificationKind = "custom"
)

func (k NotificationKind) String() string { return string(k) }

func (k NotificationKind) IsValid() bool {
	switch k {
	case NotificationNewPartnership, NotificationPartnershipValidated, NotificationPartnershipDeclined,
		NotificationAgreementSigned, NotificationCustom:
		return true
	}
	return false
}

const DefaultLanguage = "en"

// NotificationVariables carries what templates need to render a message.
type NotificationVariables struct {
	Kind       NotificationKind
	Language   string
	EventName  string
	Company    string
	Pack       string
	Link       string
	Message    string
	Recipients []string
}

func (v *NotificationVariables) Validate() error {
	if !v.Kind.IsValid() {
		return fmt.Errorf("%w: invalid notification kind %q", ErrValidation, v.Kind)
	}
	if v.Kind == NotificationCustom && strings.TrimSpace(v.Message) == "" {
		return fmt.Errorf("%w: message is required for custom notifications", ErrValidation)
	}
	if strings.TrimSpace(v.EventName) == "" {
		return fmt.Errorf("%w: event name is required", ErrValidation)
	}
	return nil
}

// RenderedContent is a provider-ready message.
type RenderedContent struct {
	Subject    string
	Body       string
	Recipients []string
}
