package domain

import (
	"fmt"
	"strings"
)

// Provider identifies a third-party service.
type Provider string

const (
	ProviderSlack       Provider = "SLACK"
	ProviderMailjet     Provider = "MAILJET"
	ProviderWebhook     Provider = "WEBHOOK"
	ProviderQonto       Provider = "QONTO"
	ProviderBilletweb   Provider = "BILLETWEB"
	ProviderOpenPlanner Provider = "OPENPLANNER"
)

// Providers lists every compiled-in provider in a stable order.
func Providers() []Provider {
	return []Provider{
		ProviderSlack,
		ProviderMailjet,
		ProviderWebhook,
		ProviderQonto,
		ProviderBilletweb,
		ProviderOpenPlanner,
	}
}

func (p Provider) String() string { return string(p) }

func (p Provider) IsValid() bool {
	switch p {
	case ProviderSlack, ProviderMailjet, ProviderWebhook, ProviderQonto, ProviderBilletweb, ProviderOpenPlanner:
		return true
	}
	return false
}

func ParseProviderFromString(s string) (Provider, error) {
	p := Provider(strings.ToUpper(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
	}
	return p, nil
}

// Usage identifies the business capability an integration serves.
type Usage string

const (
	UsageNotification Usage = "NOTIFICATION"
	UsageBilling      Usage = "BILLING"
	UsageTicketing    Usage = "TICKETING"
	UsageWebhook      Usage = "WEBHOOK"
	UsageAgenda       Usage = "AGENDA"
)

// Usages lists every usage in a stable order.
func Usages() []Usage {
	return []Usage{UsageNotification, UsageBilling, UsageTicketing, UsageWebhook, UsageAgenda}
}

func (u Usage) String() string { return string(u) }

func (u Usage) IsValid() bool {
	switch u {
	case UsageNotification, UsageBilling, UsageTicketing, UsageWebhook, UsageAgenda:
		return true
	}
	return false
}

// IsSingleTarget reports whether at most one integration of this usage may
// exist per event at dispatch time.
func (u Usage) IsSingleTarget() bool {
	switch u {
	case UsageBilling, UsageTicketing, UsageAgenda:
		return true
	}
	return false
}

func ParseUsageFromString(s string) (Usage, error) {
	u := Usage(strings.ToUpper(strings.TrimSpace(s)))
	if !u.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownUsage, s)
	}
	return u, nil
}
