package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/gateway"
	"go.uber.org/zap"
)

func TestWebhookDeliverFiltersBySubscribedEvents(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	allID := env.register(t, "event-1", domain.UsageWebhook, domain.CreateWebhookIntegration{URL: "https://hooks.test/all"})
	validatedID := env.register(t, "event-1", domain.UsageWebhook, domain.CreateWebhookIntegration{
		URL:    "https://hooks.test/validated",
		Events: []string{"partnership.validated"},
	})
	env.register(t, "event-1", domain.UsageWebhook, domain.CreateWebhookIntegration{
		URL:    "https://hooks.test/declined",
		Events: []string{"partnership.declined"},
	})

	var delivered calls
	svc, err := NewWebhookService(env.repo, []gateway.WebhookGateway{
		&fakeWebhookGateway{
			provider: domain.ProviderWebhook,
			deliverFn: func(_ context.Context, integrationID string, _ domain.WebhookEvent) error {
				delivered.add(integrationID)
				return nil
			},
		},
	}, nil, 2, zap.NewNop())
	if err != nil {
		t.Fatalf("NewWebhookService() error = %v", err)
	}

	result, err := svc.Deliver(context.Background(), "event-1", domain.WebhookEvent{
		Type:          "partnership.validated",
		PartnershipID: "partnership-1",
	})
	if err != nil {
		t.Fatalf("Deliver() unexpected error: %v", err)
	}
	if result.Status != domain.DeliveryStatusSent {
		t.Fatalf("Status = %s, want SENT", result.Status)
	}
	if len(result.Recipients) != 2 {
		t.Fatalf("Recipients = %+v, want 2", result.Recipients)
	}

	got := map[string]bool{}
	for _, id := range delivered.list() {
		got[id] = true
	}
	if len(got) != 2 || !got[allID] || !got[validatedID] {
		t.Fatalf("delivered = %v, want %s and %s", delivered.list(), allID, validatedID)
	}
}

func TestWebhookDeliverStampsEvent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.register(t, "event-1", domain.UsageWebhook, validInputs[domain.ProviderWebhook])

	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	var got domain.WebhookEvent
	svc, err := NewWebhookService(env.repo, []gateway.WebhookGateway{
		&fakeWebhookGateway{
			provider: domain.ProviderWebhook,
			deliverFn: func(_ context.Context, _ string, event domain.WebhookEvent) error {
				got = event
				return nil
			},
		},
	}, nil, 1, zap.NewNop())
	if err != nil {
		t.Fatalf("NewWebhookService() error = %v", err)
	}
	svc.now = func() time.Time { return now }

	_, err = svc.Deliver(context.Background(), "event-1", domain.WebhookEvent{
		Type:          "partnership.created",
		EventID:       "spoofed",
		PartnershipID: "partnership-1",
	})
	if err != nil {
		t.Fatalf("Deliver() unexpected error: %v", err)
	}
	if got.EventID != "event-1" {
		t.Fatalf("EventID = %q, want event-1", got.EventID)
	}
	if !got.OccurredAt.Equal(now) {
		t.Fatalf("OccurredAt = %v, want %v", got.OccurredAt, now)
	}
}

func TestWebhookDeliverPartialFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	okID := env.register(t, "event-1", domain.UsageWebhook, domain.CreateWebhookIntegration{URL: "https://hooks.test/ok"})
	env.register(t, "event-1", domain.UsageWebhook, domain.CreateWebhookIntegration{URL: "https://hooks.test/down"})

	svc, err := NewWebhookService(env.repo, []gateway.WebhookGateway{
		&fakeWebhookGateway{
			provider: domain.ProviderWebhook,
			deliverFn: func(_ context.Context, integrationID string, _ domain.WebhookEvent) error {
				if integrationID == okID {
					return nil
				}
				return &gateway.ProviderError{Provider: domain.ProviderWebhook, StatusCode: 503, Transient: true}
			},
		},
	}, nil, 2, zap.NewNop())
	if err != nil {
		t.Fatalf("NewWebhookService() error = %v", err)
	}

	result, err := svc.Deliver(context.Background(), "event-1", domain.WebhookEvent{Type: "partnership.created", PartnershipID: "p-1"})
	if err != nil {
		t.Fatalf("Deliver() unexpected error: %v", err)
	}
	if result.Status != domain.DeliveryStatusPartial {
		t.Fatalf("Status = %s, want PARTIAL", result.Status)
	}
}

func TestWebhookDeliverNoRecipientsWhenAllFiltered(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.register(t, "event-1", domain.UsageWebhook, domain.CreateWebhookIntegration{
		URL:    "https://hooks.test/declined",
		Events: []string{"partnership.declined"},
	})

	svc, err := NewWebhookService(env.repo, []gateway.WebhookGateway{&fakeWebhookGateway{provider: domain.ProviderWebhook}}, nil, 1, zap.NewNop())
	if err != nil {
		t.Fatalf("NewWebhookService() error = %v", err)
	}

	result, err := svc.Deliver(context.Background(), "event-1", domain.WebhookEvent{Type: "partnership.created", PartnershipID: "p-1"})
	if err != nil {
		t.Fatalf("Deliver() unexpected error: %v", err)
	}
	if result.Status != domain.DeliveryStatusNoRecipients {
		t.Fatalf("Status = %s, want NO_RECIPIENTS", result.Status)
	}
}

func TestWebhookDeliverValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc, err := NewWebhookService(env.repo, nil, nil, 1, zap.NewNop())
	if err != nil {
		t.Fatalf("NewWebhookService() error = %v", err)
	}

	testCases := []struct {
		name    string
		eventID string
		event   domain.WebhookEvent
	}{
		{name: "missing event id", event: domain.WebhookEvent{Type: "partnership.created", PartnershipID: "p-1"}},
		{name: "missing type", eventID: "event-1", event: domain.WebhookEvent{PartnershipID: "p-1"}},
		{name: "missing partnership", eventID: "event-1", event: domain.WebhookEvent{Type: "partnership.created"}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Deliver(context.Background(), tc.eventID, tc.event)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("Deliver() error = %v, want ErrValidation", err)
			}
		})
	}
}
