package repository_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/repository"
	"github.com/kursadbilgin/partnership-gateway/internal/repository/repositorytest"
	"github.com/kursadbilgin/partnership-gateway/internal/secret"
)

func newIntegration(eventID string, provider domain.Provider, usage domain.Usage, createdAt time.Time) *domain.Integration {
	return &domain.Integration{
		ID:        uuid.NewString(),
		EventID:   eventID,
		Provider:  provider,
		Usage:     usage,
		CreatedAt: createdAt,
	}
}

func TestGormIntegrationRepoCreateAndGet(t *testing.T) {
	t.Parallel()

	repo := repository.NewGormIntegrationRepo(repositorytest.NewDB(t), nil)
	ctx := context.Background()

	integration := newIntegration("event-1", domain.ProviderSlack, domain.UsageNotification, time.Now().UTC())
	if err := repo.Create(ctx, integration); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(ctx, integration.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.EventID != "event-1" || got.Provider != domain.ProviderSlack || got.Usage != domain.UsageNotification {
		t.Fatalf("GetByID() = %+v", got)
	}

	_, err = repo.GetByID(ctx, uuid.NewString())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestGormIntegrationRepoListByEventAndUsageOrdersByCreation(t *testing.T) {
	t.Parallel()

	repo := repository.NewGormIntegrationRepo(repositorytest.NewDB(t), nil)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	second := newIntegration("event-1", domain.ProviderMailjet, domain.UsageNotification, base.Add(time.Minute))
	first := newIntegration("event-1", domain.ProviderSlack, domain.UsageNotification, base)
	billing := newIntegration("event-1", domain.ProviderQonto, domain.UsageBilling, base)
	otherEvent := newIntegration("event-2", domain.ProviderSlack, domain.UsageNotification, base)

	for _, i := range []*domain.Integration{second, first, billing, otherEvent} {
		if err := repo.Create(ctx, i); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, err := repo.ListByEventAndUsage(ctx, "event-1", domain.UsageNotification)
	if err != nil {
		t.Fatalf("ListByEventAndUsage() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Fatalf("order = [%s %s], want [%s %s]", got[0].ID, got[1].ID, first.ID, second.ID)
	}

	all, err := repo.ListByEvent(ctx, "event-1")
	if err != nil {
		t.Fatalf("ListByEvent() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListByEvent() len = %d, want 3", len(all))
	}

	events, err := repo.ListEventIDsByUsage(ctx, domain.UsageNotification)
	if err != nil {
		t.Fatalf("ListEventIDsByUsage() error = %v", err)
	}
	if len(events) != 2 || events[0] != "event-1" || events[1] != "event-2" {
		t.Fatalf("ListEventIDsByUsage() = %v, want [event-1 event-2]", events)
	}
}

func TestGormIntegrationRepoConfigRoundTrip(t *testing.T) {
	t.Parallel()

	repo := repository.NewGormIntegrationRepo(repositorytest.NewDB(t), nil)
	ctx := context.Background()

	configs := []domain.ProviderConfig{
		domain.SlackConfig{Token: "xoxb-test", Channel: "#test"},
		domain.MailjetConfig{APIKey: "key", Secret: "secret", FromEmail: "team@example.com", FromName: "Team"},
		domain.WebhookConfig{URL: "https://hooks.example.com", Secret: "0123456789abcdef", Events: []string{"partnership.created"}},
		domain.QontoConfig{APIKey: "key", Secret: "secret", SandboxToken: "sandbox"},
		domain.BilletwebConfig{Basic: "basic", EventID: "bw-event", RateID: "bw-rate"},
		domain.OpenPlannerConfig{EventID: "op-event", APIKey: "op-key"},
	}

	for _, cfg := range configs {
		cfg := cfg
		t.Run(cfg.Provider().String(), func(t *testing.T) {
			id := uuid.NewString()
			if err := repo.SaveConfig(ctx, id, cfg); err != nil {
				t.Fatalf("SaveConfig() error = %v", err)
			}

			got, err := repo.GetConfig(ctx, id, cfg.Provider())
			if err != nil {
				t.Fatalf("GetConfig() error = %v", err)
			}
			if got.Provider() != cfg.Provider() {
				t.Fatalf("provider = %s, want %s", got.Provider(), cfg.Provider())
			}

			if err := repo.DeleteConfig(ctx, id, cfg.Provider()); err != nil {
				t.Fatalf("DeleteConfig() error = %v", err)
			}
			if _, err := repo.GetConfig(ctx, id, cfg.Provider()); !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("GetConfig() after delete error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestLoadConfigTyped(t *testing.T) {
	t.Parallel()

	repo := repository.NewGormIntegrationRepo(repositorytest.NewDB(t), nil)
	ctx := context.Background()

	id := uuid.NewString()
	want := domain.WebhookConfig{URL: "https://hooks.example.com", Events: []string{"a", "b"}}
	if err := repo.SaveConfig(ctx, id, want); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	got, err := repository.LoadConfig[domain.WebhookConfig](ctx, repo, id)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if got.URL != want.URL || len(got.Events) != 2 || got.Events[1] != "b" {
		t.Fatalf("LoadConfig() = %+v, want %+v", got, want)
	}

	_, err = repository.LoadConfig[domain.SlackConfig](ctx, repo, id)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("LoadConfig[SlackConfig]() error = %v, want ErrNotFound", err)
	}
}

func TestGormIntegrationRepoSealsCredentials(t *testing.T) {
	t.Parallel()

	db := repositorytest.NewDB(t)
	box, err := secret.New(bytes.Repeat([]byte{1}, 32))
	if err != nil {
		t.Fatalf("secret.New() error = %v", err)
	}
	repo := repository.NewGormIntegrationRepo(db, box)
	ctx := context.Background()

	id := uuid.NewString()
	if err := repo.SaveConfig(ctx, id, domain.SlackConfig{Token: "xoxb-secret", Channel: "#general"}); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	var row repository.SlackIntegrationModel
	if err := db.First(&row, "integration_id = ?", id).Error; err != nil {
		t.Fatalf("raw read error = %v", err)
	}
	if strings.Contains(row.Token, "xoxb-secret") {
		t.Fatalf("token stored in plaintext: %q", row.Token)
	}
	if row.Channel != "#general" {
		t.Fatalf("channel = %q, want #general", row.Channel)
	}

	cfg, err := repository.LoadConfig[domain.SlackConfig](ctx, repo, id)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Token != "xoxb-secret" {
		t.Fatalf("token = %q, want xoxb-secret", cfg.Token)
	}

	plainRepo := repository.NewGormIntegrationRepo(db, nil)
	if _, err := plainRepo.GetConfig(ctx, id, domain.ProviderSlack); !errors.Is(err, domain.ErrProviderConfigMalformed) {
		t.Fatalf("GetConfig() without key error = %v, want ErrProviderConfigMalformed", err)
	}
}

func TestGormIntegrationRepoWithTransactionRollsBack(t *testing.T) {
	t.Parallel()

	repo := repository.NewGormIntegrationRepo(repositorytest.NewDB(t), nil)
	ctx := context.Background()

	integration := newIntegration("event-1", domain.ProviderQonto, domain.UsageBilling, time.Now().UTC())
	boom := errors.New("boom")

	err := repo.WithTransaction(ctx, func(tx repository.IntegrationRepository) error {
		if err := tx.Create(ctx, integration); err != nil {
			return err
		}
		if err := tx.SaveConfig(ctx, integration.ID, domain.QontoConfig{APIKey: "k", Secret: "s"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTransaction() error = %v, want boom", err)
	}

	if _, err := repo.GetByID(ctx, integration.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("integration should be rolled back, GetByID() error = %v", err)
	}
	if _, err := repo.GetConfig(ctx, integration.ID, domain.ProviderQonto); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("config should be rolled back, GetConfig() error = %v", err)
	}
}

func TestGormIntegrationRepoDelete(t *testing.T) {
	t.Parallel()

	repo := repository.NewGormIntegrationRepo(repositorytest.NewDB(t), nil)
	ctx := context.Background()

	integration := newIntegration("event-1", domain.ProviderSlack, domain.UsageNotification, time.Now().UTC())
	if err := repo.Create(ctx, integration); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(ctx, integration.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, integration.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second Delete() error = %v, want ErrNotFound", err)
	}
}
