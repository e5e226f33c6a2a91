package service

import (
	"context"
	"sync"
	"testing"

	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/integration"
	"github.com/kursadbilgin/partnership-gateway/internal/queue"
	"github.com/kursadbilgin/partnership-gateway/internal/repository"
	"github.com/kursadbilgin/partnership-gateway/internal/repository/repositorytest"
	"go.uber.org/zap"
)

type testEnv struct {
	repo         *repository.GormIntegrationRepo
	integrations *IntegrationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := repository.NewGormIntegrationRepo(repositorytest.NewDB(t), nil)
	svc, err := NewIntegrationService(integration.Registrars(repo), integration.NewDeserializer(), repo, zap.NewNop())
	if err != nil {
		t.Fatalf("NewIntegrationService() error = %v", err)
	}
	return &testEnv{repo: repo, integrations: svc}
}

func (e *testEnv) register(t *testing.T, eventID string, usage domain.Usage, input domain.CreateIntegration) string {
	t.Helper()

	id, err := e.integrations.Register(context.Background(), eventID, usage, input)
	if err != nil {
		t.Fatalf("Register(%s, %s) error = %v", input.Kind(), usage, err)
	}
	return id
}

var validInputs = map[domain.Provider]domain.CreateIntegration{
	domain.ProviderSlack:       domain.CreateSlackIntegration{Token: "xoxb-test", Channel: "#test"},
	domain.ProviderMailjet:     domain.CreateMailjetIntegration{APIKey: "k", Secret: "s", FromEmail: "crew@devfest.test", FromName: "DevFest"},
	domain.ProviderWebhook:     domain.CreateWebhookIntegration{URL: "https://hooks.test/a", Secret: "0123456789abcdef"},
	domain.ProviderQonto:       domain.CreateQontoIntegration{APIKey: "org", Secret: "s"},
	domain.ProviderBilletweb:   domain.CreateBilletwebIntegration{Basic: "b", EventID: "bw-1", RateID: "r-1"},
	domain.ProviderOpenPlanner: domain.CreateOpenPlannerIntegration{EventID: "op-1", APIKey: "k"},
}

// calls records gateway invocations safely across fan-out goroutines.
type calls struct {
	mu  sync.Mutex
	ids []string
}

func (c *calls) add(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = append(c.ids, id)
}

func (c *calls) list() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.ids...)
}

type fakeNotifier struct {
	provider domain.Provider
	sendFn   func(ctx context.Context, integrationID string, content domain.RenderedContent) error
}

func (f *fakeNotifier) Provider() domain.Provider { return f.provider }

func (f *fakeNotifier) Send(ctx context.Context, integrationID string, content domain.RenderedContent) error {
	if f.sendFn != nil {
		return f.sendFn(ctx, integrationID, content)
	}
	return nil
}

type fakeRenderer struct {
	provider domain.Provider
	renderFn func(ctx context.Context, vars domain.NotificationVariables) (domain.RenderedContent, error)
}

func (f *fakeRenderer) Provider() domain.Provider { return f.provider }

func (f *fakeRenderer) Render(ctx context.Context, vars domain.NotificationVariables) (domain.RenderedContent, error) {
	if f.renderFn != nil {
		return f.renderFn(ctx, vars)
	}
	return domain.RenderedContent{Subject: vars.EventName, Body: vars.Message, Recipients: vars.Recipients}, nil
}

type fakeBilling struct {
	provider        domain.Provider
	createInvoiceFn func(ctx context.Context, integrationID, eventID, partnershipID string) (string, error)
	createQuoteFn   func(ctx context.Context, integrationID, eventID, partnershipID string) (string, error)
}

func (f *fakeBilling) Provider() domain.Provider { return f.provider }

func (f *fakeBilling) CreateInvoice(ctx context.Context, integrationID, eventID, partnershipID string) (string, error) {
	if f.createInvoiceFn != nil {
		return f.createInvoiceFn(ctx, integrationID, eventID, partnershipID)
	}
	return "https://billing.test/invoice", nil
}

func (f *fakeBilling) CreateQuote(ctx context.Context, integrationID, eventID, partnershipID string) (string, error) {
	if f.createQuoteFn != nil {
		return f.createQuoteFn(ctx, integrationID, eventID, partnershipID)
	}
	return "https://billing.test/quote", nil
}

type fakeTicketing struct {
	provider        domain.Provider
	createTicketsFn func(ctx context.Context, integrationID, eventID, partnershipID string, tickets []domain.TicketData) (*domain.TicketOrder, error)
	updateTicketFn  func(ctx context.Context, integrationID, ticketID string, data domain.TicketData) (*domain.Ticket, error)
}

func (f *fakeTicketing) Provider() domain.Provider { return f.provider }

func (f *fakeTicketing) CreateTickets(ctx context.Context, integrationID, eventID, partnershipID string, tickets []domain.TicketData) (*domain.TicketOrder, error) {
	if f.createTicketsFn != nil {
		return f.createTicketsFn(ctx, integrationID, eventID, partnershipID, tickets)
	}
	return &domain.TicketOrder{ExternalOrderID: "order-1"}, nil
}

func (f *fakeTicketing) UpdateTicket(ctx context.Context, integrationID, ticketID string, data domain.TicketData) (*domain.Ticket, error) {
	if f.updateTicketFn != nil {
		return f.updateTicketFn(ctx, integrationID, ticketID, data)
	}
	return &domain.Ticket{ExternalID: ticketID, FirstName: data.FirstName, LastName: data.LastName}, nil
}

type fakeAgendaGateway struct {
	provider        domain.Provider
	fetchAndStoreFn func(ctx context.Context, integrationID, eventID string) (domain.AgendaSyncResult, error)
}

func (f *fakeAgendaGateway) Provider() domain.Provider { return f.provider }

func (f *fakeAgendaGateway) FetchAndStore(ctx context.Context, integrationID, eventID string) (domain.AgendaSyncResult, error) {
	if f.fetchAndStoreFn != nil {
		return f.fetchAndStoreFn(ctx, integrationID, eventID)
	}
	return domain.AgendaSyncResult{}, nil
}

type fakeWebhookGateway struct {
	provider  domain.Provider
	deliverFn func(ctx context.Context, integrationID string, event domain.WebhookEvent) error
}

func (f *fakeWebhookGateway) Provider() domain.Provider { return f.provider }

func (f *fakeWebhookGateway) Deliver(ctx context.Context, integrationID string, event domain.WebhookEvent) error {
	if f.deliverFn != nil {
		return f.deliverFn(ctx, integrationID, event)
	}
	return nil
}

type fakeStatusGateway struct {
	provider domain.Provider
	statusFn func(ctx context.Context, integrationID string) (bool, error)
}

func (f *fakeStatusGateway) Provider() domain.Provider { return f.provider }

func (f *fakeStatusGateway) Status(ctx context.Context, integrationID string) (bool, error) {
	if f.statusFn != nil {
		return f.statusFn(ctx, integrationID)
	}
	return true, nil
}

type fakeRateLimiter struct {
	allowFn func(ctx context.Context, provider domain.Provider) (bool, error)
	waitFn  func(ctx context.Context, provider domain.Provider) error
}

func (f *fakeRateLimiter) Allow(ctx context.Context, provider domain.Provider) (bool, error) {
	if f.allowFn != nil {
		return f.allowFn(ctx, provider)
	}
	return true, nil
}

func (f *fakeRateLimiter) Wait(ctx context.Context, provider domain.Provider) error {
	if f.waitFn != nil {
		return f.waitFn(ctx, provider)
	}
	return nil
}

type fakePublisher struct {
	publishFn func(ctx context.Context, queueName string, msg queue.AgendaSyncMessage) error
}

func (f *fakePublisher) Publish(ctx context.Context, queueName string, msg queue.AgendaSyncMessage) error {
	if f.publishFn != nil {
		return f.publishFn(ctx, queueName, msg)
	}
	return nil
}

func (f *fakePublisher) Close() error {
	return nil
}

type fakeConsumer struct {
	consumeFn func(ctx context.Context, queueName string, handler queue.MessageHandler) error
}

func (f *fakeConsumer) Consume(ctx context.Context, queueName string, handler queue.MessageHandler) error {
	if f.consumeFn != nil {
		return f.consumeFn(ctx, queueName, handler)
	}
	<-ctx.Done()
	return nil
}

func (f *fakeConsumer) Close() error {
	return nil
}

type fakeAgendaSyncer struct {
	fetchAndStoreFn func(ctx context.Context, eventID string) (domain.AgendaSyncResult, error)
}

func (f *fakeAgendaSyncer) FetchAndStore(ctx context.Context, eventID string) (domain.AgendaSyncResult, error) {
	if f.fetchAndStoreFn != nil {
		return f.fetchAndStoreFn(ctx, eventID)
	}
	return domain.AgendaSyncResult{}, nil
}
