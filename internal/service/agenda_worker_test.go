package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/gateway"
	"github.com/kursadbilgin/partnership-gateway/internal/observability"
	"github.com/kursadbilgin/partnership-gateway/internal/queue"
	"go.uber.org/zap"
)

func TestNewAgendaWorkerValidatesDependencies(t *testing.T) {
	t.Parallel()

	if _, err := NewAgendaWorker(nil, &fakeConsumer{}, 1, nil); err == nil {
		t.Fatal("expected error without agenda service")
	}
	if _, err := NewAgendaWorker(&fakeAgendaSyncer{}, nil, 1, nil); err == nil {
		t.Fatal("expected error without consumer")
	}

	worker, err := NewAgendaWorker(&fakeAgendaSyncer{}, &fakeConsumer{}, 0, nil)
	if err != nil {
		t.Fatalf("NewAgendaWorker() error = %v", err)
	}
	if worker.concurrency != minWorkerConcurrency {
		t.Fatalf("concurrency = %d, want %d", worker.concurrency, minWorkerConcurrency)
	}
}

func TestAgendaWorkerProcessMessage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		syncErr        error
		wantErr        bool
		wantDeadLetter bool
	}{
		{name: "success acks", syncErr: nil},
		{name: "integration removed acks", syncErr: domain.ErrNotConfigured},
		{name: "ambiguous dead-letters", syncErr: domain.ErrAmbiguousConfiguration, wantErr: true, wantDeadLetter: true},
		{name: "missing gateway dead-letters", syncErr: domain.ErrNoGatewayForProvider, wantErr: true, wantDeadLetter: true},
		{name: "malformed config dead-letters", syncErr: domain.ErrProviderConfigMalformed, wantErr: true, wantDeadLetter: true},
		{
			name:           "permanent provider error dead-letters",
			syncErr:        &gateway.ProviderError{Provider: domain.ProviderOpenPlanner, StatusCode: 401},
			wantErr:        true,
			wantDeadLetter: true,
		},
		{
			name:    "transient provider error requeues",
			syncErr: &gateway.ProviderError{Provider: domain.ProviderOpenPlanner, StatusCode: 503, Transient: true},
			wantErr: true,
		},
		{name: "store failure requeues", syncErr: errors.New("database is locked"), wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var gotEventID, gotCorrelationID string
			syncer := &fakeAgendaSyncer{fetchAndStoreFn: func(ctx context.Context, eventID string) (domain.AgendaSyncResult, error) {
				gotEventID = eventID
				gotCorrelationID, _ = observability.CorrelationIDFromContext(ctx)
				return domain.AgendaSyncResult{}, tc.syncErr
			}}

			worker, err := NewAgendaWorker(syncer, &fakeConsumer{}, 1, zap.NewNop())
			if err != nil {
				t.Fatalf("NewAgendaWorker() error = %v", err)
			}

			err = worker.processMessage(context.Background(), queue.AgendaSyncMessage{
				EventID:       "event-1",
				CorrelationID: "corr-1",
				RequestedAt:   time.Now().UTC(),
			})
			if (err != nil) != tc.wantErr {
				t.Fatalf("processMessage() error = %v, wantErr %v", err, tc.wantErr)
			}
			if got := errors.Is(err, queue.ErrDeadLetter); got != tc.wantDeadLetter {
				t.Fatalf("dead letter = %v, want %v (err=%v)", got, tc.wantDeadLetter, err)
			}
			if tc.syncErr != nil && err != nil && !errors.Is(err, tc.syncErr) {
				t.Fatalf("processMessage() error = %v, want it to wrap %v", err, tc.syncErr)
			}
			if gotEventID != "event-1" {
				t.Fatalf("eventID = %q, want event-1", gotEventID)
			}
			if gotCorrelationID != "corr-1" {
				t.Fatalf("correlation id = %q, want corr-1", gotCorrelationID)
			}
		})
	}
}

func TestAgendaWorkerStartConsumesUntilCancelled(t *testing.T) {
	t.Parallel()

	processed := make(chan string, 4)
	consumer := &fakeConsumer{consumeFn: func(ctx context.Context, queueName string, handler queue.MessageHandler) error {
		if queueName != queue.AgendaSyncQueue {
			t.Errorf("queue = %q, want %q", queueName, queue.AgendaSyncQueue)
		}
		if err := handler(ctx, queue.AgendaSyncMessage{EventID: "event-1"}); err != nil {
			return err
		}
		<-ctx.Done()
		return nil
	}}
	syncer := &fakeAgendaSyncer{fetchAndStoreFn: func(_ context.Context, eventID string) (domain.AgendaSyncResult, error) {
		processed <- eventID
		return domain.AgendaSyncResult{}, nil
	}}

	worker, err := NewAgendaWorker(syncer, consumer, 2, zap.NewNop())
	if err != nil {
		t.Fatalf("NewAgendaWorker() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Start(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case <-processed:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for worker to process message")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}

func TestAgendaWorkerStartReturnsConsumerError(t *testing.T) {
	t.Parallel()

	consumeErr := errors.New("channel closed")
	consumer := &fakeConsumer{consumeFn: func(context.Context, string, queue.MessageHandler) error {
		return consumeErr
	}}

	worker, err := NewAgendaWorker(&fakeAgendaSyncer{}, consumer, 1, zap.NewNop())
	if err != nil {
		t.Fatalf("NewAgendaWorker() error = %v", err)
	}

	if err := worker.Start(context.Background()); !errors.Is(err, consumeErr) {
		t.Fatalf("Start() error = %v, want %v", err, consumeErr)
	}
}
