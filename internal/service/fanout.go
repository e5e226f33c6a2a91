package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/observability"
	"github.com/kursadbilgin/partnership-gateway/internal/ratelimit"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultFanoutConcurrency = 8

// fanOut runs one independent attempt per integration and aggregates the
// outcomes. Attempts never cancel each other; a cancelled ctx stops attempts
// that have not started and keeps the results already obtained.
type fanOut struct {
	usage       domain.Usage
	concurrency int
	rateLimiter ratelimit.RateLimiter
	logger      *zap.Logger
	metrics     *observability.Metrics
}

func newFanOut(usage domain.Usage, concurrency int, rateLimiter ratelimit.RateLimiter, logger *zap.Logger) *fanOut {
	if concurrency < 1 {
		concurrency = defaultFanoutConcurrency
	}
	if rateLimiter == nil {
		rateLimiter = ratelimit.Unlimited{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &fanOut{
		usage:       usage,
		concurrency: concurrency,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

type sendFunc func(ctx context.Context, target domain.Integration) error

func (f *fanOut) run(ctx context.Context, targets []domain.Integration, send sendFunc) domain.DeliveryResult {
	results := make([]domain.RecipientResult, len(targets))

	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for i := range targets {
		g.Go(func() error {
			results[i] = f.attempt(ctx, targets[i], send)
			return nil
		})
	}
	_ = g.Wait()

	delivery := domain.NewDeliveryResult(results)
	f.metrics.IncFanoutDelivery(f.usage.String(), delivery.Status.String())

	sent, failed := delivery.Counts()
	observability.WithContextLogger(f.logger, ctx).Info("fan-out completed",
		zap.String("usage", f.usage.String()),
		zap.String("status", delivery.Status.String()),
		zap.Int("sent", sent),
		zap.Int("failed", failed),
	)
	return delivery
}

func (f *fanOut) attempt(ctx context.Context, target domain.Integration, send sendFunc) (result domain.RecipientResult) {
	result = domain.RecipientResult{
		Recipient: target.ID,
		Provider:  target.Provider,
		Status:    domain.RecipientStatusSent,
	}

	start := time.Now()
	var err error
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("gateway panicked: %v", recovered)
		}
		f.metrics.ObserveGatewayCall(f.usage.String(), target.Provider.String(), err, time.Since(start))
		if err != nil {
			result.Status = domain.RecipientStatusFailed
			result.Error = err.Error()
			observability.WithContextLogger(f.logger, ctx).Warn("fan-out recipient failed",
				zap.String("usage", f.usage.String()),
				zap.String("integrationId", target.ID),
				zap.String("provider", target.Provider.String()),
				zap.Error(err),
			)
		}
	}()

	if err = ctx.Err(); err != nil {
		return result
	}
	if err = f.rateLimiter.Wait(ctx, target.Provider); err != nil {
		err = fmt.Errorf("rate limiter wait failed: %w", err)
		return result
	}
	err = send(ctx, target)
	return result
}
