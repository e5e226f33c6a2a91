package ratelimit

import (
	"context"

	"github.com/kursadbilgin/partnership-gateway/internal/domain"
)

// RateLimiter bounds outbound calls per provider, shared across instances.
type RateLimiter interface {
	Allow(ctx context.Context, provider domain.Provider) (bool, error)
	Wait(ctx context.Context, provider domain.Provider) error
}

// Unlimited never throttles.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, domain.Provider) (bool, error) { return true, nil }

func (Unlimited) Wait(ctx context.Context, _ domain.Provider) error { return ctx.Err() }
