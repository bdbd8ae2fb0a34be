package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/timmy/artvault/internal/prompts"
)

// Generator issues one prompt to one model backend.
type Generator interface {
	Generate(ctx context.Context, prompt *prompts.Prompt) (string, error)
}

// ModelTier is a ranked binding of an inference capability to a
// human-readable model identifier. Tiers are built once at startup and
// shared read-only across concurrent requests.
type ModelTier struct {
	Rank      int // 1=primary, 2=secondary, 3=tertiary
	Model     string
	Generator Generator
}

// NewTierChain validates and rank-orders a tier list.
func NewTierChain(tiers ...ModelTier) ([]ModelTier, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("at least one model tier is required")
	}
	for _, t := range tiers {
		if t.Generator == nil {
			return nil, fmt.Errorf("tier %d (%s) has no generator", t.Rank, t.Model)
		}
	}
	out := make([]ModelTier, len(tiers))
	copy(out, tiers)
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}

// RetryPolicy bounds the local retry applied to a single tier before the
// cascade escalates to the next one.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
}

// DefaultRetryPolicy matches the production configuration: 3 attempts,
// exponential backoff starting at 2s with multiplier 2.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		Multiplier:  2,
	}
}

// Delay returns the backoff before the given retry attempt (attempt 2 waits
// BaseDelay, attempt 3 waits BaseDelay*Multiplier, ...).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	mult := p.Multiplier
	if mult <= 0 {
		mult = 1
	}
	return time.Duration(float64(p.BaseDelay) * math.Pow(mult, float64(attempt-2)))
}

// sleep waits for d or until the context is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
