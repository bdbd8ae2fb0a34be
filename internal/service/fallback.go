package service

import (
	"context"

	"github.com/timmy/artvault/internal/logger"
	"github.com/timmy/artvault/internal/prompts"
)

// FallbackChain runs a prompt down a ranked list of model tiers. Each tier
// gets a bounded local retry with exponential backoff; when a tier's attempts
// are spent the chain escalates to the next tier. The first successful text
// wins. The chain holds no mutable state and is safe for concurrent use.
type FallbackChain struct {
	tiers  []ModelTier
	policy RetryPolicy
}

// NewFallbackChain builds a cascade over the given tiers.
func NewFallbackChain(policy RetryPolicy, tiers ...ModelTier) (*FallbackChain, error) {
	chain, err := NewTierChain(tiers...)
	if err != nil {
		return nil, err
	}
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &FallbackChain{tiers: chain, policy: policy}, nil
}

// Execute runs the prompt through the cascade and returns the first
// successful generation.
//
// Per tier, up to MaxAttempts calls are made, with Delay(attempt) backoff
// before each retry. Non-retryable failures (bad input, cancelled context)
// abort the whole cascade immediately rather than burning the remaining
// attempts and tiers. When every tier is exhausted the returned
// AllTiersExhaustedError carries the last tier's cause.
func (c *FallbackChain) Execute(ctx context.Context, prompt *prompts.Prompt) (string, error) {
	log := logger.FromContext(ctx)

	var lastErr *InferenceError
	for _, tier := range c.tiers {
		tierLog := log.WithFields(logger.Fields{
			logger.FieldTier:  tier.Rank,
			logger.FieldModel: tier.Model,
		})

		var attemptErr error
		for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
			if err := sleep(ctx, c.policy.Delay(attempt)); err != nil {
				return "", &InferenceError{Tier: tier.Rank, Model: tier.Model, Err: err}
			}

			text, err := tier.Generator.Generate(ctx, prompt)
			if err == nil {
				tierLog.WithField(logger.FieldAttempt, attempt).Debug("inference succeeded")
				return text, nil
			}

			attemptErr = err
			tierLog.WithField(logger.FieldAttempt, attempt).WithError(err).Warn("inference attempt failed")

			if ctx.Err() != nil {
				return "", &InferenceError{Tier: tier.Rank, Model: tier.Model, Err: ctx.Err()}
			}
			if IsNonRetryable(err) {
				tierLog.WithError(err).Error("non-retryable inference failure, aborting cascade")
				return "", &InferenceError{Tier: tier.Rank, Model: tier.Model, Err: err}
			}
		}

		lastErr = &InferenceError{Tier: tier.Rank, Model: tier.Model, Err: attemptErr}
		tierLog.WithError(attemptErr).Warn("tier exhausted, escalating")
	}

	return "", &AllTiersExhaustedError{
		Tiers:     len(c.tiers),
		LastTier:  lastErr.Tier,
		LastModel: lastErr.Model,
		Err:       lastErr.Err,
	}
}
