// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm abstracts generative model providers behind a small text
// interface. Implements: prd005-synthesis (R4);
//
//	docs/ARCHITECTURE § Generation.
package llm

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Generator produces text for a prompt. Implementations wrap a single
// provider; tests supply a mock. Per Strategy pattern.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (Result, error)
}

// Result is one generation with provider-reported token usage when
// available. TokensUsed falls back to an estimate when the provider
// omits usage data.
type Result struct {
	Text       string
	TokensUsed int
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// GenerateWithRetry calls the generator with exponential backoff between
// attempts. A request that keeps failing returns the last error; callers
// degrade to their deterministic path rather than aborting the run.
func GenerateWithRetry(ctx context.Context, g Generator, prompt string, maxRetries int) (Result, error) {
	if maxRetries < 0 {
		maxRetries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return Result{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, err := g.Generate(ctx, prompt)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return Result{}, fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// EstimateTokens approximates token usage from text length. Four
// characters per token is close enough for budget accounting.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}
