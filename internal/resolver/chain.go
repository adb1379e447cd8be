package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Chain tries sources in order and returns the first definitive answer.
// A source failure is remembered but later sources still get a chance; if
// the chain ends with no answer and at least one failure, the failure is
// surfaced so callers fail closed. A chain where every source cleanly
// defers resolves to NotFound.
type Chain struct {
	sources []Source
}

// NewChain builds a resolution chain. Order matters: put cheap sources first.
func NewChain(sources ...Source) *Chain {
	return &Chain{sources: sources}
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) Resolve(ctx context.Context, slug string) (Result, error) {
	var failure error
	for _, src := range c.sources {
		res, err := src.Resolve(ctx, slug)
		if err == nil {
			return res, nil
		}
		if errors.Is(err, ErrDefer) {
			continue
		}
		slog.Warn("resolution source failed", "source", src.Name(), "slug", slug, "error", err)
		failure = err
	}

	if failure != nil {
		return Result{Outcome: OutcomeError}, fmt.Errorf("all sources exhausted: %w", failure)
	}
	return Result{Outcome: OutcomeNotFound}, nil
}

var _ Source = (*Chain)(nil)
