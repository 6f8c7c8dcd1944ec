package solver

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrBudgetExceeded is returned when a search tries more than MaxNodes placements.
var ErrBudgetExceeded = errors.New("search node budget exceeded")

// ctx is polled once per this many placements
const ctxCheckEvery = 1 << 10

type search struct {
	opts          Options
	originalCombo int
	nodes         atomic.Int64
}

func (s *search) visit(ctx context.Context) error {
	n := s.nodes.Add(1)
	if s.opts.MaxNodes > 0 && n > int64(s.opts.MaxNodes) {
		return ErrBudgetExceeded
	}
	if n%ctxCheckEvery == 0 {
		return ctx.Err()
	}
	return nil
}
