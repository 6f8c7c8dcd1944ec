package solver

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"svw.info/blockpuzzle/internal/domain"
)

type rootCandidate struct {
	piece *domain.Piece
	rest  []*domain.Piece
	x, y  int
}

// fanOut searches each legal first placement on its own goroutine. Every
// branch works on its own clone, so nothing is shared but the node counter.
// Results are merged in the same (piece, row, col) order as best, which keeps
// scores and tie-breaks identical to the sequential search.
func (s *search) fanOut(ctx context.Context, b *domain.Board, pieces []*domain.Piece, workers int) (*domain.Move, error) {
	var roots []rootCandidate
	n := b.Size()
	for i, p := range pieces {
		rest := without(pieces, i)
		for x := 0; x < n; x++ {
			for y := 0; y < n; y++ {
				if b.CanPlace(p, x, y) {
					roots = append(roots, rootCandidate{piece: p, rest: rest, x: x, y: y})
				}
			}
		}
	}
	log.Debug().Int("roots", len(roots)).Int("workers", workers).Msg("search-fan-out")

	results := make([]*domain.Move, len(roots))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, rc := range roots {
		i, rc := i, rc
		g.Go(func() error {
			m, err := s.place(gctx, b, rc.piece, rc.x, rc.y, rc.rest)
			results[i] = m
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var best *domain.Move
	for _, m := range results {
		if m != nil && (best == nil || m.ProjectedScore > best.ProjectedScore) {
			best = m
		}
	}
	return best, nil
}
