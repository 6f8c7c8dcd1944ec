package validator

import (
	"context"
	"fmt"

	"svw.info/blockpuzzle/internal/domain"
)

// FastValidator checks search inputs before they reach the engine.
type FastValidator struct {
	Rules domain.Rules
}

func New(r domain.Rules) *FastValidator { return &FastValidator{Rules: r} }

// Validate rejects boards of the wrong size, negative counters, empty or
// repeated pieces, and piece sets that are empty.
func (v *FastValidator) Validate(ctx context.Context, b *domain.Board, pieces []*domain.Piece) error {
	if b == nil {
		return fmt.Errorf("%w: missing board", domain.ErrBadGrid)
	}
	if b.Size() != v.Rules.Size {
		return fmt.Errorf("%w: board is %d wide, want %d", domain.ErrBadGrid, b.Size(), v.Rules.Size)
	}
	if b.Combo() < 0 || b.MovesSinceLastClear() < 0 {
		return domain.ErrNegativeCounter
	}
	if len(pieces) == 0 {
		return domain.ErrNoPieces
	}
	seen := make(map[*domain.Piece]int, len(pieces))
	for i, p := range pieces {
		if p == nil || p.Size() == 0 {
			return fmt.Errorf("piece %d: %w", i, domain.ErrEmptyPiece)
		}
		if j, dup := seen[p]; dup {
			return fmt.Errorf("pieces %d and %d: %w", j, i, domain.ErrDuplicatePiece)
		}
		seen[p] = i
	}
	return nil
}
