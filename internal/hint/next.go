package hint

import (
	"context"
	"fmt"

	"svw.info/blockpuzzle/internal/domain"
	"svw.info/blockpuzzle/internal/ports"
)

// NextPlacement suggests the first move of the best sequence for a batch.
type NextPlacement struct {
	Searcher ports.Searcher
}

func NewNextPlacement(s ports.Searcher) *NextPlacement { return &NextPlacement{Searcher: s} }

// Hint returns the cells to highlight for the first placement, using the
// board's own combo as the starting combo.
func (h *NextPlacement) Hint(ctx context.Context, b *domain.Board, pieces []*domain.Piece) (domain.Hint, bool, error) {
	m, found, _, err := h.Searcher.BestSequence(ctx, b, pieces, b.Combo())
	if err != nil || !found {
		return domain.Hint{}, false, err
	}
	return FromMove(m), true, nil
}

// FromMove describes a single chain node as a hint.
func FromMove(m *domain.Move) domain.Hint {
	return domain.Hint{
		Message: fmt.Sprintf("Place %s at row %d, col %d", m.Piece, m.X, m.Y),
		Cells:   m.Cells(),
		X:       m.X,
		Y:       m.Y,
		Piece:   m.Piece,
	}
}
