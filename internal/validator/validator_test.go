package validator

import (
	"context"
	"errors"
	"testing"

	"svw.info/blockpuzzle/internal/domain"
)

func TestValidate(t *testing.T) {
	r := domain.DefaultRules()
	mono := domain.MustPiece(domain.CellCoord{Row: 0, Col: 0})
	domino := domain.MustPiece(domain.CellCoord{Row: 0, Col: 0}, domain.CellCoord{Row: 1, Col: 0})
	small := domain.NewBoard(domain.Rules{Size: 6, ComboResetAfter: 3})

	cases := []struct {
		name   string
		board  *domain.Board
		pieces []*domain.Piece
		want   error
	}{
		{"ok", domain.NewBoard(r), []*domain.Piece{mono, domino}, nil},
		{"no pieces", domain.NewBoard(r), nil, domain.ErrNoPieces},
		{"duplicate", domain.NewBoard(r), []*domain.Piece{mono, domino, mono}, domain.ErrDuplicatePiece},
		{"empty piece", domain.NewBoard(r), []*domain.Piece{{}}, domain.ErrEmptyPiece},
		{"wrong size", small, []*domain.Piece{mono}, domain.ErrBadGrid},
		{"nil board", nil, []*domain.Piece{mono}, domain.ErrBadGrid},
	}
	v := New(r)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tc.board, tc.pieces)
			if tc.want == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}
