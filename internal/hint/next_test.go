package hint

import (
	"context"
	"testing"

	"svw.info/blockpuzzle/internal/domain"
	"svw.info/blockpuzzle/internal/solver"
)

func TestHintHighlightsFirstPlacement(t *testing.T) {
	b, err := domain.ParseBoard(domain.DefaultRules(),
		"######..",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	if err != nil {
		t.Fatal(err)
	}
	domino, _ := domain.ParsePiece("##")
	h := NewNextPlacement(solver.NewEngine(solver.Options{Workers: 1}))

	got, ok, err := h.Hint(context.Background(), b, []*domain.Piece{domino})
	if err != nil || !ok {
		t.Fatalf("Hint: ok=%v err=%v", ok, err)
	}
	want := []domain.CellCoord{{Row: 0, Col: 6}, {Row: 0, Col: 7}}
	if len(got.Cells) != 2 || got.Cells[0] != want[0] || got.Cells[1] != want[1] {
		t.Fatalf("cells = %v, want %v", got.Cells, want)
	}
	if got.Message == "" {
		t.Fatal("empty message")
	}
}

func TestHintNotFound(t *testing.T) {
	full := "########"
	b, _ := domain.ParseBoard(domain.DefaultRules(), full, full, full, full, full, full, full, full)
	mono, _ := domain.ParsePiece("#")
	_, ok, err := NewNextPlacement(solver.NewEngine(solver.Options{Workers: 1})).Hint(context.Background(), b, []*domain.Piece{mono})
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v, want not found", ok, err)
	}
}
