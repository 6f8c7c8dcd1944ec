package domain

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestNewPieceNormalizes(t *testing.T) {
	p, err := NewPiece(CellCoord{3, 5}, CellCoord{4, 5}, CellCoord{4, 6}, CellCoord{4, 6})
	if err != nil {
		t.Fatal(err)
	}
	want := []CellCoord{{0, 0}, {1, 0}, {1, 1}}
	got := p.Cells()
	if len(got) != len(want) {
		t.Fatalf("cells = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cells = %v, want %v", got, want)
		}
	}
	if p.Height() != 2 || p.Width() != 2 {
		t.Fatalf("bounds = %dx%d, want 2x2", p.Height(), p.Width())
	}
	if p.String() != "#./##" {
		t.Fatalf("String = %q", p.String())
	}
}

func TestNewPieceRejectsEmpty(t *testing.T) {
	if _, err := NewPiece(); !errors.Is(err, ErrEmptyPiece) {
		t.Fatalf("err = %v, want ErrEmptyPiece", err)
	}
	if _, err := ParsePiece("...", "..."); !errors.Is(err, ErrEmptyPiece) {
		t.Fatalf("ParsePiece blank: err = %v", err)
	}
}

func TestNewPieceRejectsOversizedShapes(t *testing.T) {
	cases := map[string][]CellCoord{
		"extreme rows":  {{Row: math.MinInt, Col: 0}, {Row: math.MaxInt, Col: 0}},
		"wide span":     {{Row: 0, Col: 0}, {Row: 100000, Col: 100000}},
		"just too tall": {{Row: 0, Col: 0}, {Row: MaxPieceSpan, Col: 0}},
	}
	for name, cells := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewPiece(cells...); !errors.Is(err, ErrPieceTooLarge) {
				t.Fatalf("err = %v, want ErrPieceTooLarge", err)
			}
		})
	}

	var p Piece
	err := json.Unmarshal([]byte(`[[-9223372036854775808,0],[9223372036854775807,0]]`), &p)
	if !errors.Is(err, ErrPieceTooLarge) {
		t.Fatalf("unmarshal err = %v, want ErrPieceTooLarge", err)
	}

	p2, err := NewPiece(CellCoord{Row: -5, Col: 7}, CellCoord{Row: MaxPieceSpan - 6, Col: 7})
	if err != nil {
		t.Fatalf("widest allowed piece: %v", err)
	}
	if p2.Height() != MaxPieceSpan || p2.Cells()[0] != (CellCoord{}) {
		t.Fatalf("height = %d, first = %v", p2.Height(), p2.Cells()[0])
	}
}

func TestPieceCellsIsACopy(t *testing.T) {
	p := MustPiece(CellCoord{0, 0}, CellCoord{0, 1})
	c := p.Cells()
	c[0].Row = 9
	if p.Cells()[0].Row != 0 {
		t.Fatal("mutating Cells() changed the piece")
	}
}

func TestPieceJSON(t *testing.T) {
	var p Piece
	if err := json.Unmarshal([]byte(`[[2,2],[2,3],[3,3]]`), &p); err != nil {
		t.Fatal(err)
	}
	want, _ := ParsePiece("##", ".#")
	if !p.Equal(want) {
		t.Fatalf("decoded %s, want %s", p.String(), want.String())
	}
	out, err := json.Marshal(&p)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `[[0,0],[0,1],[1,1]]` {
		t.Fatalf("encoded %s", out)
	}
	if err := json.Unmarshal([]byte(`[]`), &p); !errors.Is(err, ErrEmptyPiece) {
		t.Fatalf("empty piece JSON: err = %v", err)
	}
}
