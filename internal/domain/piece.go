package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Piece is an immutable polyomino: a set of (row, col) offsets normalized so
// the smallest row and smallest column are both 0.
type Piece struct {
	cells  []CellCoord
	height int
	width  int
}

// MaxPieceSpan bounds the height and width of a piece.
const MaxPieceSpan = 64

// maxPieceCoord bounds raw input so the span arithmetic cannot overflow.
const maxPieceCoord = 1 << 20

// NewPiece normalizes and deduplicates cells. Offsets may be any integers,
// e.g. raw coordinates taken from a selection grid, as long as the piece
// fits in a MaxPieceSpan square.
func NewPiece(cells ...CellCoord) (*Piece, error) {
	if len(cells) == 0 {
		return nil, ErrEmptyPiece
	}
	for _, c := range cells {
		if c.Row < -maxPieceCoord || c.Row > maxPieceCoord || c.Col < -maxPieceCoord || c.Col > maxPieceCoord {
			return nil, fmt.Errorf("%w: cell (%d,%d)", ErrPieceTooLarge, c.Row, c.Col)
		}
	}
	minR, minC := cells[0].Row, cells[0].Col
	maxR, maxC := minR, minC
	for _, c := range cells[1:] {
		minR, maxR = min(minR, c.Row), max(maxR, c.Row)
		minC, maxC = min(minC, c.Col), max(maxC, c.Col)
	}
	if maxR-minR >= MaxPieceSpan || maxC-minC >= MaxPieceSpan {
		return nil, fmt.Errorf("%w: %dx%d", ErrPieceTooLarge, maxR-minR+1, maxC-minC+1)
	}
	seen := make(map[CellCoord]struct{}, len(cells))
	out := make([]CellCoord, 0, len(cells))
	p := &Piece{}
	for _, c := range cells {
		n := CellCoord{Row: c.Row - minR, Col: c.Col - minC}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
		p.height = max(p.height, n.Row+1)
		p.width = max(p.width, n.Col+1)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	p.cells = out
	return p, nil
}

// MustPiece is NewPiece for literals known to be valid.
func MustPiece(cells ...CellCoord) *Piece {
	p, err := NewPiece(cells...)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePiece builds a piece from rows of '#' (filled) and '.' (empty).
func ParsePiece(rows ...string) (*Piece, error) {
	var cells []CellCoord
	for r, line := range rows {
		for c, ch := range line {
			switch ch {
			case '#', 'X', 'x':
				cells = append(cells, CellCoord{Row: r, Col: c})
			case '.', ' ':
			default:
				return nil, fmt.Errorf("piece row %d: unexpected %q", r, ch)
			}
		}
	}
	return NewPiece(cells...)
}

// Cells returns a copy of the normalized offsets in row-major order.
func (p *Piece) Cells() []CellCoord {
	out := make([]CellCoord, len(p.cells))
	copy(out, p.cells)
	return out
}

func (p *Piece) Size() int   { return len(p.cells) }
func (p *Piece) Height() int { return p.height }
func (p *Piece) Width() int  { return p.width }

// Equal reports whether both pieces cover the same offsets.
func (p *Piece) Equal(o *Piece) bool {
	if p == o {
		return true
	}
	if p == nil || o == nil || len(p.cells) != len(o.cells) {
		return false
	}
	for i := range p.cells {
		if p.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// String draws the piece as '#'/'.' rows separated by '/'.
func (p *Piece) String() string {
	grid := make([][]byte, p.height)
	for r := range grid {
		grid[r] = make([]byte, p.width)
		for c := range grid[r] {
			grid[r][c] = '.'
		}
	}
	for _, c := range p.cells {
		grid[c.Row][c.Col] = '#'
	}
	s := ""
	for r, row := range grid {
		if r > 0 {
			s += "/"
		}
		s += string(row)
	}
	return s
}

// MarshalJSON encodes the piece as [[row,col],...].
func (p *Piece) MarshalJSON() ([]byte, error) {
	pairs := make([][2]int, len(p.cells))
	for i, c := range p.cells {
		pairs[i] = [2]int{c.Row, c.Col}
	}
	return json.Marshal(pairs)
}

func (p *Piece) UnmarshalJSON(data []byte) error {
	var pairs [][2]int
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}
	cells := make([]CellCoord, len(pairs))
	for i, pr := range pairs {
		cells[i] = CellCoord{Row: pr[0], Col: pr[1]}
	}
	np, err := NewPiece(cells...)
	if err != nil {
		return err
	}
	*p = *np
	return nil
}
