package domain

import (
	"fmt"
	"strings"
)

// Board is a square grid of occupied/free cells plus the combo counters.
// Anchors are (x, y) = (row, col), matching CellCoord{Row: x, Col: y}.
type Board struct {
	rules               Rules
	cells               []bool // row-major, Size*Size
	combo               int
	movesSinceLastClear int
}

func NewBoard(r Rules) *Board {
	return &Board{rules: r, cells: make([]bool, r.Size*r.Size)}
}

// BoardFromState rebuilds a board from its serialized form.
func BoardFromState(st BoardState, r Rules) (*Board, error) {
	if len(st.Grid) != r.Size {
		return nil, fmt.Errorf("%w: %d rows, want %d", ErrBadGrid, len(st.Grid), r.Size)
	}
	if st.Combo < 0 || st.MovesSinceLastClear < 0 {
		return nil, ErrNegativeCounter
	}
	b := NewBoard(r)
	for row, line := range st.Grid {
		if len(line) != r.Size {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrBadGrid, row, len(line), r.Size)
		}
		copy(b.cells[row*r.Size:], line)
	}
	b.combo = st.Combo
	b.movesSinceLastClear = st.MovesSinceLastClear
	return b, nil
}

// ParseBoard reads rows of '#' (occupied) and '.' (free).
func ParseBoard(r Rules, rows ...string) (*Board, error) {
	grid := make([][]bool, len(rows))
	for i, line := range rows {
		line = strings.TrimSpace(line)
		grid[i] = make([]bool, len(line))
		for j, ch := range line {
			switch ch {
			case '#', 'X', 'x':
				grid[i][j] = true
			case '.':
			default:
				return nil, fmt.Errorf("board row %d: unexpected %q", i, ch)
			}
		}
	}
	return BoardFromState(BoardState{Grid: grid}, r)
}

// State returns a deep copy of the grid and counters.
func (b *Board) State() BoardState {
	n := b.rules.Size
	grid := make([][]bool, n)
	for r := range grid {
		grid[r] = make([]bool, n)
		copy(grid[r], b.cells[r*n:(r+1)*n])
	}
	return BoardState{Grid: grid, Combo: b.combo, MovesSinceLastClear: b.movesSinceLastClear}
}

func (b *Board) Rules() Rules               { return b.rules }
func (b *Board) Size() int                  { return b.rules.Size }
func (b *Board) Combo() int                 { return b.combo }
func (b *Board) MovesSinceLastClear() int   { return b.movesSinceLastClear }
func (b *Board) Occupied(row, col int) bool { return b.cells[row*b.rules.Size+col] }

func (b *Board) inside(row, col int) bool {
	return row >= 0 && row < b.rules.Size && col >= 0 && col < b.rules.Size
}

// Set edits a single cell directly, without running the clear pass.
func (b *Board) Set(row, col int, occupied bool) error {
	if !b.inside(row, col) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, row, col)
	}
	b.cells[row*b.rules.Size+col] = occupied
	return nil
}

// Filled counts occupied cells.
func (b *Board) Filled() int {
	n := 0
	for _, v := range b.cells {
		if v {
			n++
		}
	}
	return n
}

// CanPlace reports whether every cell of p anchored at (x, y) is on the board and free.
func (b *Board) CanPlace(p *Piece, x, y int) bool {
	for _, c := range p.cells {
		r, col := c.Row+x, c.Col+y
		if !b.inside(r, col) || b.cells[r*b.rules.Size+col] {
			return false
		}
	}
	return true
}

// ApplyPiece places p with its (0,0) offset at (x, y). On an illegal anchor it
// returns false and the board is untouched. On success it runs the clear pass
// and updates the combo counters.
func (b *Board) ApplyPiece(p *Piece, x, y int) bool {
	if !b.CanPlace(p, x, y) {
		return false
	}
	for _, c := range p.cells {
		b.cells[(c.Row+x)*b.rules.Size+c.Col+y] = true
	}
	if b.clearLines() > 0 {
		b.movesSinceLastClear = 0
		return true
	}
	b.movesSinceLastClear++
	if b.movesSinceLastClear >= b.rules.ComboResetAfter {
		b.combo = 0
	}
	return true
}

// clearLines detects every full row and column first, then empties them all,
// so lines sharing a cell are each counted. Returns the number of lines cleared.
func (b *Board) clearLines() int {
	n := b.rules.Size
	rows := make([]bool, n)
	cols := make([]bool, n)
	cleared := 0
	for i := 0; i < n; i++ {
		rowFull, colFull := true, true
		for j := 0; j < n && (rowFull || colFull); j++ {
			if !b.cells[i*n+j] {
				rowFull = false
			}
			if !b.cells[j*n+i] {
				colFull = false
			}
		}
		if rowFull {
			rows[i] = true
			cleared++
		}
		if colFull {
			cols[i] = true
			cleared++
		}
	}
	if cleared == 0 {
		return 0
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if rows[i] || cols[j] {
				b.cells[i*n+j] = false
			}
		}
	}
	b.combo += cleared
	return cleared
}

// Clone returns an independent copy.
func (b *Board) Clone() *Board {
	cp := *b
	cp.cells = make([]bool, len(b.cells))
	copy(cp.cells, b.cells)
	return &cp
}

// Equal compares occupancy and counters.
func (b *Board) Equal(o *Board) bool {
	if b.rules != o.rules || b.combo != o.combo || b.movesSinceLastClear != o.movesSinceLastClear {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

func (b *Board) String() string {
	var sb strings.Builder
	n := b.rules.Size
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if b.cells[r*n+c] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
