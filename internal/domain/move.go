package domain

// Move is one node of a placement chain: put Piece with its (0,0) offset at
// (X, Y). ProjectedScore is the terminal score reached by following the chain
// from this node to its end.
type Move struct {
	X              int
	Y              int
	Piece          *Piece
	ProjectedScore int
	next           *Move
}

// NewMove links a node in front of next; next may be nil for the last piece.
func NewMove(x, y int, p *Piece, score int, next *Move) *Move {
	return &Move{X: x, Y: y, Piece: p, ProjectedScore: score, next: next}
}

// Next returns the following node and whether there is one.
func (m *Move) Next() (*Move, bool) {
	if m == nil || m.next == nil {
		return nil, false
	}
	return m.next, true
}

// Len counts the nodes from m to the end of the chain.
func (m *Move) Len() int {
	n := 0
	for cur := m; cur != nil; cur = cur.next {
		n++
	}
	return n
}

// Cells returns the board cells covered by this placement.
func (m *Move) Cells() []CellCoord {
	out := m.Piece.Cells()
	for i := range out {
		out[i].Row += m.X
		out[i].Col += m.Y
	}
	return out
}

// Step is the flat, serializable form of a Move.
type Step struct {
	X              int    `json:"x"`
	Y              int    `json:"y"`
	Piece          *Piece `json:"piece"`
	ProjectedScore int    `json:"projectedScore"`
}

// Steps flattens the chain head-to-tail.
func (m *Move) Steps() []Step {
	out := make([]Step, 0, m.Len())
	for cur := m; cur != nil; cur = cur.next {
		out = append(out, Step{X: cur.X, Y: cur.Y, Piece: cur.Piece, ProjectedScore: cur.ProjectedScore})
	}
	return out
}

// ChainFromSteps rebuilds a chain; it returns nil for an empty slice.
func ChainFromSteps(steps []Step) *Move {
	var head *Move
	for i := len(steps) - 1; i >= 0; i-- {
		s := steps[i]
		head = NewMove(s.X, s.Y, s.Piece, s.ProjectedScore, head)
	}
	return head
}

// Apply plays every node of the chain on b in order. It stops at the first
// placement that does not fit and returns how many were applied.
func (m *Move) Apply(b *Board) int {
	n := 0
	for cur := m; cur != nil; cur = cur.next {
		if !b.ApplyPiece(cur.Piece, cur.X, cur.Y) {
			break
		}
		n++
	}
	return n
}
