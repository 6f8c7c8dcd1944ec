package domain

// CellCoord identifies a cell on the board, or an offset inside a piece.
type CellCoord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Rules are the fixed parameters of a board.
type Rules struct {
	Size            int `json:"size"`
	ComboResetAfter int `json:"comboResetAfter"` // non-clearing moves before combo drops to 0
}

// DefaultRules is the classic 8×8 game.
func DefaultRules() Rules { return Rules{Size: 8, ComboResetAfter: 3} }

// BoardState is the serializable form of a Board.
type BoardState struct {
	Grid                [][]bool `json:"grid"`
	Combo               int      `json:"combo"`
	MovesSinceLastClear int      `json:"movesSinceLastClear"`
}

// Hint describes the next placement to highlight in a UI.
type Hint struct {
	Message string      `json:"message,omitempty"`
	Cells   []CellCoord `json:"cells,omitempty"`
	X       int         `json:"x"`
	Y       int         `json:"y"`
	Piece   *Piece      `json:"piece,omitempty"`
}

// Snapshot is a persisted board with its pending pieces.
type Snapshot struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name,omitempty"`
	Board     BoardState `json:"board"`
	Pieces    []*Piece   `json:"pieces,omitempty"`
	CreatedAt int64      `json:"createdAt,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

// SnapshotMeta is a lightweight listing entry.
type SnapshotMeta struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Pieces    int    `json:"pieces"`
	CreatedAt int64  `json:"createdAt"`
}
