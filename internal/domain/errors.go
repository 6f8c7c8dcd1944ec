package domain

import "errors"

var (
	ErrEmptyPiece      = errors.New("piece has no cells")
	ErrPieceTooLarge   = errors.New("piece is too large")
	ErrDuplicatePiece  = errors.New("piece set contains the same piece twice")
	ErrNoPieces        = errors.New("at least one piece is required")
	ErrBadGrid         = errors.New("grid must be square and match the board size")
	ErrNegativeCounter = errors.New("combo and movesSinceLastClear must be non-negative")
	ErrOutOfBounds     = errors.New("cell is outside the board")
)
