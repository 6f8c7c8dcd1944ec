package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"svw.info/blockpuzzle/internal/domain"
	"svw.info/blockpuzzle/internal/hint"
	"svw.info/blockpuzzle/internal/ports"
)

var (
	ErrNoSuchPiece        = errors.New("no pending piece at that index")
	ErrEditedDuringSearch = errors.New("session was edited while the search ran")
)

// Session is one player's live game: an editable board, the pieces waiting
// to be placed, and the chain currently being played out. It is safe for
// concurrent use.
type Session struct {
	mu       sync.Mutex
	searcher ports.Searcher
	rules    domain.Rules
	board    *domain.Board
	pending  []*domain.Piece
	current  *domain.Move
	gen      uint64 // bumped by every edit to board or pending
}

func New(s ports.Searcher, r domain.Rules) *Session {
	return &Session{searcher: s, rules: r, board: domain.NewBoard(r)}
}

// View is a point-in-time copy of a session.
type View struct {
	Board   domain.BoardState `json:"board"`
	Pending []*domain.Piece   `json:"pending"`
	Next    *domain.Hint      `json:"next,omitempty"`
	Plan    []domain.Step     `json:"plan,omitempty"`
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	v := View{Board: s.board.State(), Pending: append([]*domain.Piece(nil), s.pending...)}
	if s.current != nil {
		h := hint.FromMove(s.current)
		v.Next = &h
		v.Plan = s.current.Steps()
	}
	return v
}

// Restore replaces the board and pending pieces, dropping any loaded chain.
func (s *Session) Restore(st domain.BoardState, pieces []*domain.Piece) error {
	b, err := domain.BoardFromState(st, s.rules)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = b
	s.pending = append([]*domain.Piece(nil), pieces...)
	s.current = nil
	s.gen++
	return nil
}

// Reset empties the board and forgets pieces and plan.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = domain.NewBoard(s.rules)
	s.pending = nil
	s.current = nil
	s.gen++
}

// ToggleCell flips one board cell; it does not run the clear pass.
func (s *Session) ToggleCell(row, col int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row < 0 || row >= s.board.Size() || col < 0 || col >= s.board.Size() {
		return fmt.Errorf("%w: (%d,%d)", domain.ErrOutOfBounds, row, col)
	}
	s.gen++
	return s.board.Set(row, col, !s.board.Occupied(row, col))
}

// AddPiece captures a piece from selected grid cells and queues it.
func (s *Session) AddPiece(cells []domain.CellCoord) (*domain.Piece, error) {
	p, err := domain.NewPiece(cells...)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, p)
	s.gen++
	return p, nil
}

// RemovePiece drops the pending piece at index i.
func (s *Session) RemovePiece(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.pending) {
		return fmt.Errorf("%w: %d", ErrNoSuchPiece, i)
	}
	s.pending = append(s.pending[:i], s.pending[i+1:]...)
	s.gen++
	return nil
}

// LoadBestSequence searches the pending pieces from the current board. On
// success the pieces move into the plan and found is true; when nothing fits
// the pieces stay pending and found is false. The search runs unlocked; if
// the session is edited meanwhile the result is dropped and
// ErrEditedDuringSearch is returned.
func (s *Session) LoadBestSequence(ctx context.Context) (found bool, st ports.Stats, err error) {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return false, ports.Stats{}, domain.ErrNoPieces
	}
	b := s.board.Clone()
	pieces := append([]*domain.Piece(nil), s.pending...)
	gen := s.gen
	s.mu.Unlock()

	head, found, st, err := s.searcher.BestSequence(ctx, b, pieces, b.Combo())
	if err != nil || !found {
		return false, st, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false, st, ErrEditedDuringSearch
	}
	s.current = head
	s.pending = nil
	s.gen++
	log.Debug().Int("moves", head.Len()).Int("score", head.ProjectedScore).Msg("sequence-loaded")
	return true, st, nil
}

// PlaceSelected applies the current move to the board and advances to the
// next one. placed is false when there is no current move.
func (s *Session) PlaceSelected() (placed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return false, nil
	}
	m := s.current
	if !s.board.ApplyPiece(m.Piece, m.X, m.Y) {
		// board was edited since the plan was made
		s.current = nil
		return false, fmt.Errorf("planned placement of %s at (%d,%d) no longer fits", m.Piece, m.X, m.Y)
	}
	s.current, _ = m.Next()
	s.gen++
	return true, nil
}
