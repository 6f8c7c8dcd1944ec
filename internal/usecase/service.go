package usecase

import (
	"context"
	"errors"

	"svw.info/blockpuzzle/internal/domain"
	"svw.info/blockpuzzle/internal/ports"
	"svw.info/blockpuzzle/internal/scorer"
)

type Service struct {
	Searcher  ports.Searcher
	Generator ports.Generator
	Validator ports.Validator
	Hinter    ports.Hinter
	Storage   ports.Storage

	Rules   domain.Rules
	Weights scorer.Weights
}

func NewService(s ports.Searcher, g ports.Generator, v ports.Validator, h ports.Hinter, st ports.Storage, r domain.Rules, w scorer.Weights) *Service {
	return &Service{Searcher: s, Generator: g, Validator: v, Hinter: h, Storage: st, Rules: r, Weights: w}
}

var errNotConfigured = errors.New("usecase dependency not configured")

func (u *Service) validate(ctx context.Context, b *domain.Board, pieces []*domain.Piece) error {
	if u.Validator == nil {
		return nil
	}
	return u.Validator.Validate(ctx, b, pieces)
}

// Solve validates the inputs and runs the search.
func (u *Service) Solve(ctx context.Context, b *domain.Board, pieces []*domain.Piece, originalCombo int) (*domain.Move, bool, ports.Stats, error) {
	if u.Searcher == nil {
		return nil, false, ports.Stats{}, errNotConfigured
	}
	if err := u.validate(ctx, b, pieces); err != nil {
		return nil, false, ports.Stats{}, err
	}
	if originalCombo < 0 {
		return nil, false, ports.Stats{}, domain.ErrNegativeCounter
	}
	return u.Searcher.BestSequence(ctx, b, pieces, originalCombo)
}

func (u *Service) Validate(ctx context.Context, b *domain.Board, pieces []*domain.Piece) error {
	if u.Validator == nil {
		return errNotConfigured
	}
	return u.Validator.Validate(ctx, b, pieces)
}

func (u *Service) Hint(ctx context.Context, b *domain.Board, pieces []*domain.Piece) (domain.Hint, bool, error) {
	if u.Hinter == nil {
		return domain.Hint{}, false, errNotConfigured
	}
	if err := u.validate(ctx, b, pieces); err != nil {
		return domain.Hint{}, false, err
	}
	return u.Hinter.Hint(ctx, b, pieces)
}

func (u *Service) Generate(ctx context.Context, seed int64, count int) ([]*domain.Piece, error) {
	if u.Generator == nil {
		return nil, errNotConfigured
	}
	return u.Generator.Batch(ctx, seed, count)
}

// Evaluate scores a board with the configured weights.
func (u *Service) Evaluate(b *domain.Board, mode domain.EvalMode) int {
	return scorer.Evaluate(b, mode, u.Weights)
}

// Apply places a piece on a copy of b; b itself is unchanged.
func (u *Service) Apply(b *domain.Board, p *domain.Piece, x, y int) (*domain.Board, bool) {
	nb := b.Clone()
	return nb, nb.ApplyPiece(p, x, y)
}

// Board builds a board from wire state using the service rules.
func (u *Service) Board(st domain.BoardState) (*domain.Board, error) {
	return domain.BoardFromState(st, u.Rules)
}

// Persistence
func (u *Service) Save(ctx context.Context, s *domain.Snapshot) error {
	if u.Storage == nil {
		return errNotConfigured
	}
	if _, err := u.Board(s.Board); err != nil {
		return err
	}
	return u.Storage.Save(ctx, s)
}
func (u *Service) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.Load(ctx, id)
}
func (u *Service) List(ctx context.Context) ([]domain.SnapshotMeta, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.List(ctx)
}
