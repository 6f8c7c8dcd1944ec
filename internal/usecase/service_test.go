package usecase

import (
	"context"
	"errors"
	"testing"

	"svw.info/blockpuzzle/internal/domain"
	"svw.info/blockpuzzle/internal/scorer"
	"svw.info/blockpuzzle/internal/solver"
	"svw.info/blockpuzzle/internal/validator"
)

func TestSolveValidatesFirst(t *testing.T) {
	r := domain.DefaultRules()
	uc := NewService(solver.NewEngine(solver.Options{Workers: 1}), nil, validator.New(r), nil, nil, r, scorer.DefaultWeights())
	b := domain.NewBoard(r)
	mono := domain.MustPiece(domain.CellCoord{})

	if _, _, _, err := uc.Solve(context.Background(), b, []*domain.Piece{mono, mono}, 0); !errors.Is(err, domain.ErrDuplicatePiece) {
		t.Fatalf("err = %v", err)
	}
	if _, _, _, err := uc.Solve(context.Background(), b, []*domain.Piece{mono}, -1); !errors.Is(err, domain.ErrNegativeCounter) {
		t.Fatalf("err = %v", err)
	}
	m, ok, _, err := uc.Solve(context.Background(), b, []*domain.Piece{mono}, 0)
	if err != nil || !ok || m == nil {
		t.Fatalf("Solve: ok=%v err=%v", ok, err)
	}
}

func TestMissingDependencies(t *testing.T) {
	uc := &Service{}
	if _, err := uc.Generate(context.Background(), 1, 1); !errors.Is(err, errNotConfigured) {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := uc.List(context.Background()); !errors.Is(err, errNotConfigured) {
		t.Fatalf("List: %v", err)
	}
	if _, _, err := uc.Hint(context.Background(), nil, nil); !errors.Is(err, errNotConfigured) {
		t.Fatalf("Hint: %v", err)
	}
}

func TestApplyLeavesInputAlone(t *testing.T) {
	r := domain.DefaultRules()
	uc := &Service{Rules: r, Weights: scorer.DefaultWeights()}
	b := domain.NewBoard(r)
	nb, ok := uc.Apply(b, domain.MustPiece(domain.CellCoord{}), 1, 1)
	if !ok || nb.Filled() != 1 || b.Filled() != 0 {
		t.Fatalf("ok=%v new=%d orig=%d", ok, nb.Filled(), b.Filled())
	}
	if got := uc.Evaluate(nb, domain.EvalSimple); got != 1 {
		t.Fatalf("Evaluate simple = %d", got)
	}
}
