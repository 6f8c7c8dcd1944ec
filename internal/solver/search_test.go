package solver

import (
	"context"
	"errors"
	"testing"
	"time"

	"svw.info/blockpuzzle/internal/domain"
	"svw.info/blockpuzzle/internal/scorer"
)

func board(t *testing.T, rows ...string) *domain.Board {
	t.Helper()
	b, err := domain.ParseBoard(domain.DefaultRules(), rows...)
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}
	return b
}

func piece(t *testing.T, rows ...string) *domain.Piece {
	t.Helper()
	p, err := domain.ParsePiece(rows...)
	if err != nil {
		t.Fatalf("ParsePiece: %v", err)
	}
	return p
}

func engines() map[string]*Engine {
	seq := DefaultOptions()
	seq.Workers = 1
	par := DefaultOptions()
	par.Workers = 4
	return map[string]*Engine{"sequential": NewEngine(seq), "parallel": NewEngine(par)}
}

func solve(t *testing.T, e *Engine, b *domain.Board, pieces []*domain.Piece, combo int) (*domain.Move, bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	m, ok, st, err := e.BestSequence(ctx, b, pieces, combo)
	if err != nil {
		t.Fatalf("BestSequence: %v (nodes=%d dur=%v)", err, st.Nodes, st.Duration)
	}
	return m, ok
}

func TestSingleFreeCell(t *testing.T) {
	b := board(t,
		"########",
		"########",
		"########",
		"########",
		"########",
		"##.#####",
		"########",
		"########",
	)
	mono := piece(t, "#")
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			m, ok := solve(t, e, b, []*domain.Piece{mono}, 0)
			if !ok {
				t.Fatal("no move found")
			}
			if m.X != 5 || m.Y != 2 {
				t.Fatalf("anchor = (%d,%d), want (5,2)", m.X, m.Y)
			}
			if _, more := m.Next(); more {
				t.Fatal("single piece chain has a next move")
			}
		})
	}
}

func TestNoFreeCell(t *testing.T) {
	full := "########"
	b := board(t, full, full, full, full, full, full, full, full)
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			if m, ok := solve(t, e, b, []*domain.Piece{piece(t, "#")}, 0); ok || m != nil {
				t.Fatalf("found %+v on a full board", m)
			}
		})
	}
}

func TestDeadEndDiscardsBranch(t *testing.T) {
	b := domain.NewBoard(domain.DefaultRules())
	bar9 := piece(t, "#########")
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			if _, ok := solve(t, e, b, []*domain.Piece{piece(t, "#"), bar9}, 0); ok {
				t.Fatal("found a chain although the bar never fits")
			}
		})
	}
}

func TestTieKeepsFirstAnchor(t *testing.T) {
	b := domain.NewBoard(domain.DefaultRules())
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			// all four corners score the same; (0,0) is met first
			m, ok := solve(t, e, b, []*domain.Piece{piece(t, "#")}, 0)
			if !ok || m.X != 0 || m.Y != 0 {
				t.Fatalf("got %+v, want anchor (0,0)", m)
			}
		})
	}
}

func TestPrefersClearingMove(t *testing.T) {
	b := board(t,
		"#######.",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			m, ok := solve(t, e, b, []*domain.Piece{piece(t, "#")}, 0)
			if !ok || m.X != 0 || m.Y != 7 {
				t.Fatalf("got %+v, want anchor (0,7)", m)
			}
			if want := scorer.NewHeuristic(scorer.DefaultWeights()).Score(domain.NewBoard(domain.DefaultRules())); m.ProjectedScore != want {
				t.Fatalf("projected = %d, want %d", m.ProjectedScore, want)
			}
		})
	}
}

func TestLowComboPenalty(t *testing.T) {
	b := domain.NewBoard(domain.DefaultRules())
	opts := DefaultOptions()
	opts.Workers = 1
	e := NewEngine(opts)
	m0, _ := solve(t, e, b, []*domain.Piece{piece(t, "#")}, 0)
	m1, _ := solve(t, e, b, []*domain.Piece{piece(t, "#")}, 1)
	if diff := m0.ProjectedScore - m1.ProjectedScore; diff != -opts.LowComboPenalty {
		t.Fatalf("penalty applied = %d, want %d", diff, -opts.LowComboPenalty)
	}
}

func TestProjectedScoreMatchesReplay(t *testing.T) {
	b := board(t,
		"######..",
		"........",
		"........",
		"...##...",
		"........",
		"........",
		"........",
		"#.......",
	)
	pieces := []*domain.Piece{piece(t, "##"), piece(t, "#.", "##")}
	opts := DefaultOptions()
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			m, ok := solve(t, e, b, pieces, b.Combo())
			if !ok {
				t.Fatal("no chain")
			}
			if m.Len() != len(pieces) {
				t.Fatalf("chain length = %d, want %d", m.Len(), len(pieces))
			}
			replay := b.Clone()
			if n := m.Apply(replay); n != len(pieces) {
				t.Fatalf("replayed %d of %d moves", n, len(pieces))
			}
			got := opts.Scorer.Score(replay) + opts.MovesSinceLastClearPenalty*replay.MovesSinceLastClear()
			if replay.Combo() < b.Combo() {
				got += opts.LowComboPenalty
			}
			if got != m.ProjectedScore {
				t.Fatalf("replayed score = %d, projected %d", got, m.ProjectedScore)
			}
		})
	}
}

func TestDeterministicAndParallelMatchesSequential(t *testing.T) {
	b := board(t,
		"##......",
		"##......",
		"........",
		"....#...",
		"........",
		"........",
		"......##",
		"......##",
	)
	pieces := []*domain.Piece{piece(t, "###"), piece(t, "#", "#")}
	var chains [][]domain.Step
	for _, name := range []string{"sequential", "sequential", "parallel", "parallel"} {
		m, ok := solve(t, engines()[name], b, pieces, 0)
		if !ok {
			t.Fatalf("%s: no chain", name)
		}
		chains = append(chains, m.Steps())
	}
	for i := 1; i < len(chains); i++ {
		if len(chains[i]) != len(chains[0]) {
			t.Fatalf("run %d: length %d, want %d", i, len(chains[i]), len(chains[0]))
		}
		for j := range chains[0] {
			a, c := chains[0][j], chains[i][j]
			if a.X != c.X || a.Y != c.Y || a.Piece != c.Piece || a.ProjectedScore != c.ProjectedScore {
				t.Fatalf("run %d step %d: %+v, want %+v", i, j, c, a)
			}
		}
	}
}

func TestBoardNotModified(t *testing.T) {
	b := board(t,
		"#######.",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	before := b.Clone()
	for _, e := range engines() {
		solve(t, e, b, []*domain.Piece{piece(t, "#"), piece(t, "##")}, 0)
	}
	if !b.Equal(before) {
		t.Fatalf("input board modified:\n%s", b)
	}
}

func TestBestSequenceErrors(t *testing.T) {
	b := domain.NewBoard(domain.DefaultRules())
	mono := piece(t, "#")
	e := NewEngine(Options{Workers: 1})

	if _, _, _, err := e.BestSequence(context.Background(), b, nil, 0); !errors.Is(err, domain.ErrNoPieces) {
		t.Fatalf("no pieces: err = %v", err)
	}
	if _, _, _, err := e.BestSequence(context.Background(), b, []*domain.Piece{mono, mono}, 0); !errors.Is(err, domain.ErrDuplicatePiece) {
		t.Fatalf("duplicate: err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, _, err := e.BestSequence(ctx, b, []*domain.Piece{mono}, 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled: err = %v", err)
	}

	for name, workers := range map[string]int{"sequential": 1, "parallel": 4} {
		t.Run(name, func(t *testing.T) {
			limited := NewEngine(Options{Workers: workers, MaxNodes: 10})
			_, ok, _, err := limited.BestSequence(context.Background(), b, []*domain.Piece{mono, piece(t, "##")}, 0)
			if !errors.Is(err, ErrBudgetExceeded) || ok {
				t.Fatalf("budget: ok=%v err=%v", ok, err)
			}
		})
	}
}
