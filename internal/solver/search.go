package solver

import (
	"context"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"

	"svw.info/blockpuzzle/internal/domain"
	"svw.info/blockpuzzle/internal/ports"
	"svw.info/blockpuzzle/internal/scorer"
)

// Options tune the search. Zero Scorer means the default rich heuristic.
type Options struct {
	Scorer                     ports.Scorer
	MovesSinceLastClearPenalty int // per quiet move left on the final board
	LowComboPenalty            int // once, if the final combo is below the starting combo
	Workers                    int // root fan-out; 1 searches on the calling goroutine
	MaxNodes                   int // placements to try before giving up; 0 is unbounded
}

func DefaultOptions() Options {
	return Options{
		Scorer:                     scorer.NewHeuristic(scorer.DefaultWeights()),
		MovesSinceLastClearPenalty: -500,
		LowComboPenalty:            -10_000,
		Workers:                    runtime.NumCPU(),
	}
}

// Engine is an exhaustive search over piece orderings and anchors.
type Engine struct {
	opts Options
}

func NewEngine(opts Options) *Engine {
	if opts.Scorer == nil {
		opts.Scorer = scorer.NewHeuristic(scorer.DefaultWeights())
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Engine{opts: opts}
}

// BestSequence tries every ordering of pieces and every anchor of each piece
// on clones of b, and returns the chain whose final board scores highest.
// Ties keep the first candidate in (piece, row, col) order. found is false
// when no ordering fits on the board. b is never modified.
func (e *Engine) BestSequence(ctx context.Context, b *domain.Board, pieces []*domain.Piece, originalCombo int) (*domain.Move, bool, ports.Stats, error) {
	start := time.Now()
	if err := checkPieces(pieces); err != nil {
		return nil, false, ports.Stats{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, ports.Stats{}, err
	}
	s := &search{opts: e.opts, originalCombo: originalCombo}

	var head *domain.Move
	var err error
	if e.opts.Workers > 1 {
		head, err = s.fanOut(ctx, b, pieces, e.opts.Workers)
	} else {
		head, err = s.best(ctx, b, pieces)
	}
	st := ports.Stats{Nodes: int(s.nodes.Load()), Duration: time.Since(start)}
	if err != nil {
		log.Debug().Err(err).Int("nodes", st.Nodes).Dur("dur", st.Duration).Msg("search-aborted")
		return nil, false, st, err
	}
	ev := log.Debug().Int("pieces", len(pieces)).Int("nodes", st.Nodes).Dur("dur", st.Duration).Bool("found", head != nil)
	if head != nil {
		ev = ev.Int("score", head.ProjectedScore)
	}
	ev.Msg("search-done")
	return head, head != nil, st, nil
}

func checkPieces(pieces []*domain.Piece) error {
	if len(pieces) == 0 {
		return domain.ErrNoPieces
	}
	seen := make(map[*domain.Piece]struct{}, len(pieces))
	for _, p := range pieces {
		if p == nil || p.Size() == 0 {
			return domain.ErrEmptyPiece
		}
		if _, dup := seen[p]; dup {
			return domain.ErrDuplicatePiece
		}
		seen[p] = struct{}{}
	}
	return nil
}

// best returns the best chain for pieces from b, or nil at a dead end.
func (s *search) best(ctx context.Context, b *domain.Board, pieces []*domain.Piece) (*domain.Move, error) {
	var best *domain.Move
	n := b.Size()
	for i, p := range pieces {
		rest := without(pieces, i)
		for x := 0; x < n; x++ {
			for y := 0; y < n; y++ {
				if !b.CanPlace(p, x, y) {
					continue
				}
				m, err := s.place(ctx, b, p, x, y, rest)
				if err != nil {
					return nil, err
				}
				if m != nil && (best == nil || m.ProjectedScore > best.ProjectedScore) {
					best = m
				}
			}
		}
	}
	return best, nil
}

// place scores putting p at (x, y) on a clone of b and then finishing rest.
// It returns nil when rest cannot all be placed afterwards.
func (s *search) place(ctx context.Context, b *domain.Board, p *domain.Piece, x, y int, rest []*domain.Piece) (*domain.Move, error) {
	if err := s.visit(ctx); err != nil {
		return nil, err
	}
	nb := b.Clone()
	nb.ApplyPiece(p, x, y)
	if len(rest) == 0 {
		return domain.NewMove(x, y, p, s.terminal(nb), nil), nil
	}
	next, err := s.best(ctx, nb, rest)
	if err != nil || next == nil {
		return nil, err
	}
	return domain.NewMove(x, y, p, next.ProjectedScore, next), nil
}

func (s *search) terminal(b *domain.Board) int {
	score := s.opts.Scorer.Score(b) + s.opts.MovesSinceLastClearPenalty*b.MovesSinceLastClear()
	if b.Combo() < s.originalCombo {
		score += s.opts.LowComboPenalty
	}
	return score
}

func without(pieces []*domain.Piece, i int) []*domain.Piece {
	out := make([]*domain.Piece, 0, len(pieces)-1)
	out = append(out, pieces[:i]...)
	return append(out, pieces[i+1:]...)
}
