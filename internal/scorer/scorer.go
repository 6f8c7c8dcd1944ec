package scorer

import (
	"svw.info/blockpuzzle/internal/domain"
	"svw.info/blockpuzzle/internal/ports"
)

// Weights are the terms of the rich heuristic.
type Weights struct {
	EmptyStraightReward int `json:"emptyStraightReward"` // per fully empty row and per fully empty column
	ClusteredReward     int `json:"clusteredReward"`     // per occupied neighbour of an occupied cell (8-neighbourhood)
	EmptyIslandPenalty  int `json:"emptyIslandPenalty"`  // per 4-connected region of empty cells
	EmptyCellReward     int `json:"emptyCellReward"`     // per empty cell
	EdgePenalty         int `json:"edgePenalty"`         // per empty neighbour of an occupied cell (8-neighbourhood)
}

func DefaultWeights() Weights {
	return Weights{
		EmptyStraightReward: 40,
		ClusteredReward:     0,
		EmptyIslandPenalty:  -30,
		EmptyCellReward:     4,
		EdgePenalty:         -1,
	}
}

// Simple scores a board by its occupied cell count.
type Simple struct{}

func NewSimple() *Simple { return &Simple{} }

func (Simple) Score(b *domain.Board) int { return b.Filled() }

// Heuristic is the weighted rich evaluation.
type Heuristic struct {
	W Weights
}

func NewHeuristic(w Weights) *Heuristic { return &Heuristic{W: w} }

var neighbours8 = [8][2]int{
	{0, 1}, {1, 0}, {0, -1}, {-1, 0},
	{1, 1}, {-1, -1}, {1, -1}, {-1, 1},
}

// Score sums the rich terms. Adjacent occupied pairs are counted from both
// cells, so each pair contributes ClusteredReward twice.
func (h *Heuristic) Score(b *domain.Board) int {
	n := b.Size()
	score := 0
	for i := 0; i < n; i++ {
		rowEmpty, colEmpty := true, true
		for j := 0; j < n; j++ {
			if b.Occupied(i, j) {
				rowEmpty = false
			} else {
				score += h.W.EmptyCellReward
			}
			if b.Occupied(j, i) {
				colEmpty = false
			}
		}
		if rowEmpty {
			score += h.W.EmptyStraightReward
		}
		if colEmpty {
			score += h.W.EmptyStraightReward
		}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if !b.Occupied(i, j) {
				continue
			}
			for _, d := range neighbours8 {
				ni, nj := i+d[0], j+d[1]
				if ni < 0 || ni >= n || nj < 0 || nj >= n {
					continue
				}
				if b.Occupied(ni, nj) {
					score += h.W.ClusteredReward
				} else {
					score += h.W.EdgePenalty
				}
			}
		}
	}

	score += h.W.EmptyIslandPenalty * len(EmptyIslands(b))
	return score
}

// Evaluate scores b in the given mode.
func Evaluate(b *domain.Board, mode domain.EvalMode, w Weights) int {
	return For(mode, w).Score(b)
}

// For returns the scorer for a mode.
func For(mode domain.EvalMode, w Weights) ports.Scorer {
	if mode == domain.EvalSimple {
		return NewSimple()
	}
	return NewHeuristic(w)
}
