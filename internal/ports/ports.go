package ports

import (
	"context"
	"time"

	"svw.info/blockpuzzle/internal/domain"
)

// Stats captures performance characteristics of an operation.
type Stats struct {
	Nodes    int
	Duration time.Duration
}

// Scorer maps a board to a desirability score; higher is better.
type Scorer interface {
	Score(b *domain.Board) int
}

// Searcher finds the best ordered placement of a batch of pieces.
// found is false when no legal completion exists.
type Searcher interface {
	BestSequence(ctx context.Context, b *domain.Board, pieces []*domain.Piece, originalCombo int) (head *domain.Move, found bool, st Stats, err error)
}

// Generator draws random piece batches.
type Generator interface {
	Batch(ctx context.Context, seed int64, count int) ([]*domain.Piece, error)
}

// Validator rejects malformed boards and piece sets at the boundary.
type Validator interface {
	Validate(ctx context.Context, b *domain.Board, pieces []*domain.Piece) error
}

// Hinter returns the next placement to highlight.
type Hinter interface {
	Hint(ctx context.Context, b *domain.Board, pieces []*domain.Piece) (domain.Hint, bool, error)
}

// Storage persists and retrieves snapshots as JSON.
type Storage interface {
	Save(ctx context.Context, s *domain.Snapshot) error
	Load(ctx context.Context, id string) (*domain.Snapshot, error)
	List(ctx context.Context) ([]domain.SnapshotMeta, error)
}
