package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"lukechampine.com/frand"

	"svw.info/blockpuzzle/internal/domain"
)

// MaxBatch is the largest batch Batch will draw.
const MaxBatch = 64

// RandomGenerator draws piece batches from a fixed catalog. The same seed
// always yields the same batch.
type RandomGenerator struct {
	Catalog []*domain.Piece
}

// NewRandomGenerator wires a generator over the standard catalog.
func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{Catalog: Catalog()}
}

// NewSeed returns a fresh non-zero seed for callers that did not pick one.
func NewSeed() int64 {
	return int64(frand.Uint64n(math.MaxInt64-1)) + 1
}

// Batch returns count distinct piece values; equal shapes may repeat but
// each entry is its own *Piece so the batch is a valid search input.
func (g *RandomGenerator) Batch(ctx context.Context, seed int64, count int) ([]*domain.Piece, error) {
	if count < 1 || count > MaxBatch {
		return nil, fmt.Errorf("batch size must be between 1 and %d, got %d", MaxBatch, count)
	}
	if len(g.Catalog) == 0 {
		return nil, fmt.Errorf("empty piece catalog")
	}
	rng := rand.New(rand.NewSource(seed))
	out := make([]*domain.Piece, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src := g.Catalog[rng.Intn(len(g.Catalog))]
		p, err := domain.NewPiece(src.Cells()...)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
