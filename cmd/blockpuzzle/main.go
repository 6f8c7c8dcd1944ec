// Command blockpuzzle prints the best placement sequence for a board and a
// batch of pieces, either loaded from a snapshot file or drawn at random.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"

	"svw.info/blockpuzzle/internal/config"
	"svw.info/blockpuzzle/internal/domain"
	"svw.info/blockpuzzle/internal/generator"
	"svw.info/blockpuzzle/internal/render"
	"svw.info/blockpuzzle/internal/solver"
	"svw.info/blockpuzzle/internal/validator"
)

func main() {
	cfg := config.Default()
	cfg.LogLevel = "warn"
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatal().Err(err).Msg("environment")
	}
	cfg.RegisterFlags(flag.CommandLine)
	snapshot := flag.String("snapshot", "", "snapshot JSON file to solve (default: empty board and a random batch)")
	seed := flag.Int64("seed", 0, "batch seed (0 = random)")
	count := flag.Int("count", 3, "pieces per random batch")
	combo := flag.Int("combo", -1, "combo the sequence must not fall below (-1 = board combo)")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if err := cfg.SetupLogging(os.Stderr); err != nil {
		log.Fatal().Err(err).Msg("logging")
	}

	if err := run(cfg, *snapshot, *seed, *count, *combo); err != nil {
		fmt.Fprintln(os.Stderr, "blockpuzzle:", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, snapshot string, seed int64, count, combo int) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if cfg.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.SearchTimeout)
		defer cancel()
	}
	rules := cfg.Rules()

	board := domain.NewBoard(rules)
	var pieces []*domain.Piece
	if snapshot != "" {
		data, err := os.ReadFile(snapshot)
		if err != nil {
			return err
		}
		var snap domain.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return fmt.Errorf("%s: %w", snapshot, err)
		}
		if board, err = domain.BoardFromState(snap.Board, rules); err != nil {
			return fmt.Errorf("%s: %w", snapshot, err)
		}
		pieces = snap.Pieces
	} else {
		if seed == 0 {
			seed = generator.NewSeed()
		}
		var err error
		if pieces, err = generator.NewRandomGenerator().Batch(ctx, seed, count); err != nil {
			return err
		}
		fmt.Printf("seed %d\n", seed)
	}
	if err := validator.New(rules).Validate(ctx, board, pieces); err != nil {
		return err
	}
	if combo < 0 {
		combo = board.Combo()
	}

	theme := render.DefaultTheme
	fmt.Println(render.Pieces(pieces, theme))
	fmt.Println()

	head, found, st, err := solver.NewEngine(cfg.SearchOptions()).BestSequence(ctx, board, pieces, combo)
	if err != nil {
		return err
	}
	if !found {
		fmt.Println(render.Board(board, nil, theme))
		fmt.Println("no valid move")
		return nil
	}
	fmt.Println(render.Chain(board, head, theme))
	fmt.Printf("\nscore %d  nodes %d  %s\n", head.ProjectedScore, st.Nodes, st.Duration.Round(time.Microsecond))
	return nil
}
