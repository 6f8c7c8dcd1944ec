package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"svw.info/blockpuzzle/internal/domain"
	"svw.info/blockpuzzle/internal/scorer"
	"svw.info/blockpuzzle/internal/solver"
)

// EnvPrefix is prepended to every environment override, e.g. BLOCKPUZZLE_BOARD_SIZE.
const EnvPrefix = "BLOCKPUZZLE_"

// Config carries every tunable of the engine and the binaries.
type Config struct {
	BoardSize       int
	ComboResetAfter int

	Weights                    scorer.Weights
	MovesSinceLastClearPenalty int
	LowComboPenalty            int
	EvalMode                   string // rich|simple

	Workers       int
	MaxNodes      int
	SearchTimeout time.Duration

	Addr        string
	PersistPath string
	LogLevel    string
	LogFormat   string // text|json
}

func Default() Config {
	return Config{
		BoardSize:                  8,
		ComboResetAfter:            3,
		Weights:                    scorer.DefaultWeights(),
		MovesSinceLastClearPenalty: -500,
		LowComboPenalty:            -10_000,
		EvalMode:                   "rich",
		Workers:                    runtime.NumCPU(),
		SearchTimeout:              30 * time.Second,
		Addr:                       ":8080",
		PersistPath:                "./data",
		LogLevel:                   "info",
		LogFormat:                  "text",
	}
}

// RegisterFlags binds every field to fs, using the current values as defaults.
// Call ApplyEnv first so environment values show up as flag defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.BoardSize, "board-size", c.BoardSize, "board width and height")
	fs.IntVar(&c.ComboResetAfter, "combo-reset-after", c.ComboResetAfter, "non-clearing moves before combo resets")
	fs.IntVar(&c.Weights.EmptyStraightReward, "empty-straight-reward", c.Weights.EmptyStraightReward, "score per empty row/column")
	fs.IntVar(&c.Weights.ClusteredReward, "clustered-reward", c.Weights.ClusteredReward, "score per occupied neighbour of an occupied cell")
	fs.IntVar(&c.Weights.EmptyIslandPenalty, "empty-island-penalty", c.Weights.EmptyIslandPenalty, "score per connected empty region")
	fs.IntVar(&c.Weights.EmptyCellReward, "empty-cell-reward", c.Weights.EmptyCellReward, "score per empty cell")
	fs.IntVar(&c.Weights.EdgePenalty, "edge-penalty", c.Weights.EdgePenalty, "score per empty neighbour of an occupied cell")
	fs.IntVar(&c.MovesSinceLastClearPenalty, "moves-since-clear-penalty", c.MovesSinceLastClearPenalty, "terminal score per quiet move")
	fs.IntVar(&c.LowComboPenalty, "low-combo-penalty", c.LowComboPenalty, "terminal score when the combo lapses")
	fs.StringVar(&c.EvalMode, "eval-mode", c.EvalMode, "terminal evaluation: rich|simple")
	fs.IntVar(&c.Workers, "workers", c.Workers, "parallel search workers (1 = sequential)")
	fs.IntVar(&c.MaxNodes, "max-nodes", c.MaxNodes, "placements tried before a search gives up (0 = unbounded)")
	fs.DurationVar(&c.SearchTimeout, "search-timeout", c.SearchTimeout, "wall-clock limit per search (0 = none)")
	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address")
	fs.StringVar(&c.PersistPath, "persist-path", c.PersistPath, "snapshot directory")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug|info|warn|error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "text|json")
}

// ApplyEnv overrides fields from BLOCKPUZZLE_* variables.
func (c *Config) ApplyEnv() error {
	ints := map[string]*int{
		"BOARD_SIZE":                &c.BoardSize,
		"COMBO_RESET_AFTER":         &c.ComboResetAfter,
		"EMPTY_STRAIGHT_REWARD":     &c.Weights.EmptyStraightReward,
		"CLUSTERED_REWARD":          &c.Weights.ClusteredReward,
		"EMPTY_ISLAND_PENALTY":      &c.Weights.EmptyIslandPenalty,
		"EMPTY_CELL_REWARD":         &c.Weights.EmptyCellReward,
		"EDGE_PENALTY":              &c.Weights.EdgePenalty,
		"MOVES_SINCE_CLEAR_PENALTY": &c.MovesSinceLastClearPenalty,
		"LOW_COMBO_PENALTY":         &c.LowComboPenalty,
		"WORKERS":                   &c.Workers,
		"MAX_NODES":                 &c.MaxNodes,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
	}
	strs := map[string]*string{
		"EVAL_MODE":    &c.EvalMode,
		"ADDR":         &c.Addr,
		"PERSIST_PATH": &c.PersistPath,
		"LOG_LEVEL":    &c.LogLevel,
		"LOG_FORMAT":   &c.LogFormat,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	if v, ok := lookup("SEARCH_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sSEARCH_TIMEOUT: %w", EnvPrefix, err)
		}
		c.SearchTimeout = d
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (c Config) Validate() error {
	var errs []error
	if c.BoardSize < 1 {
		errs = append(errs, fmt.Errorf("board size must be positive, got %d", c.BoardSize))
	}
	if c.ComboResetAfter < 1 {
		errs = append(errs, fmt.Errorf("combo reset threshold must be positive, got %d", c.ComboResetAfter))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.MaxNodes < 0 {
		errs = append(errs, fmt.Errorf("max nodes must not be negative, got %d", c.MaxNodes))
	}
	switch strings.ToLower(c.EvalMode) {
	case "rich", "simple":
	default:
		errs = append(errs, fmt.Errorf("eval mode must be rich or simple, got %q", c.EvalMode))
	}
	return errors.Join(errs...)
}

func (c Config) Rules() domain.Rules {
	return domain.Rules{Size: c.BoardSize, ComboResetAfter: c.ComboResetAfter}
}

func (c Config) Mode() domain.EvalMode { return domain.ParseEvalMode(c.EvalMode) }

// SearchOptions builds the engine options for this configuration.
func (c Config) SearchOptions() solver.Options {
	return solver.Options{
		Scorer:                     scorer.For(c.Mode(), c.Weights),
		MovesSinceLastClearPenalty: c.MovesSinceLastClearPenalty,
		LowComboPenalty:            c.LowComboPenalty,
		Workers:                    c.Workers,
		MaxNodes:                   c.MaxNodes,
	}
}
