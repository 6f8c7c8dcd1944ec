package domain

import "strings"

// EvalMode selects how a board is scored.
type EvalMode int

const (
	EvalRich   EvalMode = iota // weighted heuristic (empty lines, clustering, edges, islands)
	EvalSimple                 // count of occupied cells
)

func (m EvalMode) String() string {
	if m == EvalSimple {
		return "simple"
	}
	return "rich"
}

// ParseEvalMode maps a user string to a mode; anything unknown is rich.
func ParseEvalMode(s string) EvalMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple":
		return EvalSimple
	default:
		return EvalRich
	}
}
