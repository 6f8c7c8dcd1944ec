package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"svw.info/blockpuzzle/internal/domain"
)

type Theme struct {
	Name        string
	BorderColor lipgloss.Color
	TextColor   lipgloss.Color
	FilledColor lipgloss.Color
	EmptyColor  lipgloss.Color
	AccentColor lipgloss.Color
}

var DefaultTheme = Theme{
	Name:        "Classic",
	BorderColor: lipgloss.Color("15"),
	TextColor:   lipgloss.Color("250"),
	FilledColor: lipgloss.Color("33"),
	EmptyColor:  lipgloss.Color("236"),
	AccentColor: lipgloss.Color("226"),
}

const cellGlyph = "██"

func cellStyle(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

func boardStyle(t Theme) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.BorderColor)
}

func captionStyle(t Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.TextColor)
}

// Board draws the grid; highlighted cells are drawn in the accent colour.
func Board(b *domain.Board, highlight []domain.CellCoord, t Theme) string {
	hl := make(map[domain.CellCoord]bool, len(highlight))
	for _, c := range highlight {
		hl[c] = true
	}
	filled := cellStyle(t.FilledColor)
	empty := cellStyle(t.EmptyColor)
	accent := cellStyle(t.AccentColor)

	rows := make([]string, b.Size())
	for r := 0; r < b.Size(); r++ {
		var sb strings.Builder
		for c := 0; c < b.Size(); c++ {
			switch {
			case hl[domain.CellCoord{Row: r, Col: c}]:
				sb.WriteString(accent.Render(cellGlyph))
			case b.Occupied(r, c):
				sb.WriteString(filled.Render(cellGlyph))
			default:
				sb.WriteString(empty.Render(cellGlyph))
			}
		}
		rows[r] = sb.String()
	}
	grid := boardStyle(t).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	status := captionStyle(t).Render(fmt.Sprintf("combo %d  quiet %d", b.Combo(), b.MovesSinceLastClear()))
	return lipgloss.JoinVertical(lipgloss.Left, grid, status)
}

// Piece draws a single piece in its bounding box.
func Piece(p *domain.Piece, t Theme) string {
	grid := make([][]bool, p.Height())
	for r := range grid {
		grid[r] = make([]bool, p.Width())
	}
	for _, c := range p.Cells() {
		grid[c.Row][c.Col] = true
	}
	filled := cellStyle(t.FilledColor)
	rows := make([]string, len(grid))
	for r, line := range grid {
		var sb strings.Builder
		for _, on := range line {
			if on {
				sb.WriteString(filled.Render(cellGlyph))
			} else {
				sb.WriteString("  ")
			}
		}
		rows[r] = sb.String()
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Pieces lays a batch out side by side.
func Pieces(ps []*domain.Piece, t Theme) string {
	items := make([]string, 0, len(ps))
	for _, p := range ps {
		items = append(items, lipgloss.NewStyle().MarginRight(2).Render(Piece(p, t)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

// Chain renders the board before each move with that move highlighted,
// followed by the final board.
func Chain(b *domain.Board, head *domain.Move, t Theme) string {
	cur := b.Clone()
	var frames []string
	step := 1
	for m := head; m != nil; step++ {
		title := captionStyle(t).Render(fmt.Sprintf("step %d: row %d col %d  (projected %d)", step, m.X, m.Y, m.ProjectedScore))
		frames = append(frames, lipgloss.JoinVertical(lipgloss.Left, title, Board(cur, m.Cells(), t)))
		cur.ApplyPiece(m.Piece, m.X, m.Y)
		m, _ = m.Next()
	}
	frames = append(frames, lipgloss.JoinVertical(lipgloss.Left, captionStyle(t).Render("result"), Board(cur, nil, t)))
	return strings.Join(frames, "\n\n")
}
