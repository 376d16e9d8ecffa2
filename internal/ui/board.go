// internal/ui/board.go
package ui

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jdai1/codenames/internal/models"
)

// boardColumns picks a near-square grid for n cards (25 cards render 5x5).
func boardColumns(n int) int {
	if n <= 0 {
		return 1
	}
	return int(math.Ceil(math.Sqrt(float64(n))))
}

// cardStyle picks the style for one card. Unrevealed cards with no known
// color (the operative view) render neutral; a known color renders in that
// color whether it came from a reveal or the spymaster projection.
func (t theme) cardStyle(c models.Card) lipgloss.Style {
	if c.Color == nil {
		return t.cardHidden
	}
	switch *c.Color {
	case models.CardRed:
		return t.cardRed
	case models.CardBlue:
		return t.cardBlue
	case models.CardBlack:
		return t.cardBlack
	default:
		return t.cardGray
	}
}

// renderBoard lays the cards out in a grid. Revealed cards keep their color
// but are struck through so remaining words stand out.
func renderBoard(state *models.GameState, t theme) string {
	if state == nil || len(state.Board) == 0 {
		return t.help.Render("no board yet")
	}

	width := 0
	for _, c := range state.Board {
		if len(c.Word) > width {
			width = len(c.Word)
		}
	}

	cols := boardColumns(len(state.Board))
	var rows []string
	for start := 0; start < len(state.Board); start += cols {
		end := start + cols
		if end > len(state.Board) {
			end = len(state.Board)
		}
		cells := make([]string, 0, cols)
		for _, c := range state.Board[start:end] {
			style := t.cardStyle(c)
			if c.Revealed {
				style = style.Strikethrough(true).Faint(true)
			}
			word := c.Word + strings.Repeat(" ", width-len(c.Word))
			cells = append(cells, style.Render(word))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

// renderScore renders "RED 3/9  BLUE 1/8" with team colors.
func renderScore(score models.Score, t theme) string {
	return t.teamRed.Render("RED") + " " + scoreFraction(score.Red) +
		"  " + t.teamBlue.Render("BLUE") + " " + scoreFraction(score.Blue)
}

func scoreFraction(s models.TeamScore) string {
	return strconv.Itoa(s.Revealed) + "/" + strconv.Itoa(s.Total)
}
