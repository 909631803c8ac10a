package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-flappy/internal/game"
)

var (
	pipeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	birdStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	groundStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	plainStyle  = lipgloss.NewStyle()

	hudStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	toastStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(1, 3)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	highlightText = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

type cellClass int

const (
	classPlain cellClass = iota
	classPipe
	classBird
	classGround
)

var classStyles = [...]lipgloss.Style{
	classPlain:  plainStyle,
	classPipe:   pipeStyle,
	classBird:   birdStyle,
	classGround: groundStyle,
}

func classify(r rune) cellClass {
	switch r {
	case game.PipeChar, game.PipeCapTop, game.PipeCapBottom:
		return classPipe
	case game.BirdChar, game.BirdBodyChar:
		return classBird
	case game.GroundChar:
		return classGround
	default:
		return classPlain
	}
}

// renderCanvas converts the canvas to a styled string. Adjacent cells of
// the same class share one escape sequence.
func renderCanvas(c *game.Canvas) string {
	var sb strings.Builder
	sb.Grow(c.Width()*c.Height()*2 + c.Height())

	for y := 0; y < c.Height(); y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		x := 0
		for x < c.Width() {
			class := classify(c.Get(x, y))
			var run strings.Builder
			for x < c.Width() && classify(c.Get(x, y)) == class {
				run.WriteRune(c.Get(x, y))
				x++
			}
			sb.WriteString(classStyles[class].Render(run.String()))
		}
	}
	return sb.String()
}

// centerText pads text to be centered within width.
func centerText(text string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
}
