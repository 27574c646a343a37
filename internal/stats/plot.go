package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Bar is one labeled row of a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
	Text  string
}

const (
	minBarWidth         = 10
	barFill             = "█"
	barEmpty            = "░"
	terminalWidthBackup = 80
)

var barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

// PlotBars renders a horizontal bar chart scaled to maxValue.
func PlotBars(w io.Writer, title string, bars []Bar, maxValue float64, totalWidth int, forceColor bool) error {
	if len(bars) == 0 {
		return nil
	}
	labelWidth, textWidth := 0, 0
	for _, b := range bars {
		labelWidth = max(labelWidth, displayWidth(b.Label))
		textWidth = max(textWidth, displayWidth(b.Text))
	}
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}
	width := BarWidthFor(totalWidth, labelWidth, textWidth)
	useColor := shouldUseColor(w, forceColor)

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for _, b := range bars {
		filled := barCells(b.Value, maxValue, width)
		bar := strings.Repeat(barFill, filled)
		if useColor {
			bar = barStyle.Render(bar)
		}
		line := padCell(b.Label, labelWidth, false) + " " + bar + strings.Repeat(barEmpty, width-filled) + " " + b.Text
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// BarWidthFor computes how many cells a bar may use within totalWidth.
func BarWidthFor(totalWidth, labelWidth, textWidth int) int {
	return max(minBarWidth, totalWidth-labelWidth-textWidth-2)
}

func barCells(value, maxValue float64, width int) int {
	if maxValue <= 0 || math.IsNaN(value) || value <= 0 {
		return 0
	}
	cells := int(math.Round(value / maxValue * float64(width)))
	return max(0, min(width, cells))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
