package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/vitaminmoo/hexpeek/internal/util"
)

// Gauge shows how much of the classification sample was non-text, scaled so
// that a full bar is twice the binary threshold.
type Gauge struct {
	text   progress.Model
	binary progress.Model
	class  util.Classification
	active bool
}

// NewGauge creates an empty gauge.
func NewGauge() Gauge {
	return Gauge{
		text: progress.New(
			progress.WithSolidFill("#73F59F"),
			progress.WithWidth(30),
			progress.WithoutPercentage(),
		),
		binary: progress.New(
			progress.WithSolidFill("#FF6B6B"),
			progress.WithWidth(30),
			progress.WithoutPercentage(),
		),
	}
}

// Set shows c on the gauge.
func (g *Gauge) Set(c util.Classification) {
	g.class = c
	g.active = true
}

// Clear hides the gauge.
func (g *Gauge) Clear() {
	g.active = false
}

// IsActive returns whether the gauge has a classification to show.
func (g *Gauge) IsActive() bool {
	return g.active
}

// Percent is the bar fill in [0, 1].
func (g Gauge) Percent() float64 {
	if g.class.SampleLen == 0 {
		return 0
	}
	// threshold is 5% of the sample; the bar spans 0-10%
	scale := float64(g.class.SampleLen) / 10
	return min(float64(g.class.NonText)/scale, 1)
}

// View renders the bar and the counts behind it.
func (g Gauge) View() string {
	if !g.active {
		return ""
	}
	bar := g.text
	if g.class.Binary {
		bar = g.binary
	}
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	desc := fmt.Sprintf("non-text %d/%d, threshold %d", g.class.NonText, g.class.SampleLen, g.class.Threshold)
	return bar.ViewAs(g.Percent()) + " " + descStyle.Render(desc)
}
