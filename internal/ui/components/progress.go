package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders analysis progress in [0,100]
type ProgressBar struct {
	Width     int
	Percent   int
	StartTime time.Time
	ShowETA   bool
	Label     string

	FilledStyle lipgloss.Style
	EmptyStyle  lipgloss.Style

	now func() time.Time
}

// NewProgressBar creates a new progress bar
func NewProgressBar(width int) *ProgressBar {
	return &ProgressBar{
		Width:       width,
		StartTime:   time.Now(),
		FilledStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
		EmptyStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
		now:         time.Now,
	}
}

// SetPercent updates the progress, clamped to [0,100]
func (p *ProgressBar) SetPercent(percent int) {
	switch {
	case percent < 0:
		percent = 0
	case percent > 100:
		percent = 100
	}
	if percent == 0 || p.Percent == 0 && percent > 0 {
		p.StartTime = p.now()
	}
	p.Percent = percent
}

// SetLabel sets the progress label
func (p *ProgressBar) SetLabel(label string) {
	p.Label = label
}

// Render renders the progress bar
func (p *ProgressBar) Render() string {
	filledWidth := p.Width * p.Percent / 100
	emptyWidth := p.Width - filledWidth

	bar := p.FilledStyle.Render(strings.Repeat("█", filledWidth)) +
		p.EmptyStyle.Render(strings.Repeat("░", emptyWidth))

	result := fmt.Sprintf("[%s] %3d%%", bar, p.Percent)

	if p.ShowETA && p.Percent > 0 && p.Percent < 100 {
		elapsed := p.now().Sub(p.StartTime)
		remaining := time.Duration(float64(elapsed) * float64(100-p.Percent) / float64(p.Percent))
		if remaining > 0 {
			result += " ETA: " + formatDuration(remaining)
		}
	}

	if p.Label != "" {
		result = p.Label + "\n" + result
	}

	return result
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%.0fm", d.Minutes())
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is shown while waiting on a request with no measurable progress
type Spinner struct {
	Frame int
	Label string
	Style lipgloss.Style
}

// NewSpinner creates a new spinner
func NewSpinner() *Spinner {
	return &Spinner{
		Style: lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
	}
}

// SetLabel sets the spinner label
func (s *Spinner) SetLabel(label string) {
	s.Label = label
}

// Tick advances the spinner animation
func (s *Spinner) Tick() {
	s.Frame = (s.Frame + 1) % len(spinnerFrames)
}

// Render renders the spinner
func (s *Spinner) Render() string {
	spinner := s.Style.Render(spinnerFrames[s.Frame%len(spinnerFrames)])
	if s.Label != "" {
		return spinner + " " + s.Label
	}
	return spinner
}
