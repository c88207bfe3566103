package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/xraylab/internal/analysis"
	"github.com/yildizm/xraylab/internal/formatter"
	"github.com/yildizm/xraylab/internal/session"
)

// PlainModel renders the session as unstyled text
type PlainModel struct {
	c    *controller
	text formatter.Formatter
}

// NewPlainModel creates a new plain model
func NewPlainModel(opts Options) *PlainModel {
	return &PlainModel{
		c:    newController(opts),
		text: formatter.NewText(),
	}
}

// Init initializes the plain model
func (m *PlainModel) Init() tea.Cmd {
	return m.c.init()
}

// Update handles messages
func (m *PlainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, m.c.update(msg)
}

// Snapshot exposes the session state after the program exits
func (m *PlainModel) Snapshot() session.Snapshot {
	return m.c.snapshot()
}

// View renders the plain model
func (m *PlainModel) View() string {
	if m.c.quitting {
		return ""
	}

	snap := m.c.snapshot()
	var b strings.Builder

	b.WriteString("X-Ray Analysis (research prototype)\n")
	b.WriteString(analysis.Disclaimer + "\n\n")

	if snap.HasFile() {
		fmt.Fprintf(&b, "File: %s (%s)\n", snap.File.Name, formatSize(snap.File.Size))
		if snap.Preview != nil {
			fmt.Fprintf(&b, "Preview: %s\n", describePreview(snap))
		}
	} else {
		b.WriteString("No file selected\n")
	}

	switch snap.State {
	case session.StateProcessing:
		if m.c.remote() {
			b.WriteString("\nAnalyzing... waiting for service\n")
		} else {
			fmt.Fprintf(&b, "\nAnalyzing... %s\n", textBar(snap.Progress, 20))
		}
	case session.StateSuccess:
		b.WriteString("\n")
		b.WriteString(m.renderResult(snap.Result))
	}

	if snap.Message != "" {
		fmt.Fprintf(&b, "\n! %s\n", snap.Message)
	}
	if m.c.notice != "" {
		fmt.Fprintf(&b, "\n%s\n", m.c.notice)
	}

	if m.c.prompting {
		fmt.Fprintf(&b, "\nPath: %s_\n", m.c.input)
	}
	fmt.Fprintf(&b, "\n%s\n", m.c.helpLine())

	return b.String()
}

func (m *PlainModel) renderResult(r *analysis.Result) string {
	out, err := m.text.Format(r)
	if err != nil {
		return "Result unavailable\n"
	}
	return string(out)
}

// textBar draws a bar with no styling, e.g. [########------------] 40%
func textBar(progress, width int) string {
	filled := width * progress / session.MaxProgress
	return fmt.Sprintf("[%s%s] %d%%", strings.Repeat("#", filled), strings.Repeat("-", width-filled), progress)
}

func describePreview(snap session.Snapshot) string {
	p := snap.Preview
	parts := []string{p.MIMEType}
	if p.HasDimensions() {
		parts = append(parts, fmt.Sprintf("%dx%d", p.Width, p.Height))
	}
	if p.Truncated {
		parts = append(parts, "too large to display")
	}
	return strings.Join(parts, ", ")
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}
