package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/xraylab/internal/analysis"
	"github.com/yildizm/xraylab/internal/emoji"
	"github.com/yildizm/xraylab/internal/formatter"
	"github.com/yildizm/xraylab/internal/session"
	"github.com/yildizm/xraylab/internal/ui/components"
)

const contentWidth = 72

// StyledModel renders the session with a theme, a progress bar and a spinner
type StyledModel struct {
	c        *controller
	styles   *Styles
	progress *components.ProgressBar
	spinner  *components.Spinner
}

// NewStyledModel creates a new styled model
func NewStyledModel(opts Options) *StyledModel {
	theme, _ := ThemeByName(opts.Theme)
	styles := NewStyles(theme)

	bar := components.NewProgressBar(40)
	bar.ShowETA = true
	bar.FilledStyle = styles.Progress
	bar.EmptyStyle = styles.Muted

	spinner := components.NewSpinner()
	spinner.Style = styles.Progress

	return &StyledModel{
		c:        newController(opts),
		styles:   styles,
		progress: bar,
		spinner:  spinner,
	}
}

// Init initializes the styled model
func (m *StyledModel) Init() tea.Cmd {
	return tea.Batch(m.c.init(), animate())
}

// Update handles messages
func (m *StyledModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(frameMsg); ok {
		if m.c.quitting {
			return m, nil
		}
		m.spinner.Tick()
		return m, animate()
	}

	cmd := m.c.update(msg)
	m.progress.SetPercent(m.c.session.Progress())
	return m, cmd
}

// Snapshot exposes the session state after the program exits
func (m *StyledModel) Snapshot() session.Snapshot {
	return m.c.snapshot()
}

// View renders the styled model
func (m *StyledModel) View() string {
	if m.c.quitting {
		return ""
	}

	snap := m.c.snapshot()
	s := m.styles

	sections := []string{
		s.Title.Render(emoji.GetEmoji("xray") + " X-Ray Analysis Research Platform"),
		s.Disclaimer.Render(analysis.Disclaimer),
		m.renderFile(snap),
	}

	switch snap.State {
	case session.StateProcessing:
		sections = append(sections, m.renderProcessing(snap))
	case session.StateSuccess:
		sections = append(sections, m.renderResult(snap.Result))
	}

	if snap.Message != "" {
		sections = append(sections, s.Error.Render(emoji.GetEmoji("error")+" "+snap.Message))
	}
	if m.c.notice != "" {
		sections = append(sections, s.Warning.Render(emoji.GetEmoji("warning")+" "+m.c.notice))
	}
	if m.c.prompting {
		sections = append(sections, s.Input.Render("Path: "+m.c.input+"█"))
	}
	sections = append(sections, s.Muted.Render(m.c.helpLine()))

	boxed := s.Box.Width(m.boxWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))

	if m.c.width == 0 || m.c.height == 0 {
		return boxed
	}
	return lipgloss.Place(m.c.width, m.c.height, lipgloss.Center, lipgloss.Center, boxed)
}

func (m *StyledModel) boxWidth() int {
	if m.c.width > 0 && m.c.width-4 < contentWidth {
		return max(m.c.width-4, 1)
	}
	return contentWidth
}

func (m *StyledModel) renderFile(snap session.Snapshot) string {
	s := m.styles
	if !snap.HasFile() {
		return s.Muted.Render(emoji.GetEmoji("folder") + " No file selected. Press 'o' to choose an X-ray image.")
	}

	lines := []string{
		fmt.Sprintf("%s %s %s", emoji.GetEmoji("file"), s.Body.Bold(true).Render(snap.File.Name), s.Muted.Render(formatSize(snap.File.Size))),
	}
	if snap.Preview != nil {
		lines = append(lines, s.Info.Render(emoji.GetEmoji("image")+" "+describePreview(snap)))
	} else if snap.Message == "" {
		lines = append(lines, s.Muted.Render("Loading preview..."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *StyledModel) renderProcessing(snap session.Snapshot) string {
	if m.c.remote() {
		m.spinner.SetLabel("Waiting for the analysis service...")
		return m.spinner.Render()
	}
	m.progress.SetLabel(m.styles.Warning.Render(emoji.GetEmoji("processing") + " Analyzing image"))
	return m.progress.Render()
}

func (m *StyledModel) renderResult(r *analysis.Result) string {
	s := m.styles
	if r == nil {
		return s.Error.Render("Result unavailable")
	}

	lines := []string{
		s.Header.Render(emoji.GetEmoji("success") + " Analysis Results"),
		fmt.Sprintf("%s Confidence: %s", emoji.GetEmoji("confidence"), s.Success.Render(formatter.FormatConfidence(r.ConfidenceScore))),
		s.Header.Render(emoji.GetEmoji("findings") + " Findings"),
	}
	lines = append(lines, numberedLines(r.Findings, s.Body)...)

	lines = append(lines, s.Header.Render(emoji.GetEmoji("recommendations")+" Recommendations"))
	lines = append(lines, numberedLines(r.Recommendations, s.Body)...)

	if len(r.Metadata) > 0 {
		lines = append(lines, s.Header.Render(emoji.GetEmoji("metadata")+" Metadata"))
		for _, kv := range r.Metadata {
			lines = append(lines, "  "+s.Muted.Render(kv.Key+":")+" "+kv.Value)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func numberedLines(items []string, style lipgloss.Style) []string {
	if len(items) == 0 {
		return []string{"  (none)"}
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		out = append(out, style.Render(fmt.Sprintf("  %d. %s", i+1, strings.TrimSpace(item))))
	}
	return out
}
