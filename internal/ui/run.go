package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/xraylab/internal/config"
	"github.com/yildizm/xraylab/internal/session"
)

// SessionModel is a tea.Model backed by an analysis session
type SessionModel interface {
	tea.Model
	Snapshot() session.Snapshot
}

// NewModel picks the plain or styled model for opts.Style
func NewModel(opts Options) SessionModel {
	if opts.Style == config.StylePlain {
		return NewPlainModel(opts)
	}
	return NewStyledModel(opts)
}

// Run runs the interactive session until the user quits
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
