package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/xraylab/internal/analysis"
	"github.com/yildizm/xraylab/internal/preview"
	"github.com/yildizm/xraylab/internal/session"
)

// Message types shared by the plain and styled models. Every completion
// carries the token it was issued with; the session drops stale ones.

type fileSelectedMsg struct {
	path string
}

type previewLoadedMsg struct {
	token   session.Token
	preview *preview.Preview
	err     error
}

type tickMsg struct {
	token session.Token
}

type analysisCompleteMsg struct {
	token  session.Token
	result *analysis.Result
}

type analysisErrorMsg struct {
	token session.Token
	err   error
}

// frameMsg drives spinner animation only
type frameMsg time.Time

// selectFile asks the model to select path as if it came from the picker
func selectFile(path string) tea.Cmd {
	return func() tea.Msg {
		return fileSelectedMsg{path: path}
	}
}

func decodePreview(token session.Token, path string, maxBytes int64) tea.Cmd {
	return func() tea.Msg {
		p, err := preview.Decode(context.Background(), path, maxBytes)
		return previewLoadedMsg{token: token, preview: p, err: err}
	}
}

// scheduleTick arms one simulated progress tick for the run identified by token
func scheduleTick(token session.Token, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return tickMsg{token: token}
	})
}

// requestAnalysis performs exactly one analyzer call for the run
func requestAnalysis(ctx context.Context, token session.Token, a analysis.Analyzer, path string) tea.Cmd {
	return func() tea.Msg {
		result, err := a.Analyze(ctx, path)
		if err != nil {
			return analysisErrorMsg{token: token, err: err}
		}
		return analysisCompleteMsg{token: token, result: result}
	}
}

func animate() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
