package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/xraylab/internal/analysis"
	"github.com/yildizm/xraylab/internal/config"
	"github.com/yildizm/xraylab/internal/logger"
	"github.com/yildizm/xraylab/internal/preview"
	"github.com/yildizm/xraylab/internal/session"
)

// Options configures an interactive session
type Options struct {
	// Path is selected on start when set
	Path string

	// Mode is config.ModeSimulated or config.ModeRemote
	Mode     string
	Analyzer analysis.Analyzer

	TickInterval    time.Duration
	Step            int
	MaxPreviewBytes int64

	// Style is config.StylePlain or config.StyleStyled
	Style string
	Theme string

	Logger *logger.Logger
}

// controller owns the session and applies every state transition.
// Both models delegate to it and differ only in rendering.
type controller struct {
	session *session.Session
	opts    Options
	log     *logger.Logger

	prompting bool
	input     string

	// notice is a transient line that is not part of the session, e.g. a bad path
	notice string

	cancelRun context.CancelFunc
	quitting  bool
	width     int
	height    int
}

func newController(opts Options) *controller {
	if opts.Mode == "" {
		opts.Mode = config.ModeSimulated
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = 200 * time.Millisecond
	}
	if opts.MaxPreviewBytes <= 0 {
		opts.MaxPreviewBytes = preview.DefaultMaxBytes
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	return &controller{
		session: session.New(session.WithStep(opts.Step)),
		opts:    opts,
		log:     log.WithComponent("ui"),
	}
}

func (c *controller) init() tea.Cmd {
	if c.opts.Path != "" {
		return selectFile(c.opts.Path)
	}
	return nil
}

func (c *controller) remote() bool {
	return c.opts.Mode == config.ModeRemote && c.opts.Analyzer != nil
}

func (c *controller) snapshot() session.Snapshot {
	return c.session.Snapshot()
}

// update applies msg and returns the follow-up command, if any
func (c *controller) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height

	case tea.KeyMsg:
		return c.handleKey(msg)

	case fileSelectedMsg:
		return c.choose(msg.path)

	case previewLoadedMsg:
		if msg.err != nil {
			if c.session.FailPreview(msg.token, msg.err) {
				c.log.WarnWithFields("preview failed", []logger.Field{logger.Error(msg.err)})
			}
			return nil
		}
		c.session.ApplyPreview(msg.token, msg.preview)

	case tickMsg:
		if c.session.Tick(msg.token) {
			return scheduleTick(msg.token, c.opts.TickInterval)
		}

	case analysisCompleteMsg:
		if c.session.Complete(msg.token, msg.result) {
			c.stopRequest()
		}

	case analysisErrorMsg:
		if c.session.Fail(msg.token, msg.err) {
			c.stopRequest()
			c.log.WarnWithFields("remote analysis failed", []logger.Field{logger.Error(msg.err)})
		}
	}

	return nil
}

func (c *controller) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return c.quit()
	}
	if c.prompting {
		return c.handlePromptKey(msg)
	}

	switch msg.String() {
	case "q", "esc":
		return c.quit()
	case "o":
		c.prompting = true
		c.input = ""
		c.notice = ""
	case "a", "enter":
		return c.start()
	case "x", "delete":
		c.stopRequest()
		c.session.Remove()
		c.notice = ""
	}
	return nil
}

func (c *controller) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		c.prompting = false
		path := strings.TrimSpace(c.input)
		c.input = ""
		if path == "" {
			return nil
		}
		return selectFile(path)
	case tea.KeyEsc:
		c.prompting = false
		c.input = ""
	case tea.KeyBackspace:
		if r := []rune(c.input); len(r) > 0 {
			c.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		c.input += " "
	case tea.KeyRunes:
		c.input += string(msg.Runes)
	}
	return nil
}

// choose replaces the selected file and starts decoding its preview
func (c *controller) choose(path string) tea.Cmd {
	path = expandHome(path)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		c.notice = fmt.Sprintf("Cannot open %s", path)
		return nil
	}

	c.stopRequest()
	c.notice = ""
	if !preview.IsAccepted(path) {
		c.notice = "Unusual file type; expected .jpg, .jpeg, .png or .dcm"
	}

	file := session.File{Path: path, Name: filepath.Base(path), Size: info.Size()}
	token := c.session.Select(file)
	c.log.DebugWithFields("file selected", []logger.Field{logger.FileField(file.Name)})

	return decodePreview(token, path, c.opts.MaxPreviewBytes)
}

// start begins a run, or surfaces why it cannot
func (c *controller) start() tea.Cmd {
	token, err := c.session.Start()
	if err != nil {
		if errors.Is(err, session.ErrAnalysisInProgress) {
			return nil
		}
		// the session already carries the user-facing message
		c.log.Debug("start rejected: %v", err)
		return nil
	}

	c.notice = ""
	c.log.InfoWithFields("analysis started", []logger.Field{logger.F("mode", c.opts.Mode)})

	if c.remote() {
		ctx, cancel := context.WithCancel(context.Background())
		c.cancelRun = cancel
		return requestAnalysis(ctx, token, c.opts.Analyzer, c.snapshot().File.Path)
	}
	return scheduleTick(token, c.opts.TickInterval)
}

func (c *controller) stopRequest() {
	if c.cancelRun != nil {
		c.cancelRun()
		c.cancelRun = nil
	}
}

// quit unmounts the session so no later completion can touch it
func (c *controller) quit() tea.Cmd {
	c.stopRequest()
	c.session.Close()
	c.quitting = true
	return tea.Quit
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// helpLine lists the keys valid in the current state
func (c *controller) helpLine() string {
	if c.prompting {
		return "enter: select • esc: cancel"
	}
	keys := []string{"o: open"}
	snap := c.snapshot()
	if snap.HasFile() && snap.State != session.StateProcessing {
		keys = append(keys, "a: analyze")
	}
	if snap.HasFile() {
		keys = append(keys, "x: remove")
	}
	keys = append(keys, "q: quit")
	return strings.Join(keys, " • ")
}
