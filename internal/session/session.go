package session

import (
	"github.com/yildizm/xraylab/internal/analysis"
	"github.com/yildizm/xraylab/internal/preview"
)

// Progress bounds and the default simulated cadence
const (
	MaxProgress = 100
	DefaultStep = 10
)

// State is the analysis lifecycle state
type State int

const (
	StateIdle State = iota
	StateProcessing
	StateSuccess
	StateFailed
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProcessing:
		return "processing"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// File is the handle of a user-selected file
type File struct {
	Path string
	Name string
	Size int64
}

// Token identifies one decode or one run. Completions carrying an
// outdated token are discarded. The zero token is never current.
type Token uint64

// Session owns the selected file, its preview and the analysis lifecycle.
// It is not safe for concurrent use; a single event loop drives it.
type Session struct {
	file     *File
	preview  *preview.Preview
	state    State
	progress int
	result   *analysis.Result
	message  string

	step      int
	seq       Token
	fileToken Token
	runToken  Token
}

// Option configures a Session
type Option func(*Session)

// WithStep sets the progress increment applied on each tick
func WithStep(step int) Option {
	return func(s *Session) {
		if step > 0 && step <= MaxProgress {
			s.step = step
		}
	}
}

// New creates an empty session
func New(opts ...Option) *Session {
	s := &Session{
		state: StateIdle,
		step:  DefaultStep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) next() Token {
	s.seq++
	return s.seq
}

// reset returns the lifecycle to Idle/0 and cancels any tick source or pending request
func (s *Session) reset() {
	s.state = StateIdle
	s.progress = 0
	s.result = nil
	s.message = ""
	s.runToken = 0
}

// Select replaces the current file. Any in-flight decode, tick source or
// request for the previous file is superseded. The returned token must
// accompany the preview decoded for this file.
func (s *Session) Select(f File) Token {
	s.reset()
	file := f
	s.file = &file
	s.preview = nil
	s.fileToken = s.next()
	return s.fileToken
}

// ApplyPreview stores a decoded preview if it belongs to the current file
func (s *Session) ApplyPreview(token Token, p *preview.Preview) bool {
	if s.file == nil || token == 0 || token != s.fileToken {
		return false
	}
	s.preview = p
	return true
}

// FailPreview records a decode failure for the current file
func (s *Session) FailPreview(token Token, _ error) bool {
	if s.file == nil || token == 0 || token != s.fileToken {
		return false
	}
	s.preview = nil
	s.message = MsgPreviewError
	return true
}

// Remove clears the file and preview and resets the lifecycle. Removing
// with no file selected has no further effect.
func (s *Session) Remove() {
	s.reset()
	s.file = nil
	s.preview = nil
	s.fileToken = 0
	s.next()
}

// Start enters Processing. It requires a selected file and no run in progress.
// The returned token identifies the tick source or request for this run.
func (s *Session) Start() (Token, error) {
	if s.file == nil {
		s.message = MsgNoFile
		return 0, NewSelectionError()
	}
	if s.state == StateProcessing {
		return 0, ErrAnalysisInProgress
	}

	s.state = StateProcessing
	s.progress = 0
	s.result = nil
	s.message = ""
	s.runToken = s.next()
	return s.runToken, nil
}

// Tick advances a simulated run by one step. It reports whether the tick
// source should fire again; false means the source is finished or stale.
func (s *Session) Tick(token Token) bool {
	if !s.running(token) {
		return false
	}

	s.progress += s.step
	if s.progress < MaxProgress {
		return true
	}

	s.progress = MaxProgress
	s.state = StateSuccess
	s.result = analysis.Placeholder()
	s.runToken = 0
	return false
}

// Complete finishes a run with a result produced elsewhere
func (s *Session) Complete(token Token, r *analysis.Result) bool {
	if !s.running(token) || r == nil {
		return false
	}
	s.progress = MaxProgress
	s.state = StateSuccess
	s.result = r
	s.runToken = 0
	return true
}

// Fail ends a run with a generic message; Start may be called again to retry
func (s *Session) Fail(token Token, _ error) bool {
	if !s.running(token) {
		return false
	}
	s.state = StateFailed
	s.progress = 0
	s.result = nil
	s.message = MsgProcessing
	s.runToken = 0
	return true
}

// Close discards the session contents. Outstanding tokens become stale.
func (s *Session) Close() {
	s.Remove()
}

func (s *Session) running(token Token) bool {
	return token != 0 && token == s.runToken && s.state == StateProcessing
}

// State returns the lifecycle state
func (s *Session) State() State { return s.state }

// Progress returns the current progress in [0,100]
func (s *Session) Progress() int { return s.progress }

// Step returns the per-tick increment
func (s *Session) Step() int { return s.step }

// Snapshot is a read-only view of a session
type Snapshot struct {
	File     *File
	Preview  *preview.Preview
	State    State
	Progress int
	Result   *analysis.Result
	Message  string
}

// HasFile reports whether a file is selected
func (v Snapshot) HasFile() bool { return v.File != nil }

// Snapshot copies the current session state
func (s *Session) Snapshot() Snapshot {
	var file *File
	if s.file != nil {
		f := *s.file
		file = &f
	}
	return Snapshot{
		File:     file,
		Preview:  s.preview,
		State:    s.state,
		Progress: s.progress,
		Result:   s.result,
		Message:  s.message,
	}
}

// Check verifies the session invariants
func (s *Session) Check() error {
	fail := func(reason string) error {
		return &InvariantError{State: s.state, Progress: s.progress, Reason: reason}
	}

	if s.progress < 0 || s.progress > MaxProgress {
		return fail("progress out of range")
	}
	if s.file == nil && (s.state != StateIdle || s.progress != 0) {
		return fail("no file selected but lifecycle is not idle")
	}
	if s.file == nil && s.preview != nil {
		return fail("preview without file")
	}

	switch s.state {
	case StateIdle, StateFailed:
		if s.progress != 0 {
			return fail("progress must be zero")
		}
	case StateSuccess:
		if s.progress != MaxProgress {
			return fail("success requires full progress")
		}
		if s.result == nil {
			return fail("success without result")
		}
	case StateProcessing:
		if s.runToken == 0 {
			return fail("processing without a run")
		}
	}
	return nil
}
