package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

type stateStub string

func (s stateStub) String() string { return string(s) }

func newTestLogger(verbose bool) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewWithCallback("session", func() bool { return verbose })
	l.SetOutput(&buf)
	l.now = func() time.Time { return time.Date(2026, 1, 2, 10, 11, 12, 345000000, time.UTC) }
	return l, &buf
}

func TestLogger_VerboseGating(t *testing.T) {
	l, buf := newTestLogger(false)

	l.Debug("hidden")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("Expected no output when not verbose, got %q", buf.String())
	}

	l.Warn("shown %d", 1)
	l.Error("shown %d", 2)

	out := buf.String()
	if !strings.Contains(out, "WARN [session] shown 1") {
		t.Errorf("Missing warn line: %q", out)
	}
	if !strings.Contains(out, "ERROR [session] shown 2") {
		t.Errorf("Missing error line: %q", out)
	}
}

func TestLogger_Format(t *testing.T) {
	l, buf := newTestLogger(true)

	l.InfoWithFields("analysis finished", []Field{
		FileField("chest1.png"),
		StateField(stateStub("success")),
		ProgressField(100),
		Duration(2 * time.Second),
	})

	want := "[10:11:12.345] INFO [session] analysis finished [file=chest1.png state=success progress=100% duration=2s]\n"
	if buf.String() != want {
		t.Errorf("got %q\nwant %q", buf.String(), want)
	}
}

func TestLogger_PercentWithoutArgs(t *testing.T) {
	l, buf := newTestLogger(true)

	l.Info("progress at 50%")
	if !strings.Contains(buf.String(), "progress at 50%\n") {
		t.Errorf("Message without args should be written verbatim: %q", buf.String())
	}
}

func TestLogger_WithComponentSharesOutput(t *testing.T) {
	l, buf := newTestLogger(false)
	child := l.WithComponent("server")

	var redirected bytes.Buffer
	child.SetOutput(&redirected)
	l.ErrorWithFields("upload rejected", []Field{Error(errors.New("too large"))})

	if buf.Len() != 0 {
		t.Errorf("Parent should follow redirected output")
	}
	if !strings.Contains(redirected.String(), "[session] upload rejected [error=too large]") {
		t.Errorf("Unexpected output: %q", redirected.String())
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing")
	if l.Verbose() {
		t.Error("Discard logger should not be verbose")
	}
}
