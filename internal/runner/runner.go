// Package runner drives a session to completion without a terminal UI.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yildizm/xraylab/internal/analysis"
	"github.com/yildizm/xraylab/internal/logger"
	"github.com/yildizm/xraylab/internal/preview"
	"github.com/yildizm/xraylab/internal/session"
)

// DefaultTickInterval is the simulated progress cadence
const DefaultTickInterval = 200 * time.Millisecond

// Options configures one headless run
type Options struct {
	Path string

	// Analyzer produces the result remotely. When nil the run is
	// simulated: progress advances by Step every TickInterval.
	Analyzer     analysis.Analyzer
	TickInterval time.Duration
	Step         int

	MaxPreviewBytes int64

	// OnProgress is called after every progress change
	OnProgress func(progress int)

	Logger *logger.Logger
}

// Outcome is what a finished run leaves behind
type Outcome struct {
	Result   *analysis.Result
	Snapshot session.Snapshot
	Elapsed  time.Duration
}

// Run selects the file, decodes its preview, and analyzes it. The session is
// closed before returning, so the snapshot is taken just before that.
func Run(ctx context.Context, opts Options) (*Outcome, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	log = log.WithComponent("runner")

	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.MaxPreviewBytes <= 0 {
		opts.MaxPreviewBytes = preview.DefaultMaxBytes
	}

	s := session.New(session.WithStep(opts.Step))
	defer s.Close()

	if opts.Path != "" {
		file, err := statFile(opts.Path)
		if err != nil {
			return nil, err
		}
		fileToken := s.Select(file)
		log.DebugWithFields("file selected", []logger.Field{logger.FileField(file.Name), logger.F("size", file.Size)})

		p, err := preview.Decode(ctx, file.Path, opts.MaxPreviewBytes)
		if err != nil {
			s.FailPreview(fileToken, err)
			log.WarnWithFields("preview unavailable", []logger.Field{logger.FileField(file.Name), logger.Error(err)})
		} else {
			s.ApplyPreview(fileToken, p)
		}
	}

	start := time.Now()
	runToken, err := s.Start()
	if err != nil {
		return nil, err
	}
	log.InfoWithFields("analysis started", []logger.Field{logger.StateField(s.State())})

	if opts.Analyzer != nil {
		err = runRemote(ctx, s, runToken, opts)
	} else {
		err = runSimulated(ctx, s, runToken, opts)
	}

	snap := s.Snapshot()
	elapsed := time.Since(start)
	if err != nil {
		log.ErrorWithFields("analysis failed", []logger.Field{logger.StateField(snap.State), logger.Error(err), logger.Duration(elapsed)})
		return nil, err
	}

	log.InfoWithFields("analysis finished", []logger.Field{
		logger.StateField(snap.State),
		logger.ProgressField(snap.Progress),
		logger.Duration(elapsed),
	})

	return &Outcome{Result: snap.Result, Snapshot: snap, Elapsed: elapsed}, nil
}

func runSimulated(ctx context.Context, s *session.Session, token session.Token, opts Options) error {
	ticker := time.NewTicker(opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("analysis interrupted: %w", ctx.Err())
		case <-ticker.C:
			more := s.Tick(token)
			report(opts, s.Progress())
			if !more {
				if s.State() != session.StateSuccess {
					return fmt.Errorf("analysis stopped in state %s", s.State())
				}
				return nil
			}
		}
	}
}

func runRemote(ctx context.Context, s *session.Session, token session.Token, opts Options) error {
	result, err := opts.Analyzer.Analyze(ctx, opts.Path)
	if err != nil {
		s.Fail(token, err)
		return err
	}
	if !s.Complete(token, result) {
		return errors.New("analysis returned no result")
	}
	report(opts, s.Progress())
	return nil
}

func report(opts Options, progress int) {
	if opts.OnProgress != nil {
		opts.OnProgress(progress)
	}
}

func statFile(path string) (session.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return session.File{}, fmt.Errorf("cannot open %s: %w", path, err)
	}
	if info.IsDir() {
		return session.File{}, fmt.Errorf("%s is a directory", path)
	}
	return session.File{Path: path, Name: filepath.Base(path), Size: info.Size()}, nil
}
