package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/yildizm/xraylab/internal/analysis"
	"github.com/yildizm/xraylab/internal/config"
	"github.com/yildizm/xraylab/internal/emoji"
	"github.com/yildizm/xraylab/internal/monitor"
	"github.com/yildizm/xraylab/internal/preview"
)

var (
	watchSettle time.Duration
	watchMode   string
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Analyze X-ray images as they arrive in a directory",
		Long: `Monitor a directory and analyze every accepted image written into it.

Uses file system notifications to detect new or rewritten files. A file is
analyzed once it has stopped changing for the settle period. Press Ctrl+C
to stop watching.

Examples:
  xraylab watch ./incoming
  xraylab watch --mode remote --output json ./incoming`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().DurationVar(&watchSettle, "settle", 500*time.Millisecond, "quiet period before a changed file is analyzed")
	cmd.Flags().StringVarP(&watchMode, "mode", "m", "", "analysis mode (simulated, remote)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if watchMode != "" {
		cfg.Analysis.Mode = watchMode
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}

	watcher, err := setupDirWatcher(dir)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "%s Watching %s (Ctrl+C to stop)\n", emoji.GetEmoji("watch"), dir)

	w := newDirWatch(cfg, analyzer, cmd.OutOrStdout(), cmd.ErrOrStderr(), watchSettle)
	err = w.loop(ctx, watcher.Events, watcher.Errors)
	w.summary()
	return err
}

// dirWatch analyzes settled files reported by a watcher
type dirWatch struct {
	cfg      *config.Config
	analyzer analysis.Analyzer
	out      io.Writer
	errOut   io.Writer
	queue    *settleQueue
	stats    *monitor.Stats
}

func newDirWatch(cfg *config.Config, analyzer analysis.Analyzer, out, errOut io.Writer, settle time.Duration) *dirWatch {
	return &dirWatch{
		cfg:      cfg,
		analyzer: analyzer,
		out:      out,
		errOut:   errOut,
		queue:    newSettleQueue(settle),
		stats:    monitor.NewStats(),
	}
}

// loop runs until ctx is done or a watcher channel closes
func (w *dirWatch) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	ticker := time.NewTicker(max(w.queue.settle/2, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if isVerbose() {
				fmt.Fprintf(w.errOut, "\nStopping watch...\n")
			}
			return nil

		case event, ok := <-events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			handleWatchEvent(event, w.queue, time.Now())

		case err, ok := <-errs:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			if isVerbose() {
				fmt.Fprintf(w.errOut, "Watcher error: %v\n", err)
			}

		case now := <-ticker.C:
			for _, path := range w.queue.ready(now) {
				w.analyze(ctx, path)
			}
		}
	}
}

// analyze runs one headless analysis and prints it with a file header
func (w *dirWatch) analyze(ctx context.Context, path string) {
	done := w.stats.Track()
	output, err := analyzeHeadless(ctx, w.cfg, path, w.analyzer, nil)
	done(err, false)
	if err != nil {
		fmt.Fprintf(w.errOut, "%s %s: %v\n", emoji.GetEmoji("error"), filepath.Base(path), err)
		return
	}

	fmt.Fprintf(w.out, "%s %s\n", emoji.GetEmoji("file"), path)
	_, _ = w.out.Write(output)
	fmt.Fprintln(w.out)
}

// summary reports how many files were analyzed
func (w *dirWatch) summary() {
	snap := w.stats.Snapshot()
	fmt.Fprintf(w.errOut, "%s Analyzed %d file(s), %d failed, in %s\n",
		emoji.GetEmoji("research"), snap.Completed, snap.Failed, snap.Uptime)
}

// handleWatchEvent queues accepted images that were created or written
func handleWatchEvent(event fsnotify.Event, q *settleQueue, now time.Time) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !preview.IsAccepted(event.Name) {
		return
	}
	q.add(event.Name, now)
}

// settleQueue holds paths until they stop changing for the settle period
type settleQueue struct {
	settle  time.Duration
	pending map[string]time.Time
}

func newSettleQueue(settle time.Duration) *settleQueue {
	if settle <= 0 {
		settle = 500 * time.Millisecond
	}
	return &settleQueue{settle: settle, pending: make(map[string]time.Time)}
}

// add records the latest change of path
func (q *settleQueue) add(path string, at time.Time) {
	q.pending[path] = at
}

// ready removes and returns the settled paths in name order
func (q *settleQueue) ready(now time.Time) []string {
	var paths []string
	for path, at := range q.pending {
		if now.Sub(at) >= q.settle {
			paths = append(paths, path)
		}
	}
	for _, path := range paths {
		delete(q.pending, path)
	}
	sort.Strings(paths)
	return paths
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}

// setupDirWatcher validates dir and starts watching it
func setupDirWatcher(dir string) (*fsnotify.Watcher, error) {
	if err := validateWatchDir(dir); err != nil {
		return nil, fmt.Errorf("invalid watch directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Clean(dir)); err != nil {
		cleanupWatcher(watcher)
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return watcher, nil
}

// validateWatchDir validates that a path is a directory that can be watched
func validateWatchDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty directory path")
	}

	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", cleanPath)
	}

	return nil
}
