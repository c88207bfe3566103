package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/yildizm/xraylab/internal/analysis"
	"github.com/yildizm/xraylab/internal/client"
	"github.com/yildizm/xraylab/internal/config"
	"github.com/yildizm/xraylab/internal/formatter"
	"github.com/yildizm/xraylab/internal/logger"
	"github.com/yildizm/xraylab/internal/runner"
	"github.com/yildizm/xraylab/internal/session"
	"github.com/yildizm/xraylab/internal/ui"
)

var (
	analyzeMode       string
	analyzeStyle      string
	analyzeTheme      string
	analyzeServer     string
	analyzeTimeout    time.Duration
	analyzeNoTUI      bool
	analyzeOutputFile string
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze an X-ray image",
		Long: `Select an X-ray image and run an analysis on it.

By default an interactive terminal UI opens. Press 'o' to choose an image,
'a' to analyze it, 'x' to remove it and 'q' to quit. With --no-tui, or any
output format other than text, the analysis runs headless and the result is
written to stdout or --output-file.

Examples:
  xraylab analyze chest.png
  xraylab analyze --style plain
  xraylab analyze --no-tui --output json chest.jpg
  xraylab analyze --mode remote --server http://localhost:8000 chest.dcm`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&analyzeMode, "mode", "m", "", "analysis mode (simulated, remote)")
	cmd.Flags().StringVar(&analyzeStyle, "style", "", "terminal UI style (plain, styled)")
	cmd.Flags().StringVar(&analyzeTheme, "theme", "", "terminal UI theme (clinical, high-contrast, minimal)")
	cmd.Flags().StringVar(&analyzeServer, "server", "", "analysis service base URL for remote mode")
	cmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "headless analysis timeout")
	cmd.Flags().BoolVar(&analyzeNoTUI, "no-tui", false, "disable terminal UI, output to stdout")
	cmd.Flags().StringVar(&analyzeOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyAnalyzeFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	path := ""
	if len(args) == 1 {
		path = filepath.Clean(args[0])
	}

	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}

	if shouldUseTUIMode() {
		return ui.Run(ui.Options{
			Path:            path,
			Mode:            cfg.Analysis.Mode,
			Analyzer:        analyzer,
			TickInterval:    cfg.Analysis.TickInterval,
			Step:            cfg.Analysis.ProgressStep,
			MaxPreviewBytes: cfg.Analysis.MaxPreviewBytes,
			Style:           cfg.Output.Style,
			Theme:           cfg.Output.Theme,
			Logger:          logger.Discard(),
		})
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	output, err := analyzeHeadless(ctx, cfg, path, analyzer, progressPrinter(os.Stderr))
	if err != nil {
		return err
	}
	return handleOutputDestination(cmd.OutOrStdout(), output)
}

// applyAnalyzeFlags overrides config values with explicitly set flags
func applyAnalyzeFlags(cfg *config.Config) {
	if analyzeMode != "" {
		cfg.Analysis.Mode = analyzeMode
	}
	if analyzeStyle != "" {
		cfg.Output.Style = analyzeStyle
	}
	if analyzeTheme != "" {
		cfg.Output.Theme = analyzeTheme
	}
	if analyzeServer != "" {
		cfg.Client.BaseURL = analyzeServer
	}
}

// newAnalyzer returns the remote client in remote mode, nil otherwise
func newAnalyzer(cfg *config.Config) (analysis.Analyzer, error) {
	if cfg.Analysis.Mode != config.ModeRemote {
		return nil, nil
	}
	c, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newClient(cfg *config.Config) (*client.Client, error) {
	clientCfg := client.DefaultConfig()
	clientCfg.BaseURL = cfg.Client.BaseURL
	clientCfg.Timeout = cfg.Client.Timeout
	clientCfg.UserAgent = "xraylab/" + appVersion

	c, err := client.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis client: %w", err)
	}
	return c, nil
}

// shouldUseTUIMode reports whether analyze opens the interactive UI
func shouldUseTUIMode() bool {
	return !analyzeNoTUI && getOutputFormat() == "text" && !isVerbose() && analyzeOutputFile == ""
}

// analyzeHeadless runs one analysis without a terminal UI and formats the result
func analyzeHeadless(ctx context.Context, cfg *config.Config, path string, analyzer analysis.Analyzer, onProgress func(int)) ([]byte, error) {
	f, err := formatter.New(getOutputFormat(), useColor(cfg) && analyzeOutputFile == "")
	if err != nil {
		return nil, err
	}

	outcome, err := runner.Run(ctx, runner.Options{
		Path:            path,
		Analyzer:        analyzer,
		TickInterval:    cfg.Analysis.TickInterval,
		Step:            cfg.Analysis.ProgressStep,
		MaxPreviewBytes: cfg.Analysis.MaxPreviewBytes,
		OnProgress:      onProgress,
		Logger:          newLogger("analyze"),
	})
	if err != nil {
		if msg := userMessage(err); msg != "" {
			return nil, fmt.Errorf("%s: %w", msg, err)
		}
		return nil, err
	}

	return f.Format(outcome.Result)
}

// userMessage returns the failure text the interactive UI shows for service errors
func userMessage(err error) string {
	if client.IsRequestError(err) {
		return session.MsgProcessing
	}
	return ""
}

// progressPrinter redraws a progress line on w when w is a terminal
func progressPrinter(w *os.File) func(int) {
	if !isTerminal(w) {
		return nil
	}
	return func(progress int) {
		fmt.Fprintf(w, "\rAnalyzing... %3d%%", progress)
		if progress >= 100 {
			fmt.Fprintln(w)
		}
	}
}

// handleOutputDestination writes output to file or stdout
func handleOutputDestination(stdout io.Writer, output []byte) error {
	if analyzeOutputFile != "" {
		if err := validateOutputFilePath(analyzeOutputFile); err != nil {
			return fmt.Errorf("invalid output file path: %w", err)
		}

		if err := writeOutputBytesToFile(output, analyzeOutputFile); err != nil {
			return fmt.Errorf("failed to write output to file: %w", err)
		}

		if isVerbose() {
			fmt.Fprintf(os.Stderr, "Output saved to: %s\n", analyzeOutputFile)
		}
		return nil
	}

	_, err := stdout.Write(output)
	return err
}

func validateOutputFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty file path")
	}
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return fmt.Errorf("path is a directory: %s", path)
	}
	return nil
}

// writeOutputBytesToFile writes output to a file with proper error handling
func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)

	// #nosec G304 - path is validated by caller
	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", closeErr)
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return nil
}
