package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/yildizm/xraylab/internal/config"
	"github.com/yildizm/xraylab/internal/emoji"
	"github.com/yildizm/xraylab/internal/logger"
	"github.com/yildizm/xraylab/internal/ui"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string

	appVersion   = "dev"
	globalConfig *config.Config
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	appVersion = version

	rootCmd := &cobra.Command{
		Use:   "xraylab",
		Short: "X-Ray Analysis Research Platform",
		Long: `xraylab is a research prototype for X-ray image analysis.

Select a chest X-ray image, watch the analysis progress, and review the
findings, recommendations and confidence score. Analysis runs locally as a
simulation or against a remote analysis service.

` + "RESEARCH PROTOTYPE ONLY. Not for clinical diagnosis.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Auto-disable emojis on Windows if not explicitly set
			if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
				noEmoji = true
			}
			emoji.SetEmojiDisabled(noEmoji)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format (text, terminal, json, markdown)")

	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newHealthCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "xraylab %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// loadConfig loads the configuration once per process and folds the
// config-backed defaults into flags the user did not set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if !flagChanged(cmd, "verbose") && cfg.Output.Verbose {
		verbose = true
	}
	if !flagChanged(cmd, "output") && cfg.Output.DefaultFormat != "" {
		outputFmt = cfg.Output.DefaultFormat
	}

	globalConfig = cfg
	return cfg, nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// newLogger returns a stderr logger gated by --verbose
func newLogger(component string) *logger.Logger {
	return logger.NewWithCallback(component, isVerbose)
}

// useColor resolves --no-color, NO_COLOR and output.color_mode against stdout
func useColor(cfg *config.Config) bool {
	if noColor || ui.IsColorDisabled() {
		return false
	}
	mode := "auto"
	if cfg != nil && cfg.Output.ColorMode != "" {
		mode = cfg.Output.ColorMode
	}
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Global helpers
func isVerbose() bool {
	return verbose
}

func getOutputFormat() string {
	return outputFmt
}
