package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yildizm/xraylab/internal/config"
	"github.com/yildizm/xraylab/internal/emoji"
	"github.com/yildizm/xraylab/internal/ui"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".xraylab.yaml"

// newConfigCommand creates the config command with subcommands
func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage xraylab configuration",
		Long: `Manage xraylab configuration files and settings.

Configuration is merged from built-in defaults, the config file search
paths, a .env file in the working directory and XRAYLAB_ environment
variables, in increasing order of priority.`,
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigPathCommand())

	return configCmd
}

// newConfigInitCommand creates the config init subcommand
func newConfigInitCommand() *cobra.Command {
	var (
		outputPath string
		minimal    bool
		force      bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Example: `  # Create full config in current directory
  xraylab config init

  # Create minimal config at a specific path
  xraylab config init --minimal --path ~/.config/xraylab/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputPath == "" {
				outputPath = defaultConfigFile
			}
			return writeSampleConfig(cmd.OutOrStdout(), outputPath, minimal, force)
		},
	}

	initCmd.Flags().StringVarP(&outputPath, "path", "p", "", "output path for config file (default: .xraylab.yaml)")
	initCmd.Flags().BoolVarP(&minimal, "minimal", "m", false, "create minimal configuration")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing config file")

	return initCmd
}

func writeSampleConfig(w io.Writer, path string, minimal, force bool) error {
	path = expandHome(path)

	if !force && fileExists(path) {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	content := config.SampleConfig()
	kind := "full configuration with all options"
	if minimal {
		content = config.MinimalSampleConfig()
		kind = "minimal configuration"
	}

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(w, "%s Created %s at %s\n", emoji.GetEmoji("success"), kind, path)
	return nil
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	var format string

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Example: `  xraylab config show
  xraylab config show --format json --config ./lab.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return showConfig(cmd.OutOrStdout(), cfg, format)
		},
	}

	showCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")

	return showCmd
}

func showConfig(w io.Writer, cfg *config.Config, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "json":
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	case "yaml":
		data, err = yaml.Marshal(cfg)
	default:
		return fmt.Errorf("unsupported format: %s (use json or yaml)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config to %s: %w", format, err)
	}
	_, err = w.Write(data)
	return err
}

// newConfigValidateCommand creates the config validate subcommand
func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		Long: `Load the configuration from every source and check it.

Reports YAML syntax errors, unknown modes, formats and styles, and
non-positive durations or limits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				fmt.Fprintf(out, "%s Configuration validation failed:\n   %v\n", emoji.GetEmoji("error"), err)
				return err
			}
			printConfigSummary(out, cfg)
			return nil
		},
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "%s Configuration is valid\n", emoji.GetEmoji("success"))
	fmt.Fprintf(w, "   Version: %s\n", cfg.Version)
	fmt.Fprintf(w, "   Analysis mode: %s\n", cfg.Analysis.Mode)
	if cfg.Analysis.Mode == config.ModeRemote {
		fmt.Fprintf(w, "   Service: %s (timeout %s)\n", cfg.Client.BaseURL, cfg.Client.Timeout)
	} else {
		fmt.Fprintf(w, "   Progress: +%d every %s\n", cfg.Analysis.ProgressStep, cfg.Analysis.TickInterval)
	}
	fmt.Fprintf(w, "   Output format: %s\n", cfg.Output.DefaultFormat)
	fmt.Fprintf(w, "   UI: %s, theme %s\n", cfg.Output.Style, cfg.Output.Theme)

	if _, ok := ui.ThemeByName(cfg.Output.Theme); !ok {
		fmt.Fprintf(w, "%s Unknown theme %q, falling back to %s (available: %s)\n",
			emoji.GetEmoji("warning"), cfg.Output.Theme, ui.ClinicalTheme.Name, strings.Join(ui.GetAvailableThemes(), ", "))
	}
}

// newConfigPathCommand creates the config path subcommand
func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file search paths",
		Run: func(cmd *cobra.Command, args []string) {
			printConfigPaths(cmd.OutOrStdout())
		},
	}
}

func printConfigPaths(w io.Writer) {
	fmt.Fprintf(w, "%s Configuration file search paths (highest priority first):\n\n", emoji.GetEmoji("folder"))

	for i, path := range config.GetConfigPaths() {
		status := "not found"
		if fileExists(path) {
			status = "exists"
		}
		fmt.Fprintf(w, "  %d. %s (%s)\n", i+1, path, status)
	}
	fmt.Fprintln(w)

	if current, found := config.FindConfigFile(); found {
		fmt.Fprintf(w, "Current config file: %s\n", current)
	} else {
		fmt.Fprintln(w, "No config file found, using defaults")
	}
	fmt.Fprintf(w, "Variables with the %s prefix, and a .env file in the working directory, override file settings\n", config.EnvPrefix)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// Helper function to check if file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
