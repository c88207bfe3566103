package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/yildizm/xraylab/internal/emoji"
)

var healthServer string

func newHealthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the analysis service",
		Long: `Probe the analysis service health endpoint once and print its payload.

Examples:
  xraylab health
  xraylab health --server http://localhost:8000 --output json`,
		Args: cobra.NoArgs,
		RunE: runHealth,
	}

	cmd.Flags().StringVar(&healthServer, "server", "", "analysis service base URL")

	return cmd
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if healthServer != "" {
		cfg.Client.BaseURL = healthServer
	}

	c, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Client.Timeout)
	defer cancel()

	payload, err := c.CheckServiceHealth(ctx)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s Service unavailable at %s\n", emoji.GetEmoji("error"), c.BaseURL())
		return err
	}

	return printHealth(cmd.OutOrStdout(), c.BaseURL(), payload)
}

func printHealth(w io.Writer, baseURL string, payload map[string]any) error {
	if getOutputFormat() == "json" {
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal health payload: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	fmt.Fprintf(w, "%s Service reachable at %s\n", emoji.GetEmoji("health"), baseURL)
	keys := lo.Keys(payload)
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "   %s: %v\n", k, payload[k])
	}
	return nil
}
