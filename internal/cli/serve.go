package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yildizm/xraylab/internal/emoji"
	"github.com/yildizm/xraylab/internal/server"
)

var (
	serveAddr      string
	serveMaxUpload int64
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the research analysis API",
		Long: `Run the research stub of the analysis service.

The API accepts X-ray uploads on POST /api/analyze and answers with a
placeholder result. It exists so the remote mode can be exercised end to
end. Press Ctrl+C to stop.

Examples:
  xraylab serve
  xraylab serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8000)")
	cmd.Flags().Int64Var(&serveMaxUpload, "max-upload", 0, "maximum upload size in bytes")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveMaxUpload > 0 {
		cfg.Server.MaxUploadBytes = serveMaxUpload
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Options{
		Addr:           cfg.Server.Addr,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Version:        appVersion,
	}, newLogger("server"))

	fmt.Fprintf(cmd.ErrOrStderr(), "%s Research API listening on %s (Ctrl+C to stop)\n", emoji.GetEmoji("server"), srv.Addr())
	return srv.Run(ctx)
}
