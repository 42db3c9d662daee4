package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/credlens/credlens/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve exposes the announcement index, the analysis pipeline and the
fact-checker over HTTP:

  GET  /api/announcements              list (filters: status, symbol)
  GET  /api/announcements/:id          single announcement with its score
  POST /api/announcements/:id/analyze  run analysis (bounded wait)
  POST /api/fact-check                 verify text or an uploaded document
  GET  /api/stats                      aggregate statistics
  GET  /healthz                        liveness

Example:
  credlens serve
  credlens serve --addr :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, shutdown, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer shutdown()

	addr := app.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	if app.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "Listening on %s\n", addr)
	}

	srv := server.New(app.index, app.checker, app.pool, app.cfg.Server)
	if err := srv.Run(ctx, addr); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
