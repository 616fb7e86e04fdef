package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/courtdesk/internal/health"
	"github.com/felixgeelhaar/courtdesk/internal/server"
	"github.com/felixgeelhaar/courtdesk/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the shell over HTTP",
	Long: `Serve the shell API, guarded page routes and health endpoints.

Endpoints:
  /health/live    - Liveness probe (process alive and responsive)
  /health/ready   - Readiness probe (session storage and backend)
  /health/startup - Startup probe (finished initialization)
  /healthz        - Readiness alias
  /metrics        - Prometheus metrics
  /shell/...      - View, login, logout, session and toasts
  /app/...        - Guarded portal pages

The server drains connections on SIGTERM or SIGINT.

Example:
  courtdesk serve --address 0.0.0.0:8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddress         string
	serveShutdownTimeout time.Duration
	serveReadTimeout     time.Duration
	serveWriteTimeout    time.Duration
	serveIdleTimeout     time.Duration
)

func init() {
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "address to bind to (default from config)")
	serveCmd.Flags().DurationVar(&serveShutdownTimeout, "shutdown-timeout", 30*time.Second, "Maximum time to wait for connections to drain during shutdown")
	serveCmd.Flags().DurationVar(&serveReadTimeout, "read-timeout", 10*time.Second, "Maximum duration for reading the entire request")
	serveCmd.Flags().DurationVar(&serveWriteTimeout, "write-timeout", 35*time.Second, "Maximum duration before timing out writes of the response")
	serveCmd.Flags().DurationVar(&serveIdleTimeout, "idle-timeout", 60*time.Second, "Maximum amount of time to wait for the next request")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if serveAddress != "" {
		cfg.Server.Address = serveAddress
	}
	// Serving defaults to structured logs unless the user chose otherwise.
	if !cmd.Flags().Changed("log-format") && cfg.Logging.Format == "text" {
		cfg.Logging.Format = "json"
	}

	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ln, err := net.Listen("tcp", cfg.Server.Address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Server.Address, err)
	}
	return serve(cmd.Context(), a, ln)
}

// serve runs the HTTP shell on ln until ctx is cancelled, then drains.
func serve(ctx context.Context, a *app, ln net.Listener) error {
	info := version.GetInfo()
	pm := health.NewProbeManager(info.Version,
		health.NewStorageChecker(a.kv),
		health.NewBackendChecker(a.cfg.API.URL, nil),
	)

	srv := server.NewServer(pm, a.portal, server.Config{
		Address:         ln.Addr().String(),
		ShutdownTimeout: serveShutdownTimeout,
		ReadTimeout:     serveReadTimeout,
		WriteTimeout:    serveWriteTimeout,
		IdleTimeout:     serveIdleTimeout,
		AllowedOrigins:  a.cfg.Server.AllowedOrigins,
	},
		server.WithLogger(a.logger),
		server.WithMetrics(a.metrics, a.registry),
	)

	logger := a.logger.WithComponent("serve")
	logger.Info("starting", "version", info.Version, "commit", info.ShortCommit(), "backend", a.cfg.API.URL)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErr:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("shutting down", "timeout", serveShutdownTimeout)

		// The parent context is already cancelled; drain on a fresh one.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout+5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		if err := <-serverErr; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("stopped")
		return nil
	}
}
