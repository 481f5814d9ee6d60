package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/tooltip/internal/errors"
	"github.com/vango-dev/tooltip/pkg/host"
)

func serveCmd() *cobra.Command {
	var (
		port    int
		hostArg string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the tooltip server",
		Long: `Start the HTTP server.

Serves the page at /, the client script at /client.js, sessions at /ws,
Prometheus metrics at /metrics and a health check at /healthz.

Examples:
  tooltipd serve
  tooltipd serve --port=8080
  tooltipd serve -c ./docs/tooltip.json --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port < 0 || port > 65535 {
				return errors.New(errors.CodeInvalidFlag).
					WithDetailf("--port %d is out of range", port)
			}
			return runServe(cmd.Context(), port, hostArg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from tooltip.json)")
	cmd.Flags().StringVarP(&hostArg, "host", "H", "", "Host to bind to (default from tooltip.json)")

	return cmd
}

func runServe(ctx context.Context, port int, hostArg string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}
	if hostArg != "" {
		cfg.Server.Host = hostArg
	}

	logger := newLogger()

	hcfg, err := hostConfig(ctx, cfg)
	if err != nil {
		return err
	}

	opts := []host.Option{host.WithLogger(logger)}
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts = append(opts, host.WithRegistry(reg))
	}

	srv, err := host.New(hcfg, opts...)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Address(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	success("Serving %d tooltips", len(hcfg.Tooltips))
	info("Page:    %s/", cfg.URL())
	if cfg.Metrics.Enabled {
		info("Metrics: %s/metrics", cfg.URL())
	} else {
		warn("Metrics disabled")
	}

	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", cfg.Address(), err)
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Println("\n  Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	return srv.Shutdown(shutdownCtx)
}
