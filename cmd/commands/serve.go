package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/okian/futdash/internal/adapters/http/api"
	"github.com/okian/futdash/internal/adapters/http/site"
	"github.com/okian/futdash/internal/adapters/http/swagger"
	"github.com/okian/futdash/internal/adapters/repository"
	"github.com/okian/futdash/pkg/logger"
	"github.com/okian/futdash/pkg/metrics"
	"github.com/spf13/cobra"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var (
		addr           string
		reloadInterval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the derived table as the dashboard API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.setup(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			ctx := cmd.Context()
			log := logger.Named("serve")

			apiServer := api.NewServer(
				repository.NewDerivedTable(cfg.DerivedTablePath(), false),
				api.WithSourceName(cfg.DerivedTable),
			)
			if err := apiServer.Reload(ctx); err != nil {
				log.Warn(ctx, "derived table not loaded; /players answers 503 until a reload succeeds",
					logger.String("path", cfg.DerivedTablePath()), logger.Error(err))
			}

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           newHandler(ctx, apiServer, log),
				ReadTimeout:       readTimeout,
				WriteTimeout:      writeTimeout,
				IdleTimeout:       idleTimeout,
				ReadHeaderTimeout: readHeaderTimeout,
			}

			go startSystemMetricsUpdater(ctx)
			if reloadInterval > 0 {
				go startReloader(ctx, apiServer, reloadInterval)
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case <-ctx.Done():
			case err := <-errCh:
				return fmt.Errorf("http server: %w", err)
			}
			log.Info(ctx, "shutting down server")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			log.Info(ctx, "server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "override addr")
	cmd.Flags().DurationVar(&reloadInterval, "reload-interval", 0, "reload the derived table periodically, 0 disables")
	return cmd
}

// newHandler mounts the landing page, the API docs and the API on one mux.
func newHandler(ctx context.Context, apiServer *api.Server, log logger.Logger) http.Handler {
	mux := http.NewServeMux()
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)
	apiServer.Register(ctx, mux)
	return api.Recover(mux, log)
}

func startReloader(ctx context.Context, s *api.Server, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// failures are logged by Reload and keep the previous snapshot
			_ = s.Reload(ctx)
		}
	}
}

func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
