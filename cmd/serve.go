package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Belphemur/ShowFinder/internal/cache"
	"github.com/Belphemur/ShowFinder/internal/client"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/flow"
	grpcserver "github.com/Belphemur/ShowFinder/internal/grpc"
	"github.com/Belphemur/ShowFinder/internal/metrics"
	"github.com/Belphemur/ShowFinder/internal/reporting"
	"github.com/Belphemur/ShowFinder/internal/web"
)

const shutdownTimeout = 15 * time.Second

var (
	serverHost string
	serverPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the search page server, plus the metrics and gRPC health servers
when they are enabled in the configuration.

Example:
  showfinder serve
  showfinder serve --host 0.0.0.0 --port 8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()
	logger := config.GetLogger()

	if serverHost != "" {
		cfg.Server.Address = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	logger.Info().
		Str("catalog_base_url", cfg.CatalogBaseURL).
		Str("proxy_connection_string", cfg.ProxyConnectionString).
		Str("server_address", cfg.Server.Address).
		Int("server_port", cfg.Server.Port).
		Bool("discard_stale", cfg.Flows.DiscardStale).
		Msg("Application started with configuration")

	reporter, err := reporting.New(cfg, Version)
	if err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}
	defer reporter.Flush(2 * time.Second)

	var store cache.Cache
	if cfg.Flows.DiscardStale {
		store, err = cache.FromConfig(cfg, logger)
		if err != nil {
			return fmt.Errorf("init flow token cache: %w", err)
		}
		defer store.Close()
	}
	tracker := flow.NewTracker(store, cfg.Flows.DiscardStale, logger)

	// bound before any server goroutine starts so a busy port fails cleanly
	var (
		health       *grpcserver.HealthServer
		grpcListener net.Listener
	)
	if cfg.GRPC.Enabled {
		address := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.GRPC.Port)
		grpcListener, err = net.Listen("tcp", address)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", address, err)
		}
		health = grpcserver.NewHealthServer(logger)
	}

	// assigned below, before any request can trip the breaker
	var webServer *web.Server
	catalog := client.NewClient(cfg, client.WithBreakerListener(func(open bool) {
		if webServer != nil {
			webServer.SetCatalogServing(!open)
		}
		if health != nil {
			health.SetCatalogServing(!open)
		}
	}))
	defer catalog.Close()

	gin.SetMode(web.GinMode(cfg.LogLevel))
	webServer = web.NewServer(cfg, web.Dependencies{
		Catalog:  catalog,
		Tracker:  tracker,
		Reporter: reporter,
		Logger:   logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(webServer.Start)

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewHTTPServer(cfg.Server.Address, cfg.Metrics.Port)
		g.Go(func() error {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	if grpcListener != nil {
		g.Go(func() error { return health.Serve(grpcListener) })
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if health != nil {
			health.Stop()
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("Failed to shutdown metrics server")
			}
		}
		return webServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("Server stopped gracefully")
	return nil
}
