package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jt828/perf-metrics/internal/bootstrap"
	"github.com/jt828/perf-metrics/internal/config"
	"github.com/jt828/perf-metrics/internal/controller"
	"github.com/jt828/perf-metrics/internal/instrument"
	"github.com/jt828/perf-metrics/internal/service"
	idempotencyImpl "github.com/jt828/perf-metrics/pkg/idempotency/implementation"
	"github.com/jt828/perf-metrics/pkg/observability"
	"github.com/jt828/perf-metrics/pkg/observability/implementation"
	"github.com/jt828/perf-metrics/pkg/perfmetrics"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Serve the blob store over HTTP",
		Long: `server stores blobs in PostgreSQL and exposes them over HTTP.
Built with -tags=enable_execution_duration_record it measures every storage
call and exports the totals on the metrics endpoint.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file; PERF_* variables override it")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	obs, err := implementation.NewObservability(ctx, implementation.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		LogLevel:       cfg.Log.Level,
		MetricsAddr:    cfg.Metrics.Addr,
		OTLPEndpoint:   cfg.Tracing.OTLPEndpoint,
	})
	if err != nil {
		return fmt.Errorf("initializing observability: %w", err)
	}
	log := obs.Logger()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Close(shutdownCtx); err != nil {
			log.Error("failed to close observability", observability.Err(err))
		}
	}()

	if err := obs.Start(ctx); err != nil {
		log.Error("failed to start observability", observability.Err(err))
	}
	log.Info("execution duration recording", observability.String("enabled", fmt.Sprint(perfmetrics.Enabled)))

	recorder := instrument.NewRecorder()
	reporter := instrument.NewReporter(recorder, obs.Meter(), log, cfg.Report.Interval)

	idGen, err := bootstrap.InitializeSnowflake(cfg.Snowflake)
	if err != nil {
		return fmt.Errorf("initializing snowflake: %w", err)
	}
	dbs, err := bootstrap.InitializeDatabase(*cfg, obs, recorder)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer dbs.Close()

	blobSvc := service.NewBlobService(
		dbs.UnitOfWorkFactory,
		idempotencyImpl.NewIdempotency(),
		idGen,
		recorder,
		obs.Tracer(),
		cfg.Storage.MaxBlobSize,
	)

	router := mux.NewRouter()
	controller.NewBlobController(blobSvc, cfg.Storage.MaxBlobSize, cfg.Storage.MaxImportBytes).RegisterRoutes(router, log)
	router.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := dbs.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           otelhttp.NewHandler(router, "http"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("http server listening", observability.String("addr", cfg.HTTP.Addr))
	err = serveUntilDone(ctx, log, server.ListenAndServe, server.Shutdown, cfg.HTTP.ShutdownTimeout,
		func(ctx context.Context) { _ = reporter.Run(ctx) })
	log.Info("http server stopped")
	return err
}

// serveUntilDone runs serve and background until ctx ends or serve fails.
// On cancellation the server is shut down first; in every case background is
// then cancelled and awaited, so its final flush completes before returning.
func serveUntilDone(
	ctx context.Context,
	log observability.Logger,
	serve func() error,
	shutdown func(context.Context) error,
	shutdownTimeout time.Duration,
	background func(context.Context),
) error {
	bgCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	bgDone := make(chan struct{})
	go func() {
		defer close(bgDone)
		background(bgCtx)
	}()
	defer func() {
		cancel()
		<-bgDone
	}()

	serveErr := make(chan error, 1)
	go func() {
		if err := serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down http server")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serving http: %w", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", observability.Err(err))
	}
	return nil
}
