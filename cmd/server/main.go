package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vanshika/rxnpath/internal/bootstrap"
	"github.com/vanshika/rxnpath/internal/config"
	"github.com/vanshika/rxnpath/internal/domain"
	"github.com/vanshika/rxnpath/internal/graph"
	"github.com/vanshika/rxnpath/internal/logging"
	"github.com/vanshika/rxnpath/internal/metrics"
	"github.com/vanshika/rxnpath/internal/refdata"
	"github.com/vanshika/rxnpath/internal/server"
	"github.com/vanshika/rxnpath/internal/service"
)

func main() {
	var configPath string
	cmd := &cobra.Command{
		Use:           "rxnpath-server",
		Short:         "Serve the reaction pathway search API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if configPath != "" {
				if err := os.Setenv("RXNPATH_CONFIG", configPath); err != nil {
					return err
				}
			}
			return run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file (overrides RXNPATH_CONFIG)")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(cfg.Logging)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	searchMetrics := metrics.NewSearch(reg)

	var graphClient graph.Client
	if cfg.Graph.URI != "" {
		graphClient, err = bootstrap.GraphClient(ctx, cfg.Graph, logging.Component(logger, "graph"))
		if err != nil {
			return fmt.Errorf("create graph client: %w", err)
		}
		defer func() {
			if err := graphClient.Close(context.Background()); err != nil {
				logger.Warn("closing graph client failed", "error", err)
			}
		}()
	}

	st, err := bootstrap.OpenStore(ctx, cfg.Data)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if st != nil {
		defer st.Close()
	}

	snapshots := service.NewSnapshots(logging.Component(logger, "snapshots"))
	snapshots.OnLoad(func(s *service.Snapshot) {
		searchMetrics.SetNetworkSize(s.Graph.NodeCount(), s.Graph.EdgeCount())
	})

	ref, err := bootstrap.LoadReference(ctx, cfg.Data, bootstrap.Sources{Store: st, Graph: graphClient})
	searchMetrics.ObserveReload(err)
	if err != nil {
		return fmt.Errorf("load reference data from %s: %w", cfg.Data.Source, err)
	}
	snapshots.Load(ref)

	svc := service.NewSearchService(snapshots, bootstrap.SearchConfig(cfg.Search)).
		WithMetrics(searchMetrics).
		WithLogger(logging.Component(logger, "search"))
	if cfg.Data.History && st != nil {
		svc.WithHistory(st)
	}

	if cfg.Data.Watch {
		if err := startWatcher(ctx, cfg.Data.BundleDir, snapshots, searchMetrics, logger); err != nil {
			return err
		}
	}

	health := server.HealthChecks{"reference": svc}
	if graphClient != nil {
		health["graph"] = server.GraphHealthService{Client: graphClient}
	}
	if st != nil {
		health["store"] = server.StoreHealthService{Store: st}
	}

	deps := server.RouterDependencies{
		Health:           health,
		API:              server.NewAPIHandlers(logging.Component(logger, "http"), svc),
		AllowedOrigins:   cfg.HTTP.AllowedOrigins(),
		AllowCredentials: true,
	}
	if cfg.HTTP.MetricsEnabled {
		deps.Metrics = reg
	}
	srv := server.New(logger, cfg.HTTP, server.NewRouter(logger, deps))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func startWatcher(ctx context.Context, dir string, snapshots *service.Snapshots, m *metrics.Search, logger *slog.Logger) error {
	watchLogger := logging.Component(logger, "refdata-watcher")
	w, err := refdata.NewWatcher(dir, 0, func(ref *domain.ReferenceData, err error) {
		m.ObserveReload(err)
		if err != nil {
			watchLogger.Error("reference reload failed, keeping previous data", "error", err)
			return
		}
		snapshots.Load(ref)
	}, watchLogger)
	if err != nil {
		return fmt.Errorf("watch bundle: %w", err)
	}
	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			watchLogger.Error("watcher stopped", "error", err)
		}
	}()
	return nil
}
