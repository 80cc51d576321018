// Package bootstrap turns configuration into the clients, stores and
// reference data the binaries share.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vanshika/rxnpath/internal/config"
	"github.com/vanshika/rxnpath/internal/domain"
	"github.com/vanshika/rxnpath/internal/graph"
	"github.com/vanshika/rxnpath/internal/pathway"
	"github.com/vanshika/rxnpath/internal/refdata"
	"github.com/vanshika/rxnpath/internal/repository"
	"github.com/vanshika/rxnpath/internal/service"
	"github.com/vanshika/rxnpath/internal/store"
)

// GraphClient connects to Neo4j, verifies connectivity and, when enabled,
// wraps the client in a circuit breaker.
func GraphClient(ctx context.Context, cfg config.GraphConfig, logger *slog.Logger) (graph.Client, error) {
	if cfg.URI == "" {
		return nil, graph.ErrMissingURI
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.URI,
		Database:       cfg.Database,
		Username:       cfg.Username,
		Password:       cfg.Password,
		MaxConnections: cfg.MaxConnections,
	})
	if err != nil {
		return nil, err
	}
	if err := client.VerifyConnectivity(ctx); err != nil {
		_ = client.Close(ctx)
		return nil, fmt.Errorf("verify graph connectivity: %w", err)
	}
	logger.Info("connected to graph", "uri", cfg.URI, "database", cfg.Database)

	if !cfg.Breaker.Enabled {
		return client, nil
	}
	return graph.NewBreakerClient(client, BreakerSettings(cfg.Breaker), logger), nil
}

// BreakerSettings maps configuration onto graph.BreakerSettings, keeping the
// defaults for unset values.
func BreakerSettings(cfg config.BreakerConfig) graph.BreakerSettings {
	s := graph.DefaultBreakerSettings()
	if cfg.MaxRequests > 0 {
		s.MaxRequests = cfg.MaxRequests
	}
	if cfg.Interval > 0 {
		s.Interval = cfg.Interval
	}
	if cfg.Timeout > 0 {
		s.Timeout = cfg.Timeout
	}
	if cfg.MinRequests > 0 {
		s.MinRequests = cfg.MinRequests
	}
	if cfg.FailureRatio > 0 {
		s.FailureThreshold = cfg.FailureRatio
	}
	return s
}

// SearchConfig maps configuration onto service.SearchConfig.
func SearchConfig(cfg config.SearchConfig) service.SearchConfig {
	out := service.SearchConfig{
		Workers:           cfg.Workers,
		Timeout:           cfg.Timeout,
		DefaultMaxResults: cfg.DefaultMaxResults,
		MaxResultsLimit:   cfg.MaxResultsLimit,
	}
	if cfg.BoundsEnabled {
		out.Bounds = pathway.Bounds{
			Enabled:            true,
			SourceTargetBudget: float64(cfg.SourceTarget),
			PathBudget:         float64(cfg.PathBudget),
			FilterDivisor:      float64(cfg.FilterDivisor),
			EndpointCap:        cfg.EndpointCap,
		}
	}
	return out
}

// OpenStore opens the SQL store named by cfg. SQLite wins when both are set.
// It returns nil without error when neither is configured.
func OpenStore(ctx context.Context, cfg config.DataConfig) (*store.SQLStore, error) {
	switch {
	case cfg.SQLitePath != "":
		return store.OpenSQLite(ctx, cfg.SQLitePath)
	case cfg.MySQLDSN != "":
		return store.OpenMySQL(ctx, cfg.MySQLDSN)
	default:
		return nil, nil
	}
}

// Sources are the backends reference data can be loaded from. Unused
// fields may be nil.
type Sources struct {
	Store *store.SQLStore
	Graph graph.Client
}

// LoadReference loads reference data from the configured source.
func LoadReference(ctx context.Context, cfg config.DataConfig, src Sources) (*domain.ReferenceData, error) {
	switch cfg.Source {
	case config.SourceBundle:
		return refdata.Load(cfg.BundleDir)
	case config.SourceSQLite, config.SourceMySQL:
		if src.Store == nil {
			return nil, fmt.Errorf("data source %s: store not open", cfg.Source)
		}
		return src.Store.LoadReferenceData(ctx)
	case config.SourceNeo4j:
		if src.Graph == nil {
			return nil, fmt.Errorf("data source %s: %w", cfg.Source, graph.ErrMissingURI)
		}
		return repository.New(src.Graph).LoadReferenceData(ctx)
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Source)
	}
}
