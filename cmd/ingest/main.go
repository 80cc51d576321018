package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanshika/rxnpath/internal/bootstrap"
	"github.com/vanshika/rxnpath/internal/config"
	"github.com/vanshika/rxnpath/internal/domain"
	"github.com/vanshika/rxnpath/internal/logging"
	"github.com/vanshika/rxnpath/internal/network"
	"github.com/vanshika/rxnpath/internal/refdata"
	"github.com/vanshika/rxnpath/internal/repository"
	"github.com/vanshika/rxnpath/internal/service"
)

var errEmptyBundle = errors.New("bundle has no reactions")

type options struct {
	bundleDir string
	workers   int
	verify    bool
}

func main() {
	opts := options{}
	root := &cobra.Command{
		Use:           "rxnpath-ingest",
		Short:         "Load a reference bundle into a database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.bundleDir, "bundle-dir", "./data", "directory containing the reference bundle")

	graphCmd := &cobra.Command{
		Use:   "neo4j",
		Short: "Write reactions, compounds, enzymes and reaction links to Neo4j",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ingestGraph(cmd.Context(), opts)
		},
	}
	graphCmd.Flags().IntVar(&opts.workers, "workers", 4, "number of concurrent writers")
	graphCmd.Flags().BoolVar(&opts.verify, "verify", true, "read the network back and compare link counts")

	sqlCmd := &cobra.Command{
		Use:   "sql",
		Short: "Replace the reference tables of the configured SQLite or MySQL store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ingestSQL(cmd.Context(), opts)
		},
	}

	root.AddCommand(graphCmd, sqlCmd)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ingest failed: %v\n", err)
		os.Exit(1)
	}
}

func setup(opts options) (config.Config, *slog.Logger, *domain.ReferenceData, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger := logging.Component(logging.New(cfg.Logging), "ingest")

	ref, err := refdata.Load(opts.bundleDir)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("load bundle %s: %w", opts.bundleDir, err)
	}
	if len(ref.Reactions) == 0 {
		return config.Config{}, nil, nil, fmt.Errorf("%w: %s", errEmptyBundle, opts.bundleDir)
	}
	return cfg, logger, ref, nil
}

func ingestGraph(ctx context.Context, opts options) error {
	cfg, logger, ref, err := setup(opts)
	if err != nil {
		return err
	}

	client, err := bootstrap.GraphClient(ctx, cfg.Graph, logger)
	if err != nil {
		return fmt.Errorf("create graph client: %w", err)
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	repo := repository.New(client)
	g := network.BuildFromReference(ref, logger)

	start := time.Now()
	logger.Info("ingesting network",
		"reactions", len(ref.Reactions),
		"compounds", len(ref.Compounds),
		"links", g.EdgeCount(),
		"workers", opts.workers,
	)
	stats, err := service.NewBulkIngestor(repo, opts.workers, logger).Ingest(ctx, ref, g)
	if err != nil {
		return fmt.Errorf("ingest network: %w", err)
	}
	logger.Info("ingestion complete",
		"duration", time.Since(start).String(),
		"compounds", stats.Compounds,
		"enzymes", stats.Enzymes,
		"reactions", stats.Reactions,
		"links", stats.Links,
	)

	if !opts.verify {
		return nil
	}
	return verifyGraph(ctx, repo, ref, g, logger)
}

func verifyGraph(ctx context.Context, repo *repository.Repository, ref *domain.ReferenceData, g *network.Graph, logger *slog.Logger) error {
	edges, err := repo.ExportEdges(ctx)
	if err != nil {
		return fmt.Errorf("verify links: %w", err)
	}
	if len(edges) != g.EdgeCount() {
		return fmt.Errorf("verify links: graph has %d, database has %d", g.EdgeCount(), len(edges))
	}

	ids := ref.ReactionIDs()
	sample, err := repo.FetchReaction(ctx, ids[0])
	if err != nil {
		return fmt.Errorf("verify reaction %s: %w", ids[0], err)
	}
	want := ref.Reactions[ids[0]]
	if len(sample.Substrates) != len(want.Substrates) || len(sample.Products) != len(want.Products) {
		return fmt.Errorf("verify reaction %s: stoichiometry mismatch", ids[0])
	}
	logger.Info("verification passed", "links", len(edges), "sampleReaction", ids[0])
	return nil
}

func ingestSQL(ctx context.Context, opts options) error {
	cfg, logger, ref, err := setup(opts)
	if err != nil {
		return err
	}

	st, err := bootstrap.OpenStore(ctx, cfg.Data)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if st == nil {
		return errors.New("no SQL store configured: set DATA_SQLITE_PATH or DATA_MYSQL_DSN")
	}
	defer st.Close()

	start := time.Now()
	if err := st.SaveReferenceData(ctx, ref); err != nil {
		return err
	}
	logger.Info("reference data saved",
		"dialect", st.Dialect(),
		"reactions", len(ref.Reactions),
		"compounds", len(ref.Compounds),
		"enzymes", len(ref.Enzymes),
		"duration", time.Since(start).String(),
	)
	return nil
}
