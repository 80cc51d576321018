package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/vanshika/rxnpath/internal/domain"
	"github.com/vanshika/rxnpath/internal/network"
)

// TaskError accumulates the per-item errors of a bulk ingestion.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	parts := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		parts = append(parts, err.Error())
	}
	return fmt.Sprintf("%d errors: %s", len(e.Errors), strings.Join(parts, "; "))
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// NetworkWriter persists the reaction network node by node.
type NetworkWriter interface {
	UpsertCompound(ctx context.Context, c domain.Compound, ignored bool) error
	UpsertEnzyme(ctx context.Context, e domain.Enzyme) error
	UpsertReaction(ctx context.Context, r domain.Reaction, ignored bool) error
	LinkReactions(ctx context.Context, edge domain.NetworkEdge) error
}

// IngestStats counts what one ingestion wrote.
type IngestStats struct {
	Compounds int
	Enzymes   int
	Reactions int
	Links     int
}

// BulkIngestor writes reference data and its graph through a worker pool.
type BulkIngestor struct {
	writer  NetworkWriter
	workers int
	logger  *slog.Logger
}

// NewBulkIngestor creates a BulkIngestor with the provided concurrency.
func NewBulkIngestor(writer NetworkWriter, workers int, logger *slog.Logger) *BulkIngestor {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BulkIngestor{
		writer:  writer,
		workers: workers,
		logger:  logger,
	}
}

// Ingest writes compounds and enzymes, then reactions, then the links of g.
// Each phase finishes before the next starts so links always find their
// endpoints. Per-item failures are collected into a *TaskError and do not
// stop the phase; cancellation does.
func (bi *BulkIngestor) Ingest(ctx context.Context, ref *domain.ReferenceData, g *network.Graph) (IngestStats, error) {
	var stats IngestStats

	compounds := sortedKeys(ref.Compounds)
	enzymes := sortedKeys(ref.Enzymes)
	reactions := ref.ReactionIDs()
	edges := g.Edges()

	phases := []struct {
		name  string
		total int
		fn    func(idx int) error
		count *int
	}{
		{"compounds", len(compounds), func(i int) error {
			return bi.writer.UpsertCompound(ctx, ref.Compounds[compounds[i]], ref.IgnoredCompounds.Has(compounds[i]))
		}, &stats.Compounds},
		{"enzymes", len(enzymes), func(i int) error {
			return bi.writer.UpsertEnzyme(ctx, ref.Enzymes[enzymes[i]])
		}, &stats.Enzymes},
		{"reactions", len(reactions), func(i int) error {
			return bi.writer.UpsertReaction(ctx, ref.Reactions[reactions[i]], ref.IgnoredReactions.Has(reactions[i]))
		}, &stats.Reactions},
		{"links", len(edges), func(i int) error {
			return bi.writer.LinkReactions(ctx, edges[i])
		}, &stats.Links},
	}

	var all TaskError
	for _, phase := range phases {
		err := bi.run(ctx, phase.total, phase.fn)
		var taskErr *TaskError
		switch {
		case errors.As(err, &taskErr):
			all.Errors = append(all.Errors, taskErr.Errors...)
			*phase.count = phase.total - len(taskErr.Errors)
		case err != nil:
			return stats, fmt.Errorf("ingest %s: %w", phase.name, err)
		default:
			*phase.count = phase.total
		}
		bi.logger.Info("ingest phase finished", "phase", phase.name, "written", *phase.count, "total", phase.total)
	}
	return stats, all.asError()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	domain.SortIDs(keys)
	return keys
}

func (bi *BulkIngestor) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				errCh <- err
			}
		}
	}

	for i := 0; i < bi.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if err := ctx.Err(); err != nil {
		return err
	}

	var taskErr TaskError
	for err := range errCh {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}
