package pathway

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/vanshika/rxnpath/internal/domain"
	"github.com/vanshika/rxnpath/internal/network"
)

// Options tunes a search run.
type Options struct {
	Bounds Bounds
	// Workers bounds how many source/target pairs are explored at once.
	// Values below one run pairs sequentially.
	Workers int
	Logger  *slog.Logger
}

// Result is the ranked output of a search with counters about the work done.
type Result struct {
	Pathways   []domain.ScoredPathway
	Sources    int
	Targets    int
	Pairs      int
	Candidates int
}

type pair struct {
	source domain.Endpoint
	target domain.Endpoint
}

type plan struct {
	sources []domain.Endpoint
	targets []domain.Endpoint
	filter  domain.SearchFilter
}

// Search resolves q into source and target reactions, finds and filters
// shortest walks for every pair, then deduplicates, scores and ranks them.
// At most q.MaxResults pathways are returned, highest score first, ties in
// discovery order. An open start and goal together yield no results.
//
// The only error is ctx's, when it ends before every pair is explored.
func Search(ctx context.Context, g *network.Graph, ref *domain.ReferenceData, q domain.Query, opts Options) (Result, error) {
	p, ok := resolve(q, ref)
	if !ok {
		return Result{}, nil
	}

	lim := opts.Bounds.limits(len(p.sources), len(p.targets), q.MaxResults)
	sources := truncate(p.sources, lim.sources)
	targets := truncate(p.targets, lim.targets)

	pairs := make([]pair, 0, len(sources)*len(targets))
	for _, s := range sources {
		for _, t := range targets {
			if s.IsWildcard() && t.IsWildcard() {
				continue
			}
			pairs = append(pairs, pair{source: s, target: t})
		}
	}

	if opts.Logger != nil {
		opts.Logger.Debug("search plan",
			"sources", len(p.sources),
			"targets", len(p.targets),
			"pairs", len(pairs),
			"max_paths", lim.paths,
			"max_filtered", lim.filtered,
		)
	}

	found, err := explore(ctx, g, ref, pairs, p.filter, lim, opts.Workers)
	if err != nil {
		return Result{}, err
	}

	ranked := rank(found, ref)
	res := Result{
		Sources:    len(p.sources),
		Targets:    len(p.targets),
		Pairs:      len(pairs),
		Candidates: len(ranked),
	}
	res.Pathways = truncate(ranked, q.MaxResults)
	return res, nil
}

func resolve(q domain.Query, ref *domain.ReferenceData) (plan, bool) {
	p := plan{
		filter: domain.SearchFilter{
			RequiredEnzymes: q.Enzymes,
			ForbiddenLinks:  domain.NewIDSet(q.ForbiddenLinks...),
		},
	}

	if len(q.Chain) >= 2 {
		start, goal := q.Chain[0], q.Chain[len(q.Chain)-1]
		if start.IsWildcard() && goal.IsWildcard() {
			return plan{}, false
		}
		for _, c := range q.Chain[1 : len(q.Chain)-1] {
			if id, ok := c.ID(); ok {
				p.filter.RequiredCompounds = append(p.filter.RequiredCompounds, id)
			}
		}

		if id, ok := start.ID(); ok {
			p.sources = concrete(ref.Consumers(id))
			p.filter.Source = start
		} else {
			p.sources = []domain.Endpoint{domain.Wildcard}
		}
		if id, ok := goal.ID(); ok {
			p.targets = concrete(ref.Producers(id))
			p.filter.Target = goal
		} else {
			p.targets = []domain.Endpoint{domain.Wildcard}
		}
		return p, true
	}

	// A single enzyme leaves the walk open at either end; several enzymes
	// anchor both ends to their own reactions.
	var candidates []domain.Endpoint
	if len(q.Enzymes) <= 1 {
		candidates = append(candidates, domain.Wildcard)
	}
	seen := make(domain.IDSet)
	for _, ec := range q.Enzymes {
		for _, id := range ref.ReactionsForEnzyme(ec) {
			if seen.Has(id) {
				continue
			}
			seen.Add(id)
			candidates = append(candidates, domain.Concrete(id))
		}
	}
	p.sources = candidates
	p.targets = candidates
	return p, true
}

func concrete(ids []string) []domain.Endpoint {
	out := make([]domain.Endpoint, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Concrete(id))
	}
	return out
}

// explore runs find and filter for every pair. Each pair writes only its own
// slot, and slots are concatenated in pair order.
func explore(ctx context.Context, g *network.Graph, ref *domain.ReferenceData, pairs []pair, f domain.SearchFilter, lim limits, workers int) ([]domain.Pathway, error) {
	if workers < 1 {
		workers = 1
	}
	slots := make([][]domain.Pathway, len(pairs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, pr := range pairs {
		i, pr := i, pr
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			found := truncate(network.Find(g, pr.source, pr.target), lim.paths)
			slots[i] = truncate(Filter(found, f, ref), lim.filtered)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []domain.Pathway
	for _, s := range slots {
		all = append(all, s...)
	}
	return all, nil
}

// rank drops repeated sequences, keeping the first, then scores and sorts
// descending. Equal scores keep discovery order.
func rank(pathways []domain.Pathway, ref *domain.ReferenceData) []domain.ScoredPathway {
	seen := make(map[string]struct{}, len(pathways))
	scored := make([]domain.ScoredPathway, 0, len(pathways))
	for _, p := range pathways {
		key := p.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		scored = append(scored, domain.ScoredPathway{Score: Score(p, ref), Pathway: p.Clone()})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
