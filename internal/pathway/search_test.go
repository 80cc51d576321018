package pathway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/rxnpath/internal/domain"
	"github.com/vanshika/rxnpath/internal/domain/domaintest"
	"github.com/vanshika/rxnpath/internal/network"
)

func chain(tokens ...string) []domain.Endpoint {
	out := make([]domain.Endpoint, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, domain.ParseEndpoint(tok))
	}
	return out
}

func pathwaysOf(results []domain.ScoredPathway) []domain.Pathway {
	out := make([]domain.Pathway, 0, len(results))
	for _, r := range results {
		out = append(out, r.Pathway)
	}
	return out
}

func runSearch(t *testing.T, q domain.Query, opts Options) Result {
	t.Helper()
	ref := domaintest.SixReactions()
	g := network.BuildFromReference(ref, nil)
	res, err := Search(context.Background(), g, ref, q, opts)
	require.NoError(t, err)
	return res
}

func TestSearch_CompoundChains(t *testing.T) {
	tests := []struct {
		name string
		q    domain.Query
		want []domain.Pathway
	}{
		{
			name: "start to goal",
			q:    domain.Query{MaxResults: 10, Chain: chain("1", "3")},
			want: []domain.Pathway{{"2", "6"}, {"1"}},
		},
		{
			name: "interior compound required",
			q:    domain.Query{MaxResults: 10, Chain: chain("1", "3", "5")},
			want: []domain.Pathway{{"1", "4"}},
		},
		{
			name: "open goal",
			q:    domain.Query{MaxResults: 10, Chain: chain("1", "any")},
			want: []domain.Pathway{{"2", "6"}, {"1"}, {"1", "4"}, {"2"}},
		},
		{
			name: "open start",
			q:    domain.Query{MaxResults: 10, Chain: chain("any", "1")},
			want: []domain.Pathway{{"3"}, {"6", "3"}, {"5"}, {"4", "5"}},
		},
		{
			name: "open start with enzyme",
			q:    domain.Query{MaxResults: 10, Chain: chain("any", "1"), Enzymes: []string{"1"}},
			want: []domain.Pathway{{"3"}, {"6", "3"}},
		},
		{
			name: "start to goal with enzymes",
			q:    domain.Query{MaxResults: 10, Chain: chain("1", "3"), Enzymes: []string{"1", "2"}},
			want: []domain.Pathway{{"1"}},
		},
		{
			name: "both ends open",
			q:    domain.Query{MaxResults: 10, Chain: chain("any", "any")},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runSearch(t, tt.q, Options{Workers: 4})
			if tt.want == nil {
				assert.Empty(t, res.Pathways)
				return
			}
			assert.Equal(t, tt.want, pathwaysOf(res.Pathways))
		})
	}
}

func TestSearch_Enzymes(t *testing.T) {
	tests := []struct {
		name    string
		enzymes []string
		want    []domain.Pathway
	}{
		{
			name:    "single enzyme searches from anywhere",
			enzymes: []string{"1"},
			want: []domain.Pathway{
				{"1"}, {"1", "4"}, {"1", "4", "5"},
				{"2"}, {"2", "6"}, {"2", "6", "3"},
				{"3"}, {"3", "2"}, {"3", "2", "6"},
				{"4", "5", "1"}, {"5", "1"}, {"6", "3"}, {"6", "3", "2"},
			},
		},
		{
			name:    "two enzymes",
			enzymes: []string{"1", "2"},
			want: []domain.Pathway{
				{"1"}, {"1", "4"}, {"1", "4", "5"},
				{"4", "5", "1"}, {"5", "1"}, {"5", "1", "4"},
			},
		},
		{
			name:    "three enzymes",
			enzymes: []string{"1", "2", "3"},
			want: []domain.Pathway{
				{"1", "4"}, {"1", "4", "5"}, {"4", "5", "1"}, {"5", "1", "4"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runSearch(t, domain.Query{MaxResults: 20, Enzymes: tt.enzymes}, Options{})
			assert.ElementsMatch(t, tt.want, pathwaysOf(res.Pathways))
		})
	}
}

func TestSearch_RanksAndTruncates(t *testing.T) {
	res := runSearch(t, domain.Query{MaxResults: 3, Enzymes: []string{"1"}}, Options{})

	require.Len(t, res.Pathways, 3)
	assert.Equal(t, 13, res.Candidates)
	for i := 1; i < len(res.Pathways); i++ {
		assert.GreaterOrEqual(t, res.Pathways[i-1].Score, res.Pathways[i].Score)
	}
}

func TestSearch_NoSourceProducingOrTargetConsumingSteps(t *testing.T) {
	ref := domaintest.SixReactions()
	res := runSearch(t, domain.Query{MaxResults: 20, Chain: chain("1", "3")}, Options{})

	for _, r := range res.Pathways {
		for _, id := range r.Pathway {
			assert.False(t, ref.Reactions[id].ProductSet().Has("1"), "step %s regenerates the start", id)
			assert.False(t, ref.Reactions[id].SubstrateSet().Has("3"), "step %s consumes the goal", id)
		}
	}
}

func TestSearch_ParallelMatchesSequential(t *testing.T) {
	q := domain.Query{MaxResults: 20, Enzymes: []string{"1"}, ForbiddenLinks: []string{"4"}}

	sequential := runSearch(t, q, Options{Workers: 1, Bounds: DefaultBounds()})
	for i := 0; i < 10; i++ {
		parallel := runSearch(t, q, Options{Workers: 8, Bounds: DefaultBounds()})
		require.Equal(t, sequential.Pathways, parallel.Pathways)
	}
}

func TestSearch_BoundsNeverAddResults(t *testing.T) {
	q := domain.Query{MaxResults: 20, Chain: chain("1", "any")}
	tight := Bounds{Enabled: true, SourceTargetBudget: 1, PathBudget: 1, FilterDivisor: 1, EndpointCap: 1}

	full := runSearch(t, q, Options{})
	bounded := runSearch(t, q, Options{Bounds: tight})

	assert.Equal(t, []domain.Pathway{{"1"}}, pathwaysOf(bounded.Pathways))
	assert.Subset(t, pathwaysOf(full.Pathways), pathwaysOf(bounded.Pathways))
	assert.Equal(t, full.Pathways, runSearch(t, q, Options{Bounds: DefaultBounds()}).Pathways)
}

func TestSearch_UnknownCompoundIsEmpty(t *testing.T) {
	res := runSearch(t, domain.Query{MaxResults: 5, Chain: chain("404", "3")}, Options{})
	assert.Empty(t, res.Pathways)
}

func TestSearch_CancelledContext(t *testing.T) {
	ref := domaintest.SixReactions()
	g := network.BuildFromReference(ref, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := Search(ctx, g, ref, domain.Query{MaxResults: 5, Enzymes: []string{"1"}}, Options{Workers: 2})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
