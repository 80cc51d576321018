package bootstrap

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/rxnpath/internal/config"
	"github.com/vanshika/rxnpath/internal/domain/domaintest"
	"github.com/vanshika/rxnpath/internal/graph"
	"github.com/vanshika/rxnpath/internal/refdata"
)

func TestSearchConfig(t *testing.T) {
	cfg := config.Default().Search
	got := SearchConfig(cfg)

	assert.Equal(t, cfg.Workers, got.Workers)
	assert.Equal(t, cfg.Timeout, got.Timeout)
	assert.True(t, got.Bounds.Enabled)
	assert.Equal(t, 1000.0, got.Bounds.SourceTargetBudget)
	assert.Equal(t, 5.0, got.Bounds.FilterDivisor)
	assert.Equal(t, 50, got.Bounds.EndpointCap)

	cfg.BoundsEnabled = false
	assert.False(t, SearchConfig(cfg).Bounds.Enabled)
}

func TestBreakerSettings(t *testing.T) {
	s := BreakerSettings(config.BreakerConfig{Timeout: 5 * time.Second, FailureRatio: 0.5})

	assert.Equal(t, 5*time.Second, s.Timeout)
	assert.Equal(t, 0.5, s.FailureThreshold)
	assert.Equal(t, graph.DefaultBreakerSettings().MaxRequests, s.MaxRequests)
}

func TestGraphClient_MissingURI(t *testing.T) {
	_, err := GraphClient(context.Background(), config.GraphConfig{}, nil)
	assert.ErrorIs(t, err, graph.ErrMissingURI)
}

func TestLoadReference(t *testing.T) {
	ctx := context.Background()
	fixture := domaintest.SixReactions()

	dir := t.TempDir()
	require.NoError(t, refdata.Write(dir, fixture))

	st, err := OpenStore(ctx, config.DataConfig{SQLitePath: filepath.Join(t.TempDir(), "rxn.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.SaveReferenceData(ctx, fixture))

	t.Run("bundle", func(t *testing.T) {
		ref, err := LoadReference(ctx, config.DataConfig{Source: config.SourceBundle, BundleDir: dir}, Sources{})
		require.NoError(t, err)
		assert.Len(t, ref.Reactions, 6)
	})

	t.Run("sqlite", func(t *testing.T) {
		ref, err := LoadReference(ctx, config.DataConfig{Source: config.SourceSQLite}, Sources{Store: st})
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2"}, ref.Consumers("1"))
	})

	t.Run("sqlite without store", func(t *testing.T) {
		_, err := LoadReference(ctx, config.DataConfig{Source: config.SourceSQLite}, Sources{})
		assert.Error(t, err)
	})

	t.Run("neo4j", func(t *testing.T) {
		mem := graph.NewMemoryClient()
		mem.PushReadResult(graph.Result{Records: []graph.Record{{
			"rheaId":     "1",
			"substrates": []any{map[string]any{"chebiId": "a", "coefficient": int64(1)}},
			"products":   []any{map[string]any{"chebiId": "b", "coefficient": int64(1)}},
		}}})
		ref, err := LoadReference(ctx, config.DataConfig{Source: config.SourceNeo4j}, Sources{Graph: mem})
		require.NoError(t, err)
		assert.Len(t, ref.Reactions, 1)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := LoadReference(ctx, config.DataConfig{Source: "csv"}, Sources{})
		assert.ErrorContains(t, err, "unknown data source")
	})
}

func TestOpenStore_None(t *testing.T) {
	st, err := OpenStore(context.Background(), config.DataConfig{})
	require.NoError(t, err)
	assert.Nil(t, st)
}
