package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_ObserveSearch(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSearch(reg)

	m.ObserveSearch(OutcomeOK, 20*time.Millisecond, 13, 5)
	m.ObserveSearch(OutcomeOK, time.Millisecond, 0, 0)
	m.ObserveSearch(OutcomeInvalid, 0, 0, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.searches.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.searches.WithLabelValues(OutcomeInvalid)))

	count, err := testutil.GatherAndCount(reg, "rxnpath_search_results")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSearch_NetworkAndReloads(t *testing.T) {
	m := NewSearch(prometheus.NewRegistry())

	m.SetNetworkSize(6, 10)
	m.ObserveReload(nil)
	m.ObserveReload(errors.New("boom"))

	assert.Equal(t, 6.0, testutil.ToFloat64(m.nodes))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.edges))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reloads.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reloads.WithLabelValues(OutcomeError)))
}

func TestSearch_NilIsNoop(t *testing.T) {
	var m *Search
	assert.NotPanics(t, func() {
		m.ObserveSearch(OutcomeOK, time.Second, 1, 1)
		m.SetNetworkSize(1, 1)
		m.ObserveReload(nil)
	})
}
