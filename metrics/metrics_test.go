package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveLookup(t *testing.T) {
	c := New()
	c.ObserveLookup("single", "found")
	c.ObserveLookup("single", "found")
	c.ObserveLookup("bulk", "not_found")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.lookups.WithLabelValues("single", "found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.lookups.WithLabelValues("bulk", "not_found")))
}

func TestCollector_ObserveLoad(t *testing.T) {
	c := New()
	assert.Equal(t, 1.0, testutil.ToFloat64(c.loadState.WithLabelValues("loading")))

	c.ObserveLoad("ready", 42, 2, 1500*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.loadState.WithLabelValues("ready")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.loadState.WithLabelValues("loading")))
	assert.Equal(t, 42.0, testutil.ToFloat64(c.records))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.skipped))
	assert.Equal(t, 1.5, testutil.ToFloat64(c.loadDuration))
}

func TestCollector_Registry(t *testing.T) {
	c := New()
	c.ObserveLookup("single", "found")
	c.ObserveRequest("GET", "/api/stats", "200", 10*time.Millisecond)

	n, err := testutil.GatherAndCount(c.Registry(), "bindb_lookups_total", "bindb_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
