// metrics/metrics_test.go
package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	c.ObserveRequest("GET", OutcomeSuccess, 10*time.Millisecond)
	c.ObserveRequest("GET", OutcomeHTTPError, 10*time.Millisecond)
	c.ObserveRequest("GET", OutcomeHTTPError, 10*time.Millisecond)
	c.ObserveRefresh(RefreshSuccess)
	c.ObserveRetry()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", OutcomeHTTPError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.refresh.WithLabelValues(RefreshSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.retries))
	assert.Equal(t, 1, testutil.CollectAndCount(c.duration))
}

func TestCollectorDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)

	_, err = NewCollector(reg)
	assert.Error(t, err)
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveRequest("GET", OutcomeSuccess, time.Second)
		c.ObserveRefresh(RefreshFailure)
		c.ObserveRetry()
	})
}
