package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()
	require.NotNil(t, ingestURLsTotal)
	require.NotNil(t, httpRequestsTotal)
}

func TestObserveIngestCounts(t *testing.T) {
	Init()

	before := testutil.ToFloat64(ingestURLsTotal.WithLabelValues(IngestInserted))
	ObserveIngest(IngestInserted)
	after := testutil.ToFloat64(ingestURLsTotal.WithLabelValues(IngestInserted))
	require.Equal(t, before+1, after)
}

func TestWorkerGauge(t *testing.T) {
	Init()

	base := testutil.ToFloat64(ingestActiveWorkers)
	IncActiveWorkers()
	require.Equal(t, base+1, testutil.ToFloat64(ingestActiveWorkers))
	DecActiveWorkers()
	require.Equal(t, base, testutil.ToFloat64(ingestActiveWorkers))
}

func TestQueueDepthGauge(t *testing.T) {
	Init()

	SetQueueDepth(7)
	require.Equal(t, 7.0, testutil.ToFloat64(queueDepth))
}

func TestObserveHTTPRequestDoesNotPanic(t *testing.T) {
	Init()

	ObserveHTTPRequest("GET", "/v1/urls", 200, 25*time.Millisecond)
	ObserveBatch(time.Second)
}
