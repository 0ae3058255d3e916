package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardGenerated(t *testing.T) {
	m := New()

	m.CardGenerated("standard", "medium", 2, 3, 1, 5*time.Millisecond)
	m.CardGenerated("standard", "medium", 1, 0, 0, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CardsGenerated.WithLabelValues("standard", "medium")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SelectionDiscards))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TemplateErrors))
}

func TestFailuresAndSources(t *testing.T) {
	m := New()

	m.GenerationFailed("not_enough_categories")
	m.SourceLoaded("yaml", "upload")
	m.SourceRejected("invalid_source")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationFailures.WithLabelValues("not_enough_categories")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourcesLoaded.WithLabelValues("yaml", "upload")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourcesRejected.WithLabelValues("invalid_source")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.CardGenerated("golf", "small", 1, 0, 0, time.Millisecond)
		m.GenerationFailed("x")
		m.SourceLoaded("json", "fetch")
		m.SourceRejected("x")
		m.ObserveRequest("GET", "/health", 200, time.Millisecond)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/api/v1/health", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "bingo_http_request_duration_seconds")
	assert.Contains(t, string(body), "go_goroutines")
}
