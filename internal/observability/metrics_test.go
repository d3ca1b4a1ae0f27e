package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_VisitRecorded(t *testing.T) {
	before := testutil.ToFloat64(visitsRecordedTotal.WithLabelValues("created"))

	NewRecorder().VisitRecorded("created")

	after := testutil.ToFloat64(visitsRecordedTotal.WithLabelValues("created"))
	assert.Equal(t, before+1, after)
}

func TestRecorder_CacheLookup(t *testing.T) {
	r := NewRecorder()
	hits := testutil.ToFloat64(cacheLookupsTotal.WithLabelValues("visitor_metrics", "hit"))
	misses := testutil.ToFloat64(cacheLookupsTotal.WithLabelValues("visitor_metrics", "miss"))

	r.CacheLookup("visitor_metrics", true)
	r.CacheLookup("visitor_metrics", false)
	r.CacheLookup("visitor_metrics", false)

	assert.Equal(t, hits+1, testutil.ToFloat64(cacheLookupsTotal.WithLabelValues("visitor_metrics", "hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(cacheLookupsTotal.WithLabelValues("visitor_metrics", "miss")))
}

func TestObserveHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/visitors", "200"))

	ObserveHTTPRequest("GET", "/visitors", http.StatusOK, 12*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/visitors", "200")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	NewRecorder().VisitRecorded("duplicate")

	app := fiber.New()
	app.Get("/internal/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/internal/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "visitor_metrics_visits_recorded_total"))
}
