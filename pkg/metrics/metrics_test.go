package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector()

	c.ObserveTransition("close", nil)
	c.ObserveTransition("close", nil)
	c.ObserveTransition("assign", errors.New("closed"))
	c.ObserveAssumedCadence()
	c.ObserveReport(false, 0.02, 3)
	c.ObserveReport(true, 0, 0)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.transitions.WithLabelValues("close", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.transitions.WithLabelValues("assign", "rejected")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.assumedCadence))
	assert.Equal(t, float64(3), testutil.ToFloat64(c.danglingOrders))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.reportBuilds.WithLabelValues("hit")))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "biomed_work_order_transitions_total")
}
