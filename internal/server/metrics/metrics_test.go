package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordAuth(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAuth("password", OutcomeSuccess)
	c.RecordAuth("password", OutcomeFailure)
	c.RecordAuth("password", OutcomeFailure)
	c.RecordAuth("google", OutcomeSuccess)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.authAttempts.WithLabelValues("password", OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.authAttempts.WithLabelValues("password", OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.authAttempts.WithLabelValues("google", OutcomeSuccess)))
}

func TestCollector_RecordRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest(http.MethodGet, "/api/v1/tasks/{id}", http.StatusOK, 10*time.Millisecond)
	c.RecordRequest(http.MethodGet, "/api/v1/tasks/{id}", http.StatusNotFound, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues(http.MethodGet, "/api/v1/tasks/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues(http.MethodGet, "/api/v1/tasks/{id}", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.requestDuration))
}

func TestCollector_Revocations(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRevocation()
	c.RecordPruned(3)
	c.RecordPruned(0)
	c.RecordRevokedTokens(7)
	c.RecordRevokedTokens(4)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.revocations))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.pruned))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.revokedTokens))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordRevocation()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "gophtodo_tokens_revoked_total 1")
}

func TestNewCollector_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	assert.Panics(t, func() { NewCollector(reg) })
}
