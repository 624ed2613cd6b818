package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector("provledger")

	c.ObserveLedgerCall("create", OutcomeOK, 10*time.Millisecond)
	c.ObserveLedgerCall("create", OutcomeOK, 20*time.Millisecond)
	c.IncPoll("status")
	c.IncPublished("instance")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.LedgerCalls.WithLabelValues("create", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.PollAttempts.WithLabelValues("status")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Published.WithLabelValues("instance")))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "provledger_ledger_calls_total"))
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveLedgerCall("create", OutcomeOK, time.Millisecond)
		c.IncPoll("status")
		c.IncPublished("relation")
		c.SetBreakerState("ledger", 0)
	})
}

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewCollector("a")
	b := NewCollector("a")

	a.IncPoll("status")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.PollAttempts.WithLabelValues("status")))
}
