package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve(t *testing.T) {
	m := New()
	m.ObserveAttempt("execute_action", "rest_v2", false)
	m.ObserveAttempt("execute_action", "rest_v1", true)
	m.ObserveLLM(true)
	m.ObserveCommand("gmail")
	m.ObserveCommand("gmail")

	if got := testutil.ToFloat64(m.BrokerAttempts.WithLabelValues("execute_action", "rest_v1", "success")); got != 1 {
		t.Errorf("broker success = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.BrokerAttempts.WithLabelValues("execute_action", "rest_v2", "failure")); got != 1 {
		t.Errorf("broker failure = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Commands.WithLabelValues("gmail")); got != 2 {
		t.Errorf("commands = %v, want 2", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `llm_requests_total{outcome="success"} 1`) {
		t.Errorf("metrics output missing llm counter:\n%s", rec.Body.String())
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveAttempt("op", "v", true)
	m.ObserveLLM(false)
	m.ObserveCommand("slack")
}
