package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	return string(body)
}

func TestMetrics_Observe(t *testing.T) {
	m := New()
	m.ObserveAnalysis("crisis", "sad", 2*time.Millisecond)
	m.ObserveAnalysis("low", "hopeful", time.Millisecond)
	m.ObserveCrisis("self_harm")
	m.ObserveCrisis("")
	m.ObserveEscalation("high")
	m.ObserveLLMFailure()

	out := scrape(t, m)
	for _, want := range []string{
		`divisafe_analyses_total{primary_emotion="sad",risk_level="crisis"} 1`,
		`divisafe_crisis_detections_total{rule="unknown"} 1`,
		`divisafe_crisis_detections_total{rule="self_harm"} 1`,
		`divisafe_escalations_total{priority="high"} 1`,
		`divisafe_llm_failures_total 1`,
		`divisafe_analyze_duration_seconds_count 2`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveAnalysis("low", "sad", time.Millisecond)
	m.ObserveCrisis("x")
	m.ObserveEscalation("high")
	m.ObserveLLMFailure()
	m.ObserveRateLimited()
	m.ObserveHTTP("GET", "/health", "200")
}
