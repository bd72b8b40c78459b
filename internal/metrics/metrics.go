package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "divisafe"

// Metrics agrupa los contadores del pipeline con un registry propio.
// Un *Metrics nil es valido y no registra nada.
type Metrics struct {
	registry *prometheus.Registry

	AnalysesTotal     *prometheus.CounterVec
	CrisisDetections  *prometheus.CounterVec
	EscalationsTotal  *prometheus.CounterVec
	LLMFailuresTotal  prometheus.Counter
	RateLimitedTotal  prometheus.Counter
	AnalyzeDuration   prometheus.Histogram
	HTTPRequestsTotal *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Mensajes clasificados por nivel de riesgo",
		}, []string{"risk_level", "primary_emotion"}),
		CrisisDetections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crisis_detections_total",
			Help:      "Crisis detectadas por regla",
		}, []string{"rule"}),
		EscalationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "escalations_total",
			Help:      "Escalaciones a humano por prioridad",
		}, []string{"priority"}),
		LLMFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_failures_total",
			Help:      "Llamadas al LLM que terminaron en la disculpa fija",
		}),
		RateLimitedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rechazados por rate limit",
		}),
		AnalyzeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analyze_duration_seconds",
			Help:      "Duracion del pipeline de analisis",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests HTTP por ruta y status",
		}, []string{"method", "path", "status_code"}),
	}
	reg.MustRegister(
		m.AnalysesTotal,
		m.CrisisDetections,
		m.EscalationsTotal,
		m.LLMFailuresTotal,
		m.RateLimitedTotal,
		m.AnalyzeDuration,
		m.HTTPRequestsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveAnalysis(riskLevel, emotion string, d time.Duration) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(riskLevel, emotion).Inc()
	m.AnalyzeDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveCrisis(ruleID string) {
	if m == nil {
		return
	}
	if ruleID == "" {
		ruleID = "unknown"
	}
	m.CrisisDetections.WithLabelValues(ruleID).Inc()
}

func (m *Metrics) ObserveEscalation(priority string) {
	if m == nil {
		return
	}
	m.EscalationsTotal.WithLabelValues(priority).Inc()
}

func (m *Metrics) ObserveLLMFailure() {
	if m == nil {
		return
	}
	m.LLMFailuresTotal.Inc()
}

func (m *Metrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.RateLimitedTotal.Inc()
}

func (m *Metrics) ObserveHTTP(method, path, status string) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
}

// Registry expone el registry para tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler sirve /metrics en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
