package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/types"
)

const metricsNamespace = "profile_validator"

// Validation outcomes
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
)

// Metrics holds the Prometheus collectors for profile validation.
// Each Metrics owns its registry so several instances can coexist in tests.
type Metrics struct {
	registry    *prometheus.Registry
	validations *prometheus.CounterVec
	scores      *prometheus.HistogramVec
	issues      *prometheus.CounterVec
	requests    *prometheus.CounterVec
}

// NewMetrics creates and registers the validator collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "validations_total",
			Help:      "Profiles validated, by outcome and domain.",
		}, []string{"outcome", "domain"}),
		scores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "quality_score",
			Help:      "Distribution of profile quality scores.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}, []string{"domain"}),
		issues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "issues_total",
			Help:      "Validation findings, by check type and severity.",
		}, []string{"type", "severity"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
	}

	m.registry.MustRegister(
		m.validations,
		m.scores,
		m.issues,
		m.requests,
		prometheus.NewGoCollector(),
	)
	return m
}

// ObserveReport records the outcome, score and findings of one report
func (m *Metrics) ObserveReport(report *types.ValidationReport) {
	if m == nil || report == nil {
		return
	}

	outcome := OutcomeValid
	if !report.Valid {
		outcome = OutcomeInvalid
	}
	m.validations.WithLabelValues(outcome, report.Domain).Inc()
	m.scores.WithLabelValues(report.Domain).Observe(report.QualityScore)

	for _, v := range report.Violations {
		m.issues.WithLabelValues(v.Type, v.Severity).Inc()
	}
}

// ObserveRequest counts one served HTTP request
func (m *Metrics) ObserveRequest(route, code string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, code).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
