// Package metrics holds the Prometheus collectors for the grievance service.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service counters on a private registry. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	submissions   *prometheus.CounterVec
	classifier    *prometheus.CounterVec
	statusUpdates *prometheus.CounterVec
	reclassified  *prometheus.CounterVec
}

// New registers all collectors, plus the Go and process collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.submissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grievance",
		Name:      "submissions_total",
		Help:      "Grievances stored, split by whether the classifier answered",
	}, []string{"classified"})
	m.classifier = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grievance",
		Name:      "classifier_requests_total",
		Help:      "Calls to the classification service by outcome",
	}, []string{"outcome"})
	m.statusUpdates = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grievance",
		Name:      "status_updates_total",
		Help:      "Status overwrites by new status",
	}, []string{"status"})
	m.reclassified = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grievance",
		Name:      "reclassified_total",
		Help:      "Re-classification attempts for previously unclassified grievances",
	}, []string{"outcome"})

	m.registry.MustRegister(
		m.submissions,
		m.classifier,
		m.statusUpdates,
		m.reclassified,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Submitted(classified bool) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(strconv.FormatBool(classified)).Inc()
}

func (m *Metrics) ClassifierCall(ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "unavailable"
	}
	m.classifier.WithLabelValues(outcome).Inc()
}

func (m *Metrics) StatusUpdated(status string) {
	if m == nil {
		return
	}
	m.statusUpdates.WithLabelValues(status).Inc()
}

func (m *Metrics) Reclassified(ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	m.reclassified.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
