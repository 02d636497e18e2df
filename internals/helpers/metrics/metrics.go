package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry terpisah dari default global supaya test bisa bikin instance sendiri.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	Checkouts       *prometheus.CounterVec
	PaymentStatuses *prometheus.CounterVec
	JobRuns         *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gymku",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gymku",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gymku",
			Name:      "checkouts_total",
			Help:      "Checkout attempts by purchasable type and result.",
		}, []string{"type", "result"}),
		PaymentStatuses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gymku",
			Name:      "payment_status_transitions_total",
			Help:      "Transaction status transitions applied.",
		}, []string{"status"}),
		JobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gymku",
			Name:      "job_runs_total",
			Help:      "Background job runs by job and result.",
		}, []string{"job", "result"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests, m.HTTPDuration, m.Checkouts, m.PaymentStatuses, m.JobRuns,
	)
	return m
}

// Nil-safe helpers: service boleh jalan tanpa metrics (mis. di test).

func (m *Metrics) IncCheckout(purchasableType, result string) {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues(purchasableType, result).Inc()
}

func (m *Metrics) IncPaymentStatus(status string) {
	if m == nil {
		return
	}
	m.PaymentStatuses.WithLabelValues(status).Inc()
}

func (m *Metrics) IncJob(job string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.JobRuns.WithLabelValues(job, result).Inc()
}
