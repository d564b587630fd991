package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/harrisonrobin/taskplan/pkg/schedule"
)

// Metrics holds the project gauges and request instrumentation.
type Metrics struct {
	Rows            prometheus.Gauge
	DelayedRows     prometheus.Gauge
	BurnRate        prometheus.Gauge
	OverallProgress prometheus.Gauge
	TotalBudget     prometheus.Gauge
	TotalCost       prometheus.Gauge

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Rows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "taskplan_rows",
			Help: "Number of rows in the task table",
		}),
		DelayedRows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "taskplan_delayed_rows",
			Help: "Rows whose end date is before today",
		}),
		BurnRate: factory.NewGauge(prometheus.GaugeOpts{
			Name: "taskplan_burn_rate",
			Help: "Total cost over total budget, NaN when the budget is zero",
		}),
		OverallProgress: factory.NewGauge(prometheus.GaugeOpts{
			Name: "taskplan_overall_progress_percent",
			Help: "Mean progress over all rows, NaN when the table is empty",
		}),
		TotalBudget: factory.NewGauge(prometheus.GaugeOpts{
			Name: "taskplan_budget_total",
			Help: "Sum of row budgets",
		}),
		TotalCost: factory.NewGauge(prometheus.GaugeOpts{
			Name: "taskplan_cost_total",
			Help: "Sum of row costs",
		}),
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "taskplan_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "code"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taskplan_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

func (m *Metrics) observe(route string, code int, d time.Duration) {
	m.Requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) set(h schedule.Health) {
	m.Rows.Set(float64(h.Rows))
	m.DelayedRows.Set(float64(h.Delayed))
	m.BurnRate.Set(h.BurnRate.Float())
	m.OverallProgress.Set(h.OverallProgress.Float())
	m.TotalBudget.Set(h.TotalBudget)
	m.TotalCost.Set(h.TotalCost)
}

func (s *Server) refreshGauges() {
	s.metrics.set(schedule.Summarize(s.snapshot(), s.today()))
}
