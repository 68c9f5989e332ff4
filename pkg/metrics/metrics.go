package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	BookingsCreatedTotal  *prometheus.CounterVec
	PaymentsVerifiedTotal prometheus.Counter
	ReportsGeneratedTotal prometheus.Counter
	ReportDownloadsTotal  *prometheus.CounterVec
	OtpIssuedTotal        *prometheus.CounterVec

	MailSendFailures prometheus.Counter

	DBConnections prometheus.Gauge
}

func NewCollector(serviceName string) *Collector {
	return &Collector{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		BookingsCreatedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "portal",
			Name:      "bookings_created_total",
			Help:      "Total bookings created by collection type and initial payment status.",
		}, []string{"collection_type", "payment_status"}),

		PaymentsVerifiedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "portal",
			Name:      "payments_verified_total",
			Help:      "Total manual payment verifications performed by admins.",
		}),

		ReportsGeneratedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "portal",
			Name:      "reports_generated_total",
			Help:      "Total lab reports generated.",
		}),

		ReportDownloadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "portal",
			Name:      "report_downloads_total",
			Help:      "Report download attempts by outcome.",
		}, []string{"outcome"}),

		OtpIssuedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "portal",
			Name:      "otp_issued_total",
			Help:      "One-time codes issued by purpose.",
		}, []string{"purpose"}),

		MailSendFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "portal",
			Name:      "mail_send_failures_total",
			Help:      "Outgoing mail failures. The surrounding request still succeeds.",
		}),

		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "db",
			Name:      "open_connections",
			Help:      "Current number of open database connections.",
		}),
	}
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
