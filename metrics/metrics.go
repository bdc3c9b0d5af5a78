// Package metrics exposes report results as Prometheus metrics. A run can be
// exported to a node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ora_monitoring"

var (
	Registry = prometheus.NewRegistry()

	ReportRunsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_runs_total",
		Help:      "Number of report computations.",
	}, []string{"report"})

	ReportScoreGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "report_score",
		Help:      "Raw points of the last computation of a report.",
	}, []string{"report"})

	DisplayScoreGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "display_score",
		Help:      "Normalised 0-100 score shown with the last computation of a report.",
	}, []string{"report"})

	ReportDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_duration_seconds",
		Help:      "Time spent computing a report.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{"report"})

	MissingFilesCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshot_missing_files_total",
		Help:      "Snapshot files a report looked for but did not find.",
	}, []string{"report"})

	SessionStoreErrorsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_store_errors_total",
		Help:      "Failed session store operations.",
	}, []string{"op"})
)

func init() {
	Registry.MustRegister(
		ReportRunsCounter,
		ReportScoreGauge,
		DisplayScoreGauge,
		ReportDurationHistogram,
		MissingFilesCounter,
		SessionStoreErrorsCounter,
	)
}

// ObserveReport records one finished report computation.
func ObserveReport(report string, raw int64, display float64, cost time.Duration) {
	ReportRunsCounter.WithLabelValues(report).Inc()
	ReportScoreGauge.WithLabelValues(report).Set(float64(raw))
	DisplayScoreGauge.WithLabelValues(report).Set(display)
	ReportDurationHistogram.WithLabelValues(report).Observe(cost.Seconds())
}

// WriteTextFile writes all metrics to path in the Prometheus text format.
func WriteTextFile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return errors.Wrapf(err, "failed to write metrics to %s", path)
	}
	return nil
}
