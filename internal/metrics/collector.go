package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder collects the counters of a single run. Each Recorder owns its registry so runs and
// tests never share state with the default registry.
// Recorder 收集单次运行的指标。每个 Recorder 拥有独立的注册表，不与默认注册表共享状态。
type Recorder struct {
	registry *prometheus.Registry

	LinesFetched prometheus.Counter
	Hits         *prometheus.CounterVec
	Runs         *prometheus.CounterVec
	LastRun      prometheus.Gauge
}

// NewRecorder creates a Recorder with all metrics registered.
// NewRecorder 创建并注册所有指标的 Recorder。
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		LinesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "logwatch_lines_fetched_total",
			Help: "Log lines retrieved from the source",
		}),
		Hits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logwatch_hits_total",
				Help: "Pattern hits by pattern name, before the incident cap",
			},
			[]string{"pattern"},
		),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logwatch_runs_total",
				Help: "Runs by outcome",
			},
			[]string{"outcome"},
		),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "logwatch_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
	}
	r.registry.MustRegister(r.LinesFetched, r.Hits, r.Runs, r.LastRun)
	return r
}

// ObserveLines records the number of lines fetched.
func (r *Recorder) ObserveLines(n int) {
	if r == nil {
		return
	}
	r.LinesFetched.Add(float64(n))
}

// ObserveHit records one hit for pattern.
func (r *Recorder) ObserveHit(pattern string) {
	if r == nil {
		return
	}
	r.Hits.WithLabelValues(pattern).Inc()
}

// ObserveOutcome records how the run ended and when.
// ObserveOutcome 记录运行的结果及结束时间。
func (r *Recorder) ObserveOutcome(outcome string, at time.Time) {
	if r == nil {
		return
	}
	r.Runs.WithLabelValues(outcome).Inc()
	r.LastRun.Set(float64(at.Unix()))
}

// Gatherer exposes the registry, mainly for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the metrics in the node_exporter textfile format. An empty path is a no-op.
// WriteTextfile 以 node_exporter 文本文件格式写出指标，路径为空时不做任何操作。
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
