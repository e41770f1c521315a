package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/posematch/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by the engine hooks.
type Metrics struct {
	Loads         *prometheus.CounterVec
	LoadDuration  prometheus.Histogram
	Runs          prometheus.Counter
	MatchDuration prometheus.Histogram
	Poses         *prometheus.CounterVec
	BytesWritten  prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "posematch_resource_loads_total",
				Help: "Total number of matrix documents loaded",
			},
			[]string{"path"},
		),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "posematch_load_duration_seconds",
			Help:    "Duration of resource load and decode",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "posematch_matches_total",
			Help: "Total number of matching passes",
		}),
		MatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "posematch_match_duration_seconds",
			Help:    "Duration of the matching pass",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		Poses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "posematch_poses_total",
				Help: "Poses processed, by category",
			},
			[]string{"category"},
		),
		BytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "posematch_output_bytes_total",
			Help: "Bytes of matched documents written",
		}),
	}

	for _, c := range []prometheus.Collector{m.Loads, m.LoadDuration, m.Runs, m.MatchDuration, m.Poses, m.BytesWritten} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns engine hooks that record into m and log each event at debug level.
// A nil logger disables logging.
func (m *Metrics) Hooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnLoad: func(ctx context.Context, e *domain.LoadEvent) {
			m.Loads.WithLabelValues(e.Path).Inc()
			m.LoadDuration.Observe(e.Duration.Seconds())
			if logger != nil {
				logger.DebugContext(ctx, "load", "path", e.Path, "count", e.Count)
			}
		},
		OnMatch: func(ctx context.Context, e *domain.MatchEvent) {
			m.Runs.Inc()
			m.MatchDuration.Observe(e.Duration.Seconds())
			m.Poses.WithLabelValues(string(domain.CategoryMatched)).Add(float64(e.MatchedCount))
			m.Poses.WithLabelValues(string(domain.CategoryUnmatched)).Add(float64(e.ModelCount - e.MatchedCount))
			m.Poses.WithLabelValues(string(domain.CategorySpace)).Add(float64(e.SpaceCount))
			if logger != nil {
				logger.DebugContext(ctx, "match", "model", e.ModelCount, "space", e.SpaceCount, "matched", e.MatchedCount)
			}
		},
		OnSave: func(ctx context.Context, e *domain.SaveEvent) {
			m.BytesWritten.Add(float64(e.Bytes))
			if logger != nil {
				logger.DebugContext(ctx, "save", "path", e.Path, "bytes", e.Bytes)
			}
		},
	}
}
