package metrics

import (
	"errors"
	"fmt"
	"time"

	"lowmedian/internal/median"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	SolvesH     = "The total number of median solves, by outcome"
	SolvesN     = "lowmedian_solves_total"
	IterationsH = "Counting passes needed by a solve"
	IterationsN = "lowmedian_solve_iterations"
	DurationH   = "Wall-clock duration of a solve in seconds"
	DurationN   = "lowmedian_solve_duration_seconds"
	ElementsH   = "Number of elements in the most recent dataset"
	ElementsN   = "lowmedian_dataset_elements"
)

// Outcome labels.
const (
	OutcomeOK        = "ok"
	OutcomeInvalid   = "invalid"
	OutcomeNoConverg = "no_convergence"
)

// Recorder owns a private registry with the solver collectors.
type Recorder struct {
	registry   *prometheus.Registry
	solves     *prometheus.CounterVec
	iterations prometheus.Histogram
	duration   prometheus.Histogram
	elements   prometheus.Gauge
}

// NewRecorder creates the collectors on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		solves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: SolvesN,
			Help: SolvesH,
		}, []string{"outcome"}),
		iterations: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    IterationsN,
			Help:    IterationsH,
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    DurationN,
			Help:    DurationH,
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
		}),
		elements: factory.NewGauge(prometheus.GaugeOpts{
			Name: ElementsN,
			Help: ElementsH,
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe records one solve over n elements.
func (r *Recorder) Observe(n int, res median.Result, elapsed time.Duration, err error) {
	r.elements.Set(float64(n))
	switch {
	case err == nil:
		r.solves.WithLabelValues(OutcomeOK).Inc()
		r.iterations.Observe(float64(res.Iterations))
		r.duration.Observe(elapsed.Seconds())
	case errors.Is(err, median.ErrNoConvergence):
		r.solves.WithLabelValues(OutcomeNoConverg).Inc()
	default:
		r.solves.WithLabelValues(OutcomeInvalid).Inc()
	}
}

// WriteTextfile writes the registry in the node-exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
