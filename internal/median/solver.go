package median

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Defaults used by Median.
const (
	DefaultMaxDiff  = 5.0
	DefaultFactor   = 0.2
	DefaultDecrease = 0.5
	DefaultChunks   = 1

	baseIterations = 1 << 16
	// maxSlack bounds the maxdiff share of the derived cap so it fits an int.
	maxSlack = 1 << 29
)

// Params tunes the partition search.
type Params struct {
	// MaxDiff is the imbalance, in elements, below which the search walks
	// neighbour by neighbour. Negative values are a fraction of the
	// dataset length.
	MaxDiff float64
	// Factor scales each step. It only ever shrinks during a solve.
	Factor float64
	// Decrease is the minimum shrink ratio applied to Factor on overshoot.
	Decrease float64
	// Chunks is the number of segments counted concurrently. 1 disables
	// the fan-out.
	Chunks int
	// MaxIterations caps the number of counting passes. Zero derives a cap
	// from MaxDiff.
	MaxIterations int
}

// DefaultParams returns the parameters used by Median.
func DefaultParams() Params {
	return Params{
		MaxDiff:  DefaultMaxDiff,
		Factor:   DefaultFactor,
		Decrease: DefaultDecrease,
		Chunks:   DefaultChunks,
	}
}

func (p Params) validate() error {
	switch {
	case math.IsNaN(p.MaxDiff) || math.IsInf(p.MaxDiff, 0):
		return fmt.Errorf("%w: maxdiff %v", ErrInvalidParams, p.MaxDiff)
	case !(p.Factor > 0) || math.IsInf(p.Factor, 0):
		return fmt.Errorf("%w: factor %v must be a positive finite number", ErrInvalidParams, p.Factor)
	case !(p.Decrease > 0 && p.Decrease < 1):
		return fmt.Errorf("%w: decrease %v must lie in (0, 1)", ErrInvalidParams, p.Decrease)
	case p.MaxIterations < 0:
		return fmt.Errorf("%w: max iterations %d", ErrInvalidParams, p.MaxIterations)
	}
	return nil
}

// Result carries the median together with diagnostics of the solve.
type Result struct {
	Median      float64
	Mean        float64
	Iterations  int
	Retractions int
	// Final holds the counts taken at the last candidate tested.
	Final Counts
}

// Option configures a solve.
type Option func(*solver)

// WithLogger sets the logger receiving the per-iteration debug trace.
// The global zerolog logger is used otherwise.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *solver) {
		s.logger = logger
	}
}

type solver struct {
	data   []float64
	chunks int
	logger zerolog.Logger
}

func (s *solver) count(candidate float64) (Counts, error) {
	if s.chunks == 1 {
		return CountPartition(s.data, candidate), nil
	}
	return ParallelCount(s.data, candidate, s.chunks)
}

// Median returns the median of data using the default parameters.
// An empty dataset yields NaN and no error.
func Median(data []float64) (float64, error) {
	return Calculate(data, DefaultMaxDiff, DefaultFactor, DefaultDecrease, DefaultChunks)
}

// Calculate returns the median of data with explicit tuning.
func Calculate(data []float64, maxdiff, factor, decrease float64, chunks int) (float64, error) {
	res, err := Solve(data, Params{
		MaxDiff:  maxdiff,
		Factor:   factor,
		Decrease: decrease,
		Chunks:   chunks,
	})
	return res.Median, err
}

// Solve computes the median of data without reordering or copying it.
//
// data must not contain NaN; such input is rejected with ErrNaN. The
// slice is only read, so it may be shared with concurrent readers.
func Solve(data []float64, p Params, opts ...Option) (Result, error) {
	n := len(data)
	if n == 0 {
		return Result{Median: math.NaN(), Mean: math.NaN()}, nil
	}
	if err := p.validate(); err != nil {
		return Result{}, err
	}
	if p.Chunks < 1 || p.Chunks > n {
		return Result{}, fmt.Errorf("%w: got %d for %d elements", ErrInvalidChunks, p.Chunks, n)
	}
	switch n {
	case 1:
		return Result{Median: data[0], Mean: data[0]}, nil
	case 2:
		avg := (data[0] + data[1]) / 2
		return Result{Median: avg, Mean: avg}, nil
	}

	s := &solver{
		data:   data,
		chunks: p.Chunks,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	maxdiff := p.MaxDiff
	if maxdiff < 0 {
		maxdiff = -maxdiff * float64(n)
	}
	limit := p.MaxIterations
	if limit == 0 {
		limit = baseIterations + 2*int(math.Min(math.Ceil(maxdiff), maxSlack))
	}

	mean, finiteMean, err := meanOf(data)
	if err != nil {
		return Result{}, err
	}
	candidate := mean
	if math.IsNaN(candidate) || math.IsInf(candidate, 0) {
		candidate = finiteMean
		if math.IsInf(candidate, 0) {
			candidate = 0
		}
	}

	s.logger.Debug().
		Float64("start", candidate).
		Float64("maxdiff", maxdiff).
		Float64("factor", p.Factor).
		Float64("decrease", p.Decrease).
		Int("chunks", p.Chunks).
		Msg("Partition search starting")

	ctrl := newStepController(maxdiff, p.Factor, p.Decrease, candidate)
	evenlen := n%2 == 0
	res := Result{Mean: mean}

	for {
		if res.Iterations >= limit {
			return res, fmt.Errorf("%w after %d iterations, last candidate %v", ErrNoConvergence, limit, candidate)
		}
		c, err := s.count(candidate)
		if err != nil {
			return res, err
		}
		res.Iterations++
		res.Final = c
		same := c.Same(n)

		switch {
		case c.Low == c.High:
			if same == 0 {
				candidate = (c.Below + c.Above) / 2
			}
			return s.finish(res, candidate, ctrl), nil
		case c.Low > c.High:
			excess := c.Low - c.High
			if excess <= same {
				return s.finish(res, resolveTie(same, evenlen, c.Below, c.Above, candidate), ctrl), nil
			}
			candidate = ctrl.next(float64(excess-same), -1, candidate, c, &s.logger)
		default:
			excess := c.High - c.Low
			if excess <= same {
				return s.finish(res, resolveTie(same, evenlen, c.Above, c.Below, candidate), ctrl), nil
			}
			candidate = ctrl.next(float64(excess-same), 1, candidate, c, &s.logger)
		}

		s.logger.Debug().
			Int("iteration", res.Iterations).
			Int("nlow", c.Low).
			Int("nhigh", c.High).
			Int("nsame", same).
			Float64("below", c.Below).
			Float64("above", c.Above).
			Float64("delta", ctrl.delta).
			Float64("partition", candidate).
			Msg("Partition updated")
	}
}

func (s *solver) finish(res Result, candidate float64, ctrl *stepController) Result {
	res.Median = candidate
	res.Retractions = ctrl.retractions
	s.logger.Debug().
		Int("iterations", res.Iterations).
		Int("retractions", res.Retractions).
		Float64("median", candidate).
		Msg("Partition search converged")
	return res
}

// resolveTie picks the median once the imbalance is covered by the elements
// equal to candidate. inner is the neighbour on the heavy side.
func resolveTie(same int, evenlen bool, inner, outer, candidate float64) float64 {
	if same > 0 {
		if evenlen && same == 1 {
			return (inner + candidate) / 2
		}
		return candidate
	}
	if evenlen {
		return (inner + outer) / 2
	}
	return inner
}
