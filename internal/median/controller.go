package median

import (
	"math"

	"github.com/rs/zerolog"
)

// stepController owns the adaptive step state of a single solve.
type stepController struct {
	diff     float64
	factor   float64
	maxdiff  float64
	prevdiff float64 // signed imbalance at the last accepted candidate
	delta    float64 // Above - Below at the last accepted candidate
	decrease float64

	prevCandidate float64
	retractions   int
}

func newStepController(maxdiff, factor, decrease, start float64) *stepController {
	return &stepController{
		diff:          maxdiff,
		factor:        factor,
		maxdiff:       maxdiff,
		prevdiff:      math.Inf(1),
		decrease:      decrease,
		prevCandidate: start,
	}
}

// next returns the candidate to test after candidate left an imbalance of
// diff elements, net of ties. sign is -1 to move down and +1 to move up.
func (s *stepController) next(diff, sign, candidate float64, c Counts, logger *zerolog.Logger) float64 {
	s.diff = diff

	neighbour := c.Above
	if sign < 0 {
		neighbour = c.Below
	}

	if s.diff <= s.maxdiff {
		return neighbour
	}

	if prev := math.Abs(s.prevdiff); s.diff > prev {
		// Overshoot: go back to the reference point with a smaller step.
		ratio := prev / s.diff
		if ratio < s.decrease {
			s.factor *= ratio
		} else {
			s.factor *= s.decrease
		}
		s.retractions++
		logger.Debug().
			Float64("factor", s.factor).
			Float64("ratio", ratio).
			Msg("Rescaled step factor")
		return s.prevCandidate + s.prevdiff*s.factor*s.delta
	}

	gap := c.Above - c.Below
	if math.IsInf(gap, 0) {
		// No finite gap to scale by; walk to the neighbour instead.
		return neighbour
	}

	s.prevdiff = s.diff * sign
	s.delta = gap
	s.prevCandidate = candidate
	return candidate + s.diff*s.factor*s.delta*sign
}
