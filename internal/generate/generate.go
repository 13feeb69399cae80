// Package generate produces synthetic datasets with known shapes for
// exercising the solver on skewed, multi-modal and heavy-tailed input.
package generate

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"

	"lowmedian/internal/dataset"
)

// Kinds lists the supported distributions.
var Kinds = []string{"normal", "bimodal", "flat", "lognormal", "rayleigh", "exp", "planck"}

// Options parameterises a distribution. Zero High selects the per-kind default.
type Options struct {
	N      int
	N2     int // second mode size for bimodal; defaults to N
	Mu     float64
	Sigma  float64
	Mu2    float64
	Sigma2 float64
	Low    float64
	High   float64
	// Clip bounds values to [Clip[0], Clip[1]] when set.
	Clip *[2]float64
	Seed uint64
}

// DefaultOptions mirrors the defaults of the distribution generator.
func DefaultOptions() Options {
	return Options{N: 1000, Mu: 1, Sigma: 1, Mu2: 2, Sigma2: 1}
}

// Total returns the number of values a kind will produce.
func (o Options) Total(kind string) int {
	if kind == "bimodal" {
		n2 := o.N2
		if n2 == 0 {
			n2 = o.N
		}
		return o.N + n2
	}
	return o.N
}

// Sampler returns a function drawing one value of kind.
func Sampler(kind string, o Options) (func() float64, error) {
	rng := rand.New(rand.NewPCG(o.Seed, o.Seed^0x9e3779b97f4a7c15))
	high := func(def float64) float64 {
		if o.High != 0 {
			return o.High
		}
		return def
	}

	var draw func() float64
	switch kind {
	case "normal":
		draw = func() float64 { return o.Mu + o.Sigma*rng.NormFloat64() }
	case "bimodal":
		n1, total := float64(o.N), float64(o.Total(kind))
		draw = func() float64 {
			if rng.Float64()*total < n1 {
				return o.Mu + o.Sigma*rng.NormFloat64()
			}
			return o.Mu2 + o.Sigma2*rng.NormFloat64()
		}
	case "flat":
		hi := high(1)
		draw = func() float64 { return o.Low + (hi-o.Low)*rng.Float64() }
	case "lognormal":
		draw = func() float64 { return math.Exp(o.Mu + o.Sigma*rng.NormFloat64()) }
	case "rayleigh":
		draw = func() float64 { return o.Sigma * math.Sqrt(-2*math.Log(1-rng.Float64())) }
	case "exp":
		x := math.Log(1e3) / math.Log(2)
		draw = func() float64 { return math.Pow(1+rng.Float64(), x) }
	case "planck":
		hi := high(1000)
		draw = func() float64 {
			v := rng.Float64() * hi
			if v == 0 {
				return 0
			}
			return v * v * v / math.Expm1(v/o.Sigma)
		}
	default:
		return nil, fmt.Errorf("unknown distribution %q (want one of %v)", kind, Kinds)
	}

	if o.Clip == nil {
		return draw, nil
	}
	lo, hi := o.Clip[0], o.Clip[1]
	return func() float64 { return min(max(draw(), lo), hi) }, nil
}

// Values draws the whole dataset into memory.
func Values(kind string, o Options) ([]float64, error) {
	draw, err := Sampler(kind, o)
	if err != nil {
		return nil, err
	}
	values := make([]float64, o.Total(kind))
	for i := range values {
		values[i] = draw()
	}
	return values, nil
}

// Write streams the dataset to w in the given format without holding it
// in memory. Text output has one value per line with 8 decimals.
func Write(w io.Writer, kind string, o Options, format dataset.Format) error {
	draw, err := Sampler(kind, o)
	if err != nil {
		return err
	}
	n := o.Total(kind)

	if format == dataset.FormatBinary {
		const batch = 4096
		buf := make([]float64, 0, batch)
		for i := 0; i < n; i += batch {
			buf = buf[:0]
			for j := i; j < min(i+batch, n); j++ {
				buf = append(buf, draw())
			}
			if err := dataset.WriteBinary(w, buf); err != nil {
				return err
			}
		}
		return nil
	}

	bw := bufio.NewWriter(w)
	line := make([]byte, 0, 32)
	for range n {
		line = strconv.AppendFloat(line[:0], draw(), 'f', 8, 64)
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// IsKind reports whether kind is a supported distribution.
func IsKind(kind string) bool {
	return slices.Contains(Kinds, kind)
}
