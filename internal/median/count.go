package median

import "math"

// Counts is the outcome of testing a candidate against (part of) a dataset.
type Counts struct {
	// Low is the number of elements <= candidate.
	Low int
	// High is the number of elements >= candidate.
	High int
	// Below is the greatest element strictly less than the candidate, -Inf if none.
	Below float64
	// Above is the least element strictly greater than the candidate, +Inf if none.
	Above float64
}

func emptyCounts() Counts {
	return Counts{Below: math.Inf(-1), Above: math.Inf(1)}
}

// Same returns the number of elements equal to the candidate, given the
// length of the dataset the counts were taken over.
func (c Counts) Same(n int) int {
	return c.Low + c.High - n
}

// Merge combines counts of two disjoint segments. It is associative and
// commutative.
func (c Counts) Merge(o Counts) Counts {
	c.Low += o.Low
	c.High += o.High
	if o.Below > c.Below {
		c.Below = o.Below
	}
	if o.Above < c.Above {
		c.Above = o.Above
	}
	return c
}

// CountPartition scans data once and reports how it splits around candidate.
// Elements equal to candidate count toward both Low and High.
//
// data must not contain NaN.
func CountPartition(data []float64, candidate float64) Counts {
	c := emptyCounts()
	for _, v := range data {
		if v <= candidate {
			c.Low++
			if v < candidate && v > c.Below {
				c.Below = v
			}
		}
		if v >= candidate {
			c.High++
			if v > candidate && v < c.Above {
				c.Above = v
			}
		}
	}
	return c
}
