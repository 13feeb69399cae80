package median

import "math"

// kahanSumInc adds inc to sum using Neumaier's variant of Kahan summation,
// carrying the running compensation in c.
func kahanSumInc(inc, sum, c float64) (newSum, newC float64) {
	t := sum + inc
	switch {
	case math.IsInf(t, 0):
		c = 0
	case math.Abs(sum) >= math.Abs(inc):
		c += (sum - t) + inc
	default:
		c += (inc - sum) + t
	}
	return t, c
}

// meanOf returns the compensated arithmetic mean of data and the mean of its
// finite elements only. It stops at the first NaN and reports it.
func meanOf(data []float64) (mean, finiteMean float64, err error) {
	var sum, c, fsum, fc float64
	finite := 0
	for _, v := range data {
		if math.IsNaN(v) {
			return 0, 0, ErrNaN
		}
		sum, c = kahanSumInc(v, sum, c)
		if !math.IsInf(v, 0) {
			fsum, fc = kahanSumInc(v, fsum, fc)
			finite++
		}
	}
	mean = (sum + c) / float64(len(data))
	if finite > 0 {
		finiteMean = (fsum + fc) / float64(finite)
	}
	return mean, finiteMean, nil
}
