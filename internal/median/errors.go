package median

import "errors"

var (
	// ErrNaN is returned when the dataset holds a not-a-number element.
	// Every comparison against NaN is false, so counts would be corrupted.
	ErrNaN = errors.New("median: dataset contains NaN, which is not comparable")

	// ErrInvalidChunks is returned for a chunk count below 1 or above the
	// dataset length.
	ErrInvalidChunks = errors.New("median: chunk count must be between 1 and the dataset length")

	// ErrInvalidParams is returned when factor or decrease cannot shrink
	// the step (factor <= 0, decrease outside (0, 1), or non-finite values).
	ErrInvalidParams = errors.New("median: invalid tuning parameters")

	// ErrNoConvergence is returned when the iteration cap is reached.
	ErrNoConvergence = errors.New("median: failed to converge")
)
