package median

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ParallelCount splits data into chunks contiguous segments and counts each
// one in its own goroutine. Segments hold len(data)/chunks elements, the last
// one absorbs the remainder. The merged result equals CountPartition over
// the whole slice.
func ParallelCount(data []float64, candidate float64, chunks int) (Counts, error) {
	if chunks < 1 || chunks > len(data) {
		return Counts{}, fmt.Errorf("%w: got %d for %d elements", ErrInvalidChunks, chunks, len(data))
	}
	if chunks == 1 {
		return CountPartition(data, candidate), nil
	}

	step := len(data) / chunks
	partial := make([]Counts, chunks)

	var g errgroup.Group
	for i := range chunks {
		start := i * step
		end := start + step
		if i == chunks-1 {
			end = len(data)
		}
		segment := data[start:end]
		g.Go(func() error {
			partial[i] = CountPartition(segment, candidate)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Counts{}, err
	}

	total := emptyCounts()
	for _, c := range partial {
		total = total.Merge(c)
	}
	return total, nil
}
