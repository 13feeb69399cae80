package report

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

// Report is what the CLI prints after a solve.
type Report struct {
	Values     int
	Skipped    int
	// InputBytes is the size of the input consumed, 0 when unknown.
	InputBytes int64
	Median     float64
	Mean       float64
	ShowMean   bool
	Iterations int
	Chunks     int
	Elapsed    time.Duration
}

// Write prints r in a fixed line-oriented layout.
func Write(w io.Writer, r Report) error {
	read := fmt.Sprintf("Read %s values", humanize.Comma(int64(r.Values)))
	if r.Skipped > 0 {
		read += fmt.Sprintf(" (%s lines skipped)", humanize.Comma(int64(r.Skipped)))
	}
	size := fmt.Sprintf("Data size = %s", humanize.IBytes(uint64(r.Values)*8))
	if r.InputBytes > 0 {
		size += fmt.Sprintf(" (%s read)", humanize.IBytes(uint64(r.InputBytes)))
	}
	lines := []string{read, size}
	if r.ShowMean {
		lines = append(lines, fmt.Sprintf("Mean = %.10e", r.Mean))
	}
	lines = append(lines,
		fmt.Sprintf("Median = %.10f", r.Median),
		fmt.Sprintf("Iterations = %d (chunks = %d)", r.Iterations, r.Chunks),
		fmt.Sprintf("Duration = %.6f seconds", r.Elapsed.Seconds()),
	)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
