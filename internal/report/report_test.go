package report

import (
	"bytes"
	"math"
	"testing"
	"time"
)

func TestWrite(t *testing.T) {
	tests := []struct {
		name     string
		report   Report
		expected string
	}{
		{
			name: "WithMean",
			report: Report{
				Values: 1234567, Skipped: 2, InputBytes: 3 << 20, Median: 2.5, Mean: 3.25, ShowMean: true,
				Iterations: 7, Chunks: 4, Elapsed: 1500 * time.Millisecond,
			},
			expected: "Read 1,234,567 values (2 lines skipped)\n" +
				"Data size = 9.4 MiB (3.0 MiB read)\n" +
				"Mean = 3.2500000000e+00\n" +
				"Median = 2.5000000000\n" +
				"Iterations = 7 (chunks = 4)\n" +
				"Duration = 1.500000 seconds\n",
		},
		{
			name:   "Minimal",
			report: Report{Values: 3, Median: 6, Iterations: 1, Chunks: 1},
			expected: "Read 3 values\n" +
				"Data size = 24 B\n" +
				"Median = 6.0000000000\n" +
				"Iterations = 1 (chunks = 1)\n" +
				"Duration = 0.000000 seconds\n",
		},
		{
			name:   "Empty",
			report: Report{Median: math.NaN(), Chunks: 1},
			expected: "Read 0 values\n" +
				"Data size = 0 B\n" +
				"Median = NaN\n" +
				"Iterations = 0 (chunks = 1)\n" +
				"Duration = 0.000000 seconds\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, tt.report); err != nil {
				t.Fatalf("Write() error: %v", err)
			}
			if got := buf.String(); got != tt.expected {
				t.Errorf("Write() = %q, want %q", got, tt.expected)
			}
		})
	}
}
