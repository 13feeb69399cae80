package dataset

import (
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestParseText(t *testing.T) {
	input := strings.Join([]string{
		"1.5",
		"  2  ",
		"",
		"not-a-number",
		"inf",
		"-Inf",
		"NaN",
		"1e400",
		"3",
	}, "\n")

	ds, err := ParseText(strings.NewReader(input), 0, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, []float64{1.5, 2, math.Inf(1), math.Inf(-1), math.Inf(1), 3}, ds.Values)
	require.Equal(t, 9, ds.Lines)
	require.Equal(t, 3, ds.Skipped)
	require.Equal(t, FormatText, ds.Format)
}

func TestParseTextStopsAtMax(t *testing.T) {
	input := "1\n2\nbad\n3\n4\n5\n"

	ds, err := ParseText(strings.NewReader(input), 3, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3}, ds.Values)
	require.Equal(t, 4, ds.Lines)
	require.Equal(t, 1, ds.Skipped)
}

func TestParseTextFewerThanMax(t *testing.T) {
	ds, err := ParseText(strings.NewReader("7\n8\n"), 10, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, []float64{7, 8}, ds.Values)
}

func TestParseTextSkipsOverLongLine(t *testing.T) {
	input := "1\n" + strings.Repeat("9", 2*MaxLineLength) + "\n2\n" + strings.Repeat(" ", MaxLineLength+1)

	ds, err := ParseText(strings.NewReader(input), 0, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2}, ds.Values)
	require.Equal(t, 4, ds.Lines)
	require.Equal(t, 2, ds.Skipped)
	require.Equal(t, int64(len(input)), ds.Bytes)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "abc", 5, "abc"},
		{"ascii", "abcdef", 3, "abc..."},
		{"inside rune", "abécd", 3, "ab..."},
		{"rune boundary", "abécd", 4, "abé..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, truncate(tt.in, tt.n))
		})
	}
}

func TestReadText(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/values.dat", []byte("5\n6\n7\n"), 0644))

	ds, err := ReadText(fs, "/data/values.dat", 0, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, []float64{5, 6, 7}, ds.Values)
	require.Equal(t, int64(6), ds.Bytes)
	require.NoError(t, ds.Close())

	_, err = ReadText(fs, "/data/missing.dat", 0, zerolog.Nop())
	require.Error(t, err)
}
