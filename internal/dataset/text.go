package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

const maxPrealloc = 1 << 20

// MaxLineLength is the longest text line, newline included, that is parsed.
const MaxLineLength = 64 * 1024

// ReadText opens path on fs and parses it with ParseText.
func ReadText(fs afero.Fs, path string, max int, logger zerolog.Logger) (*Dataset, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ds, err := ParseText(f, max, logger.With().Str("path", path).Logger())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ds, nil
}

// ParseText reads one value per line until max values are collected (no
// limit when max <= 0) or the input ends. Lines that do not parse as a
// float64, NaN values and lines longer than MaxLineLength are skipped with a
// warning.
func ParseText(r io.Reader, max int, logger zerolog.Logger) (*Dataset, error) {
	capacity := max
	if capacity <= 0 || capacity > maxPrealloc {
		capacity = maxPrealloc
	}
	ds := &Dataset{
		Values: make([]float64, 0, capacity),
		Format: FormatText,
	}

	br := bufio.NewReaderSize(r, MaxLineLength)
	for max <= 0 || len(ds.Values) < max {
		line, err := br.ReadSlice('\n')
		ds.Bytes += int64(len(line))
		if errors.Is(err, bufio.ErrBufferFull) {
			for errors.Is(err, bufio.ErrBufferFull) {
				line, err = br.ReadSlice('\n')
				ds.Bytes += int64(len(line))
			}
			if err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			ds.Lines++
			ds.Skipped++
			logger.Warn().Int("line", ds.Lines).Int("limit", MaxLineLength).Msg("Skipping over-long line")
			if err != nil {
				break
			}
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if len(line) == 0 && err != nil {
			break
		}

		ds.Lines++
		ds.parseLine(string(line), logger)
		if err != nil {
			break
		}
	}
	return ds, nil
}

func (ds *Dataset) parseLine(line string, logger zerolog.Logger) {
	text := strings.TrimSpace(line)
	if text == "" {
		ds.Skipped++
		return
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		ds.Skipped++
		logger.Warn().Int("line", ds.Lines).Str("value", truncate(text, 40)).Msg("Skipping unparsable line")
		return
	}
	if math.IsNaN(v) {
		ds.Skipped++
		logger.Warn().Int("line", ds.Lines).Msg("Skipping NaN value")
		return
	}
	ds.Values = append(ds.Values, v)
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
