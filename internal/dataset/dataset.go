package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// ErrMisalignedFile is returned when a binary file is not a whole number of
// float64 values.
var ErrMisalignedFile = errors.New("dataset: binary file size is not a multiple of 8 bytes")

// Format selects how a file is decoded.
type Format string

const (
	FormatAuto   Format = "auto"
	FormatText   Format = "text"
	FormatBinary Format = "binary"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatText, FormatBinary:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, binary or auto)", s)
	}
}

// Resolve turns FormatAuto into a concrete format based on the file extension.
func (f Format) Resolve(path string) Format {
	if f != FormatAuto && f != "" {
		return f
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bin", ".f64", ".raw":
		return FormatBinary
	default:
		return FormatText
	}
}

// Dataset is an in-memory (or memory-mapped) sequence of values in source order.
type Dataset struct {
	Values []float64
	Format Format
	// Lines is the number of text lines scanned; zero for binary input.
	Lines int
	// Skipped counts text lines that did not hold a usable value.
	Skipped int
	// Bytes is the size of the source that was consumed.
	Bytes int64

	mapped *Mapped
}

// Close releases the memory mapping backing a binary dataset.
// Values must not be used afterwards.
func (d *Dataset) Close() error {
	if d == nil || d.mapped == nil {
		return nil
	}
	err := d.mapped.Close()
	d.mapped = nil
	d.Values = nil
	return err
}

// Load reads at most max values (all when max <= 0) from path. Binary files
// on the OS filesystem are memory-mapped; other filesystems are read fully.
func Load(fs afero.Fs, path string, format Format, max int, logger zerolog.Logger) (*Dataset, error) {
	format = format.Resolve(path)
	switch format {
	case FormatText:
		return ReadText(fs, path, max, logger)
	case FormatBinary:
		if _, ok := fs.(*afero.OsFs); ok {
			m, err := OpenBinary(path)
			if err != nil {
				return nil, err
			}
			values := m.Floats()
			if max > 0 && len(values) > max {
				values = values[:max]
			}
			return &Dataset{
				Values: values,
				Format: FormatBinary,
				Bytes:  int64(len(values)) * 8,
				mapped: m,
			}, nil
		}
		raw, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		values, err := DecodeBinary(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		if max > 0 && len(values) > max {
			values = values[:max]
		}
		return &Dataset{Values: values, Format: FormatBinary, Bytes: int64(len(values)) * 8}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
