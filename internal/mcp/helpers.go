package mcp

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"

	"lowmedian/internal/config"
	"lowmedian/internal/dataset"

	"github.com/rs/zerolog/log"
)

// loadSource returns the dataset of a tool call: the file at path when set,
// the inline values otherwise.
func (s *Server) loadSource(values []float64, path string, max int, format string) (*dataset.Dataset, error) {
	if path == "" {
		if max > 0 && len(values) > max {
			values = values[:max]
		}
		return &dataset.Dataset{Values: values, Bytes: int64(len(values)) * 8}, nil
	}

	f, err := dataset.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(path) && s.cfg.DataPath != "" {
		path = filepath.Join(s.cfg.DataPath, path)
	}
	ds, err := dataset.Load(s.fs, path, f, max, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	return ds, nil
}

// solverConfig applies per-call overrides to the configured tuning.
func (s *Server) solverConfig(in ComputeMedianInput) config.SolverConfig {
	sc := s.cfg.Solver
	if in.MaxDiff != nil {
		sc.MaxDiff = *in.MaxDiff
	}
	if in.Factor != nil {
		sc.Factor = *in.Factor
	}
	if in.Decrease != nil {
		sc.Decrease = *in.Decrease
	}
	if in.Chunks != nil {
		sc.Chunks = *in.Chunks
	}
	return sc
}

func (s *Server) flushMetrics() {
	if s.recorder == nil || s.cfg.MetricsFile == "" {
		return
	}
	if err := s.recorder.WriteTextfile(s.cfg.MetricsFile); err != nil {
		log.Warn().Err(err).Msg("Failed to write metrics")
	}
}

// formatFloat renders v so that infinities and NaN survive JSON encoding.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
