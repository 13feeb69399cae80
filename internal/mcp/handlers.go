package mcp

import (
	"context"
	"time"

	"lowmedian/internal/config"
	"lowmedian/internal/median"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

func (s *Server) handleComputeMedian(ctx context.Context, req *sdk.CallToolRequest, in ComputeMedianInput) (*sdk.CallToolResult, ComputeMedianOutput, error) {
	ds, err := s.loadSource(in.Values, in.Path, in.Max, in.Format)
	if err != nil {
		return nil, ComputeMedianOutput{}, err
	}
	defer ds.Close()

	params := s.solverConfig(in).Params(len(ds.Values))
	start := time.Now()
	res, err := median.Solve(ds.Values, params)
	elapsed := time.Since(start)
	if s.recorder != nil {
		s.recorder.Observe(len(ds.Values), res, elapsed, err)
		defer s.flushMetrics()
	}
	if err != nil {
		log.Warn().Err(err).Int("count", len(ds.Values)).Msg("Median solve failed")
		return nil, ComputeMedianOutput{}, err
	}

	log.Info().
		Int("count", len(ds.Values)).
		Int("iterations", res.Iterations).
		Dur("elapsed", elapsed).
		Msg("Median computed")

	return nil, ComputeMedianOutput{
		Median:     formatFloat(res.Median),
		Value:      finite(res.Median),
		Mean:       formatFloat(res.Mean),
		Count:      len(ds.Values),
		Skipped:    ds.Skipped,
		Iterations: res.Iterations,
		Chunks:     params.Chunks,
	}, nil
}

func (s *Server) handleCountPartition(ctx context.Context, req *sdk.CallToolRequest, in CountPartitionInput) (*sdk.CallToolResult, CountPartitionOutput, error) {
	ds, err := s.loadSource(in.Values, in.Path, in.Max, in.Format)
	if err != nil {
		return nil, CountPartitionOutput{}, err
	}
	defer ds.Close()

	sc := config.SolverConfig{Chunks: median.DefaultChunks}
	if in.Chunks != nil {
		sc.Chunks = *in.Chunks
	}
	chunks := sc.ResolveChunks(len(ds.Values))

	var c median.Counts
	if len(ds.Values) == 0 {
		c = median.CountPartition(nil, in.Candidate)
	} else {
		c, err = median.ParallelCount(ds.Values, in.Candidate, chunks)
		if err != nil {
			return nil, CountPartitionOutput{}, err
		}
	}

	return nil, CountPartitionOutput{
		Low:   c.Low,
		High:  c.High,
		Same:  c.Same(len(ds.Values)),
		Below: formatFloat(c.Below),
		Above: formatFloat(c.Above),
		Count: len(ds.Values),
	}, nil
}
