package mcp

import (
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

type ComputeMedianInput struct {
	Values   []float64 `json:"values,omitempty" jsonschema:"inline dataset, ignored when path is set"`
	Path     string    `json:"path,omitempty" jsonschema:"file holding one value per line, or raw little-endian float64 for .bin files; relative to the data directory"`
	Max      int       `json:"max,omitempty" jsonschema:"read at most this many values from path, 0 reads all"`
	Format   string    `json:"format,omitempty" jsonschema:"text, binary or auto (default)"`
	MaxDiff  *float64  `json:"maxdiff,omitempty" jsonschema:"imbalance below which the search walks neighbour by neighbour; negative is a fraction of the dataset length"`
	Factor   *float64  `json:"factor,omitempty" jsonschema:"initial step scaling factor, must be positive"`
	Decrease *float64  `json:"decrease,omitempty" jsonschema:"minimum shrink ratio of the step factor, between 0 and 1"`
	Chunks   *int      `json:"chunks,omitempty" jsonschema:"number of segments counted concurrently, 0 means one per CPU"`
}

type ComputeMedianOutput struct {
	// Median and Mean are formatted so that infinities and NaN survive JSON.
	Median     string   `json:"median"`
	Value      *float64 `json:"value,omitempty" jsonschema:"the median as a number when it is finite"`
	Mean       string   `json:"mean"`
	Count      int      `json:"count"`
	Skipped    int      `json:"skipped"`
	Iterations int      `json:"iterations"`
	Chunks     int      `json:"chunks"`
}

type CountPartitionInput struct {
	Values    []float64 `json:"values,omitempty" jsonschema:"inline dataset, ignored when path is set"`
	Path      string    `json:"path,omitempty" jsonschema:"data file, relative to the data directory"`
	Max       int       `json:"max,omitempty" jsonschema:"read at most this many values from path, 0 reads all"`
	Format    string    `json:"format,omitempty" jsonschema:"text, binary or auto (default)"`
	Candidate float64   `json:"candidate" jsonschema:"value to split the dataset around"`
	Chunks    *int      `json:"chunks,omitempty" jsonschema:"number of segments counted concurrently, 0 means one per CPU"`
}

type CountPartitionOutput struct {
	Low   int    `json:"low" jsonschema:"elements less than or equal to the candidate"`
	High  int    `json:"high" jsonschema:"elements greater than or equal to the candidate"`
	Same  int    `json:"same" jsonschema:"elements equal to the candidate"`
	Below string `json:"below" jsonschema:"greatest element strictly below the candidate, -Inf if none"`
	Above string `json:"above" jsonschema:"least element strictly above the candidate, +Inf if none"`
	Count int    `json:"count"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name: "compute_median",
		Description: "Compute the median of a numeric dataset without sorting it. " +
			"Pass either inline 'values' or a 'path' to a data file. Tuning fields are optional.",
	}, s.handleComputeMedian)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name: "count_partition",
		Description: "Count how a dataset splits around a candidate value: elements at or below, at or above, " +
			"equal to it, and the nearest distinct neighbours. Useful to check a median or locate a quantile.",
	}, s.handleCountPartition)
}
