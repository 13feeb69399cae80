package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"lowmedian/internal/mcp"
	"lowmedian/internal/metrics"

	"github.com/spf13/cobra"
)

func newServeCommand(root *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run an MCP server on stdio exposing compute_median and count_partition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := mcp.NewServer(root.cfg, root.fs, metrics.NewRecorder(), Version)
			return server.Serve(ctx)
		},
	}
}
