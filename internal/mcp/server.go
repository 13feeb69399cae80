package mcp

import (
	"context"

	"lowmedian/internal/config"
	"lowmedian/internal/metrics"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Server exposes the solver as MCP tools.
type Server struct {
	cfg      *config.AppConfig
	fs       afero.Fs
	recorder *metrics.Recorder
	mcp      *sdk.Server
}

// NewServer creates a new MCP server. Relative dataset paths are resolved
// against cfg.DataPath on fs.
func NewServer(cfg *config.AppConfig, fs afero.Fs, recorder *metrics.Recorder, version string) *Server {
	s := &Server{
		cfg:      cfg,
		fs:       fs,
		recorder: recorder,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "lowmedian",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Serve runs the server over stdio until the client disconnects or ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	log.Info().Msg("MCP server starting stdio loop")
	return s.Run(ctx, &sdk.StdioTransport{})
}

// Run serves a single session over t.
func (s *Server) Run(ctx context.Context, t sdk.Transport) error {
	return s.mcp.Run(ctx, t)
}

// Connect attaches the server to t without blocking, for in-process use.
func (s *Server) Connect(ctx context.Context, t sdk.Transport) (*sdk.ServerSession, error) {
	return s.mcp.Connect(ctx, t, nil)
}
