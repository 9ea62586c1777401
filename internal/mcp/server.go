package mcp

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/astrocoach/insight/internal/report"
	"github.com/astrocoach/insight/internal/store"
)

// Server wraps the MCP SDK server and exposes insight's analysis tools.
type Server struct {
	server *sdk.Server
	svc    *report.Service
	store  store.Store
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "insight")
	Version string // Server version
}

// NewServer creates a new MCP server over the report service. The store is
// kept so Run can close it on shutdown.
func NewServer(cfg *Config, svc *report.Service, st store.Store) *Server {
	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			// Client initialized, ready to serve
		},
	})

	s := &Server{
		server: mcpServer,
		svc:    svc,
		store:  st,
	}
	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "insight_overview",
		Description: "Get the executive overview: user counts, forecast demand, conversion lift, and churn risk",
	}, s.handleOverview)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "insight_trend",
		Description: "Get the demand trend signal for an optional date window",
	}, s.handleTrend)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "insight_drivers",
		Description: "Get the top ranked behavioral drivers for conversion or churn",
	}, s.handleDrivers)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "insight_targets",
		Description: "Get high-intent freemium users for conversion targeting",
	}, s.handleTargets)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "insight_churn_risk",
		Description: "Get premium users at risk of churning",
	}, s.handleChurnRisk)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "insight_simulate",
		Description: "Run a what-if impact simulation: estimate the outcome effect of uplifting selected behaviors",
	}, s.handleSimulate)
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	err := s.server.Run(ctx, &sdk.StdioTransport{})

	s.store.Close()

	return err
}

// Close closes the server and releases resources.
func (s *Server) Close() error {
	return s.store.Close()
}
