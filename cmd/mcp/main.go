package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/ai-output-validator/internal/mcpadapter"
	"github.com/povarna/ai-output-validator/internal/setup"
	"github.com/povarna/ai-output-validator/internal/setup/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := setup.LoadConfig()

	// All logging goes to stderr; stdout belongs to the MCP transport.
	logger := logger.New(cfg.LogLevel)
	log.Logger = logger

	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Dependency wiring failed")
		os.Exit(1)
	}
	defer deps.Close()

	server := newValidatorServer(deps)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// A closed stdin (echo '...' | validator-mcp) surfaces as EOF or
		// "server is closing"; neither is a failure.
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			logger.Debug().Err(err).Msg("MCP transport closed")
			return
		}
		logger.Error().Err(err).Msg("MCP server terminated")
		os.Exit(1)
	}
}

func newValidatorServer(deps *setup.Dependencies) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    setup.ServiceName,
			Version: setup.ServiceVersion,
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_output",
		Description: "Validate AI-generated structured output against a schema: field types, formats, ranges, plus an optional LLM plausibility check",
	}, mcpadapter.NewValidateHandler(deps.Pipeline, deps.Store))

	return server
}
