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
	"github.com/rs/zerolog/log"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/mcpadapter"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/setup"
	logging "github.com/povarna/generative-ai-agents/loop-agent/internal/setup/logger"
)

func main() {
	// Setup logging
	log.Logger = logging.New()
	logger := log.Logger

	// Load env
	_ = godotenv.Load()

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load Config
	cfg := setup.LoadConfig()

	// Wire dependencies
	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}

	// Create MCP Server
	server := createMCPServer(deps)

	// Run over stdio
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// EOF / "server is closing" is expected when stdin closes (e.g. echo | ./bin/loop-mcp)
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			logger.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		logger.Error().Err(err).Msg("Failed to run mcp server")
		os.Exit(1)
	}
}

func createMCPServer(deps *setup.Dependencies) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "loop-agent",
			Version: "1.0.0",
		}, nil,
	)

	// Add Tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_validated",
		Description: "Generate text for a configured task, retrying with corrective feedback until the output passes validation or the attempt budget runs out",
	}, mcpadapter.NewGenerateHandler(deps.Loop, deps.Tasks))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_text",
		Description: "Validate a piece of text against a configured task's rule set without calling a model",
	}, mcpadapter.NewValidateHandler(deps.Tasks))
	return server
}
