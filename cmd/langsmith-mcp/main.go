package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/langsmith-mcp/internal/client"
	"github.com/bobmcallan/langsmith-mcp/internal/common"
	"github.com/bobmcallan/langsmith-mcp/internal/config"
	"github.com/bobmcallan/langsmith-mcp/internal/handlers"
	gatewaymcp "github.com/bobmcallan/langsmith-mcp/internal/mcp"
	"github.com/bobmcallan/langsmith-mcp/internal/tools"
)

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for Claude Desktop)")
	configFile := flag.String("config", "langsmith-mcp.toml", "Path to config file")
	flag.Parse()

	cfg, err := config.LoadFromFile(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	common.LoadVersionFromFile()
	logger := common.NewLoggerFromConfig(cfg.Logging)

	// The gateway is constructed eagerly but connects lazily: a missing
	// API key still lets the server start and list its catalog.
	gateway := client.NewGateway(cfg, logger)
	if cfg.LangSmith.APIKey == "" {
		logger.Warn().Msg("no LangSmith API key configured; tool calls will return configuration errors")
	}

	registry := tools.NewRegistry(logger)
	if err := handlers.RegisterAll(registry, gateway); err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to build tool registry")
		os.Exit(1)
	}

	mcpServer := gatewaymcp.NewServer(cfg.Server.Name, registry, logger)

	if *stdio {
		// Stdio transport — reads stdin, writes stdout
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	port := cfg.Server.Port

	// Streamable HTTP transport — listens on configured port
	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)

	logger.Info().Str("port", port).Msg("starting MCP streamable HTTP server")
	fmt.Fprintf(os.Stderr, "Starting MCP Streamable HTTP on :%s\n", port)

	if err := httpServer.Start(":" + port); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}
