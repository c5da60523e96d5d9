package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"icane/internal/adapters/filesystem"
	mcpadapter "icane/internal/adapters/mcp"
	"icane/internal/adapters/sqlite"
	"icane/internal/config"
	"icane/internal/logger"
)

func main() {
	configFlag := flag.String("config", "", "config file (default "+config.DefaultConfigFile+")")
	mirrorFlag := flag.String("mirror", "", "directory holding mirrored API payloads")
	dbFlag := flag.String("db", "", "SQLite database for export runs and the search index")
	flag.Parse()

	if err := run(*configFlag, *mirrorFlag, *dbFlag); err != nil {
		fmt.Fprintf(os.Stderr, "icane-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, mirrorRoot, dbPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if mirrorRoot != "" {
		cfg.Mirror.Root = config.ExpandHome(mirrorRoot)
	}
	if dbPath != "" {
		cfg.Database.Path = config.ExpandHome(dbPath)
	}

	// stdout carries the protocol, the logger writes to stderr.
	if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Level); err != nil {
		return err
	}
	defer logger.Sync()

	leaves := cfg.Leaves()
	mirror := filesystem.NewMirror(cfg.Mirror.Root, leaves)

	store := sqlite.NewStore()
	if err := store.Open(cfg.Database.Path); err != nil {
		return err
	}
	defer store.Close()

	mcpServer := server.NewMCPServer(
		cfg.MCP.Name,
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, mirror, store, leaves)
	mcpadapter.RegisterWriteTools(mcpServer, mirror, store, mirror, leaves)

	logger.Named("mcp").Infow("Serving on stdio",
		logger.FieldPath, cfg.Mirror.Root,
		"database", cfg.Database.Path)
	return server.ServeStdio(mcpServer)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}
