package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/GSaiKiran15/Case-Wage-Pro/config"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/app"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/logger"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	flag.Parse()

	// stdout carries the MCP protocol.
	logger.Setup(os.Stderr)

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if level, err := logger.ParseLevel(settings.Logging.Level); err == nil {
		logger.SetLevel(level)
	}

	application, err := app.Build(context.Background(), settings, version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build application: %v\n", err)
		os.Exit(1)
	}

	if err := server.ServeStdio(application.MCPServer()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
