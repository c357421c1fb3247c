package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GSaiKiran15/Case-Wage-Pro/config"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/app"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/logger"
)

const version = "1.0.0"

func main() {
	var (
		help       = flag.Bool("help", false, "Show help message")
		showVer    = flag.Bool("version", false, "Show version information")
		configPath = flag.String("config", "", "Path to a YAML config file")
		port       = flag.String("port", "", "Port to run the server on (overrides config and PORT)")
	)

	flag.Parse()

	if *help {
		fmt.Printf("Case Wage Pro - prevailing wage ranking and occupation recommendation API\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nEnvironment:\n")
		fmt.Printf("  PINECONE_API_KEY, PINECONE_INDEX, PINECONE_HOST   Occupation index\n")
		fmt.Printf("  GEMINI_API_KEY, GEMINI_MODEL                      Classifier model\n")
		fmt.Printf("  WAGE_DATA_PATH, GEOGRAPHY_PATH, LOG_LEVEL, PORT\n")
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                             # Start server on default port 8080\n", os.Args[0])
		fmt.Printf("  %s --config wagepro.yaml       # Load settings from a file\n", os.Args[0])
		fmt.Printf("  %s --port 9000                 # Start server on port 9000\n", os.Args[0])
		return
	}

	if *showVer {
		fmt.Printf("Case Wage Pro v%s\n", version)
		return
	}

	settings, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}
	if *port != "" {
		settings.Server.Port = *port
	}

	level, err := logger.ParseLevel(settings.Logging.Level)
	if err != nil {
		logger.Fatal("Invalid log level", "level", settings.Logging.Level, "error", err)
	}
	logger.SetLevel(level)
	gin.SetMode(settings.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.Build(ctx, settings, version)
	if err != nil {
		logger.Fatal("Failed to build application", "error", err)
	}

	httpServer := &http.Server{
		Addr:              ":" + settings.Server.Port,
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      settings.Retrieval.Timeout + settings.Generation.Timeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", settings.Server.Port, "version", version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
