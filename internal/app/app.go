// Package app wires configuration into the datasets, the upstream clients
// and the services behind the HTTP and MCP surfaces.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"

	"github.com/GSaiKiran15/Case-Wage-Pro/api"
	"github.com/GSaiKiran15/Case-Wage-Pro/config"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/classifier"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/dataset"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/logger"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/mcptools"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/metrics"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/pipeline"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/ranking"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/retrieval"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/upstream"
)

// Name identifies the service in health checks and the MCP handshake.
const Name = "case-wage-pro"

// App holds the wired services.
type App struct {
	Settings    config.Settings
	Version     string
	Repository  *dataset.Repository
	Ranker      *ranking.Engine
	Recommender *pipeline.Orchestrator
	Metrics     *metrics.Collector
}

// Build wires every component from settings. Missing credentials do not
// fail the build; they surface as configuration errors on first use.
func Build(ctx context.Context, settings config.Settings, version string) (*App, error) {
	if problems := settings.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid settings: %v", problems)
	}

	repo := dataset.NewRepository(dataset.FileSource{
		WageDataPath:  settings.Data.WageDataPath,
		GeographyPath: settings.Data.GeographyPath,
	})
	if settings.Data.Preload {
		if err := repo.Preload(ctx); err != nil {
			return nil, fmt.Errorf("preload datasets: %w", err)
		}
	}

	engine := ranking.NewEngine(repo, ranking.Options{
		SortBy:        ranking.Metric(settings.Ranking.SortBy),
		StateLimit:    settings.Ranking.StateLimit,
		NationalLimit: settings.Ranking.NationalLimit,
	})

	r := settings.Retrieval
	retriever := retrieval.New(retrieval.Config{
		APIKey:     r.APIKey,
		IndexName:  r.IndexName,
		IndexHost:  r.IndexHost,
		Namespace:  r.Namespace,
		APIVersion: r.APIVersion,
	}, upstream.NewClient("pinecone", upstream.Options{
		Timeout:           r.Timeout,
		RequestsPerSecond: r.RequestsPerSecond,
		Burst:             r.Burst,
	}))

	g := settings.Generation
	generator := classifier.NewGeminiClient(classifier.GeminiConfig{
		APIKey:      g.APIKey,
		Model:       g.Model,
		BaseURL:     g.BaseURL,
		Temperature: g.Temperature,
	}, upstream.NewClient("gemini", upstream.Options{
		Timeout:           g.Timeout,
		RequestsPerSecond: g.RequestsPerSecond,
		Burst:             g.Burst,
	}))

	collector := metrics.NewCollector()
	orchestrator := pipeline.New(retriever, classifier.New(generator, "gemini"), engine, collector, pipeline.Options{
		TopK:            r.TopK,
		RetrieveTimeout: r.Timeout,
		ClassifyTimeout: g.Timeout,
	})

	logger.Info("application wired",
		"wage_data", settings.Data.WageDataPath,
		"geography", settings.Data.GeographyPath,
		"pinecone_index", r.IndexName,
		"retrieval_configured", r.APIKey != "" && r.IndexHost != "",
		"gemini_model", g.Model,
		"generation_configured", g.APIKey != "",
		"sort_by", settings.Ranking.SortBy)

	return &App{
		Settings:    settings,
		Version:     version,
		Repository:  repo,
		Ranker:      engine,
		Recommender: orchestrator,
		Metrics:     collector,
	}, nil
}

// Router returns the HTTP surface with its middleware installed.
func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		api.RequestIDMiddleware(),
		api.RequestLoggerMiddleware(),
		api.CORSMiddleware(),
		api.RequestSizeLimitMiddleware(a.Settings.Server.MaxRequestBytes),
	)
	api.SetupRoutes(router, api.Dependencies{
		Ranker:      a.Ranker,
		Recommender: a.Recommender,
		Catalog:     a.Repository,
		Metrics:     a.Metrics,
		Version:     a.Version,
	})
	return router
}

// MCPServer returns an MCP server exposing the recommendation and ranking
// tools.
func (a *App) MCPServer() *server.MCPServer {
	s := server.NewMCPServer(Name, a.Version, server.WithToolCapabilities(false))
	mcptools.Register(s, a.Recommender, a.Ranker)
	return s
}
