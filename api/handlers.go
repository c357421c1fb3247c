package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GSaiKiran15/Case-Wage-Pro/internal/metrics"
	"github.com/GSaiKiran15/Case-Wage-Pro/services"
)

// Dependencies are the services the handlers call. Metrics may be nil.
type Dependencies struct {
	Ranker      services.AreaRanker
	Recommender services.Recommender
	Catalog     services.Catalog
	Metrics     *metrics.Collector
	Version     string
}

// API holds dependencies for API handlers.
type API struct {
	ranker      services.AreaRanker
	recommender services.Recommender
	catalog     services.Catalog
	metrics     *metrics.Collector
	version     string
	startedAt   time.Time
}

// NewAPI creates a new API handler structure.
func NewAPI(deps Dependencies) *API {
	return &API{
		ranker:      deps.Ranker,
		recommender: deps.Recommender,
		catalog:     deps.Catalog,
		metrics:     deps.Metrics,
		version:     deps.Version,
		startedAt:   time.Now(),
	}
}

// SetupRoutes defines all the API routes.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	apiHandler := NewAPI(deps)

	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/metrics", apiHandler.MetricsHandler)

	// Wage ranking routes
	router.GET("/best-areas", apiHandler.BestAreasHandler) // Lowest-wage areas for an occupation
	router.GET("/wage-data", apiHandler.WageDataHandler)   // Wage record for one occupation and county

	// Recommendation route
	router.POST("/recommend", apiHandler.RecommendHandler)

	// Dataset browsing routes
	router.GET("/occupations", apiHandler.OccupationsHandler)
	geoRoutes := router.Group("/geography")
	{
		geoRoutes.GET("/states", apiHandler.StatesHandler)
		geoRoutes.GET("/states/:state/counties", apiHandler.CountiesHandler)
	}
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "case-wage-pro",
		"version":   api.version,
		"uptime":    time.Since(api.startedAt).Round(time.Second).String(),
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
	})
}

// MetricsHandler reports per-stage call counts, failures and latency
func (api *API) MetricsHandler(c *gin.Context) {
	snapshot := api.metrics.Snapshot()

	successRates := make(map[metrics.Stage]float64, len(snapshot.Stages))
	for stage := range snapshot.Stages {
		successRates[stage] = api.metrics.SuccessRate(stage)
	}

	c.JSON(http.StatusOK, gin.H{
		"metrics":       snapshot,
		"success_rates": successRates,
	})
}
