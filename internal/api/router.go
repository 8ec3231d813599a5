package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/subarna007/fpl-helper/internal/api/handlers"
	"github.com/subarna007/fpl-helper/internal/api/middleware"
	"github.com/subarna007/fpl-helper/internal/services"
)

type Dependencies struct {
	Planner     handlers.PlannerService
	Breakers    *services.CircuitBreakerService
	Cache       *services.CacheService // nil when caching is disabled
	Metrics     *services.Metrics
	CorsOrigins []string
	Logger      *logrus.Logger
}

// NewRouter builds the engine with middleware, /health, /metrics and the /api/v1 group.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.CORS(deps.CorsOrigins))
	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	var breakers handlers.BreakerStates
	if deps.Breakers != nil {
		breakers = deps.Breakers
	}
	var cache handlers.Pinger
	if deps.Cache != nil {
		cache = deps.Cache
	}
	healthHandler := handlers.NewHealthHandler(breakers, cache)
	router.GET("/health", healthHandler.GetHealth)

	SetupRoutes(router.Group("/api/v1"), deps)
	return router
}

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, deps Dependencies) {
	plannerHandler := handlers.NewPlannerHandler(deps.Planner, deps.Logger)

	group.GET("/squad", plannerHandler.GetSquad)
	group.GET("/ai-team", plannerHandler.GetAITeam)
	group.GET("/plan", plannerHandler.GetPlan)
	group.GET("/recommendations", plannerHandler.GetRecommendations)
	group.GET("/upgrades", plannerHandler.GetUpgrades)
}
