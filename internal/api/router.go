package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ashendes/crypto-storefront/internal/checkout"
	"github.com/ashendes/crypto-storefront/internal/events"
	"github.com/ashendes/crypto-storefront/internal/handlers"
	"github.com/ashendes/crypto-storefront/internal/metrics"
	"github.com/ashendes/crypto-storefront/internal/middleware"
	"github.com/ashendes/crypto-storefront/internal/search"
	"github.com/ashendes/crypto-storefront/internal/telemetry"
)

// ServiceName labels metrics, traces and breakers for this service
const ServiceName = "storefront-service"

// Dependencies holds everything the router hands to its handlers
type Dependencies struct {
	Checkout *checkout.Client
	Search   *search.Service
	Events   *events.Dispatcher
}

func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(telemetry.TracingMiddleware())
	router.Use(metrics.PrometheusMiddleware(ServiceName))

	searchHandler := handlers.NewSearchHandler(deps.Search)
	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkout, deps.Events)

	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/circuit-status", handlers.CircuitStatus(deps.Checkout.Circuit(), deps.Search.Circuit()))
		api.GET("/products/:asin", searchHandler.GetProduct)

		checkoutGroup := api.Group("/checkout")
		checkoutGroup.POST("/search", searchHandler.Search)
		checkoutGroup.POST("/crossmint", checkoutHandler.CreateOrder)
	}

	return router
}
