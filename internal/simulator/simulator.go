// Package simulator stands in for the checkout and search providers so the
// storefront's resilience patterns can be exercised locally.
package simulator

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/ashendes/crypto-storefront/internal/asin"
	"github.com/ashendes/crypto-storefront/internal/checkout"
	"github.com/ashendes/crypto-storefront/internal/metrics"
	"github.com/ashendes/crypto-storefront/internal/models"
)

// ServiceName labels the simulator's metrics
const ServiceName = "provider-simulator"

// SearchPath is where the simulated search provider listens
const SearchPath = "/search.json"

// Config configures the simulator
type Config struct {
	CheckoutAPIKey string
	SearchAPIKey   string
}

// Simulator serves fake provider endpoints backed by an in-memory order book
type Simulator struct {
	cfg    Config
	chaos  *Chaos
	orders map[string]gin.H
	mutex  sync.RWMutex
}

func New(cfg Config) *Simulator {
	return &Simulator{
		cfg:    cfg,
		chaos:  NewChaos(ServiceName),
		orders: make(map[string]gin.H),
	}
}

// Chaos returns the fault injector
func (s *Simulator) Chaos() *Chaos {
	return s.chaos
}

// Router builds the simulator's HTTP surface
func (s *Simulator) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metrics.PrometheusMiddleware(ServiceName))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/simulator/status", s.getStatus)

	router.POST(checkout.OrdersPath, s.createOrder)
	router.GET(checkout.OrdersPath+"/:orderId", s.getOrder)
	router.GET(SearchPath, s.search)

	// Chaos engineering endpoints
	router.POST("/chaos/enable", s.enableChaos)
	router.POST("/chaos/disable", s.disableChaos)
	router.POST("/chaos/slow", s.enableSlowMode)
	router.POST("/chaos/slow/disable", s.disableSlowMode)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

func (s *Simulator) getStatus(c *gin.Context) {
	s.mutex.RLock()
	orders := len(s.orders)
	s.mutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"service":            ServiceName,
		"status":             "healthy",
		"chaos_failure_rate": s.chaos.FailureRate(),
		"chaos_slow_mode":    s.chaos.SlowMode(),
		"orders":             orders,
		"timestamp":          time.Now().Format(time.RFC3339),
	})
}

func (s *Simulator) createOrder(c *gin.Context) {
	if s.cfg.CheckoutAPIKey != "" && c.GetHeader("X-API-KEY") != s.cfg.CheckoutAPIKey {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid API key"})
		return
	}

	var payload models.OrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request: " + err.Error()})
		return
	}
	if msg := checkOrder(payload); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}

	if err := s.chaos.Apply(c.Request.Context()); err != nil {
		log.WithError(err).Warn("Chaos: Simulated checkout failure")
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Checkout provider temporarily unavailable"})
		return
	}

	orderID := uuid.New().String()
	lineItems := make([]gin.H, 0, len(payload.LineItems))
	for _, item := range payload.LineItems {
		lineItems = append(lineItems, gin.H{
			"productLocator": item.ProductLocator,
			"quantity":       1,
		})
	}
	preparation := gin.H{
		"chain":        payload.Payment.Method,
		"payerAddress": payload.Payment.PayerAddress,
	}
	order := gin.H{
		"orderId":   orderID,
		"phase":     "payment",
		"locale":    payload.Locale,
		"lineItems": lineItems,
		"payment": gin.H{
			"status":       "awaiting-payment",
			"method":       payload.Payment.Method,
			"currency":     payload.Payment.Currency,
			"receiptEmail": payload.Payment.ReceiptEmail,
			"preparation":  preparation,
		},
	}

	s.mutex.Lock()
	s.orders[orderID] = order
	s.mutex.Unlock()

	log.WithFields(log.Fields{
		"order_id":   orderID,
		"line_items": len(lineItems),
	}).Info("Simulated order created")

	c.JSON(http.StatusOK, gin.H{
		"clientSecret": "cs_sim_" + strings.ReplaceAll(orderID, "-", ""),
		"order":        order,
	})
}

func (s *Simulator) getOrder(c *gin.Context) {
	orderID := c.Param("orderId")

	s.mutex.RLock()
	order, exists := s.orders[orderID]
	s.mutex.RUnlock()

	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// checkOrder returns a rejection message for payloads the real provider
// would refuse.
func checkOrder(payload models.OrderPayload) string {
	if payload.Recipient.Email == "" {
		return "recipient.email is required"
	}
	if len(payload.LineItems) == 0 {
		return "lineItems must not be empty"
	}
	for _, item := range payload.LineItems {
		id, found := strings.CutPrefix(item.ProductLocator, "amazon:")
		if !found || !asin.IsValid(id) {
			return "Unsupported product locator: " + item.ProductLocator
		}
	}
	if payload.Payment.PayerAddress == "" {
		return "payment.payerAddress is required"
	}
	return ""
}

func (s *Simulator) search(c *gin.Context) {
	if s.cfg.SearchAPIKey != "" && c.Query("api_key") != s.cfg.SearchAPIKey {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid API key"})
		return
	}

	if err := s.chaos.Apply(c.Request.Context()); err != nil {
		log.WithError(err).Warn("Chaos: Simulated search failure")
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "Search provider temporarily unavailable"})
		return
	}

	metadata := gin.H{
		"status":        "Success",
		"engine":        c.Query("engine"),
		"amazon_domain": c.Query("amazon_domain"),
	}

	if id := strings.ToUpper(c.Query("asin")); id != "" {
		resp := gin.H{"search_metadata": metadata}
		if product := findProduct(id); product != nil {
			resp["product"] = product
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"search_metadata": metadata,
		"organic_results": matchProducts(c.Query("q")),
	})
}

func findProduct(id string) gin.H {
	for _, product := range sampleCatalog {
		if product["asin"] == id {
			return product
		}
	}
	return nil
}

// matchProducts returns catalog entries whose title contains any query
// word, renumbering positions from 1.
func matchProducts(query string) []gin.H {
	words := strings.Fields(strings.ToLower(query))
	results := []gin.H{}
	for _, product := range sampleCatalog {
		title := strings.ToLower(product["title"].(string))
		for _, word := range words {
			if strings.Contains(title, word) {
				match := gin.H{}
				for k, v := range product {
					match[k] = v
				}
				match["position"] = len(results) + 1
				results = append(results, match)
				break
			}
		}
	}
	return results
}

func (s *Simulator) enableChaos(c *gin.Context) {
	rate := DefaultFailureRate
	if raw := c.Query("rate"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid rate: " + raw})
			return
		}
		rate = parsed
	}
	s.chaos.SetFailureRate(rate)

	log.WithField("failure_rate", s.chaos.FailureRate()).Info("Chaos mode ENABLED for provider simulator")
	c.JSON(http.StatusOK, gin.H{
		"message":      "Chaos mode enabled",
		"failure_rate": s.chaos.FailureRate(),
	})
}

func (s *Simulator) disableChaos(c *gin.Context) {
	s.chaos.Disable()

	log.Info("Chaos mode DISABLED for provider simulator")
	c.JSON(http.StatusOK, gin.H{
		"message": "Chaos mode disabled",
	})
}

func (s *Simulator) enableSlowMode(c *gin.Context) {
	s.chaos.SetSlowMode(true)

	log.Info("Slow mode ENABLED for provider simulator")
	c.JSON(http.StatusOK, gin.H{
		"message": "Slow mode enabled",
		"info":    "Requests will be delayed",
	})
}

func (s *Simulator) disableSlowMode(c *gin.Context) {
	s.chaos.SetSlowMode(false)

	log.Info("Slow mode DISABLED for provider simulator")
	c.JSON(http.StatusOK, gin.H{
		"message": "Slow mode disabled",
	})
}
