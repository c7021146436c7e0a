package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/ashendes/crypto-storefront/internal/asin"
	"github.com/ashendes/crypto-storefront/internal/middleware"
	"github.com/ashendes/crypto-storefront/internal/models"
	"github.com/ashendes/crypto-storefront/internal/search"
)

// SearchHandler serves product search and lookup
type SearchHandler struct {
	service *search.Service
}

func NewSearchHandler(service *search.Service) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search handles POST /api/checkout/search
func (h *SearchHandler) Search(c *gin.Context) {
	logger := log.WithField("request_id", middleware.GetRequestID(c))

	var req models.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
			return
		}
		logger.WithError(err).Warn("Invalid search request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	result, err := h.service.Search(c.Request.Context(), query, req.AmazonDomain)
	if err != nil {
		h.providerError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProduct handles GET /api/products/:asin
func (h *SearchHandler) GetProduct(c *gin.Context) {
	logger := log.WithField("request_id", middleware.GetRequestID(c))

	id := c.Param("asin")
	if !asin.IsValid(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ASIN"})
		return
	}
	id = strings.ToUpper(id)

	product, err := h.service.Product(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, search.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
				"asin":  id,
			})
			return
		}
		h.providerError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *SearchHandler) providerError(c *gin.Context, logger *log.Entry, err error) {
	if errors.Is(err, search.ErrAPIKeyMissing) {
		logger.Error("Search API key not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search API key not configured"})
		return
	}
	logger.WithError(err).Error("Product search failed")
	c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to search products"})
}
