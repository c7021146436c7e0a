package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ashendes/crypto-storefront/internal/patterns"
)

// Health reports liveness
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// CircuitStatus returns a handler reporting the state of the given breakers
func CircuitStatus(checkoutCircuit, searchCircuit *patterns.CircuitBreakerWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"checkout_circuit": checkoutCircuit.Status(),
			"search_circuit":   searchCircuit.Status(),
		})
	}
}
