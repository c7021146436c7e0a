package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ashendes/crypto-storefront/internal/asin"
	"github.com/ashendes/crypto-storefront/internal/checkout"
	"github.com/ashendes/crypto-storefront/internal/events"
	"github.com/ashendes/crypto-storefront/internal/metrics"
	"github.com/ashendes/crypto-storefront/internal/middleware"
	"github.com/ashendes/crypto-storefront/internal/models"
)

// CheckoutHandler relays checkout requests to the checkout provider
type CheckoutHandler struct {
	client *checkout.Client
	events *events.Dispatcher
}

func NewCheckoutHandler(client *checkout.Client, dispatcher *events.Dispatcher) *CheckoutHandler {
	if dispatcher == nil {
		dispatcher = events.NewDispatcher(nil, 0)
	}
	return &CheckoutHandler{client: client, events: dispatcher}
}

// CreateOrder validates the request, builds the provider payload and
// submits it once. The provider's reply is relayed unchanged on success.
func (h *CheckoutHandler) CreateOrder(c *gin.Context) {
	requestID := middleware.GetRequestID(c)
	logger := log.WithField("request_id", requestID)

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.CheckoutOrdersTotal.WithLabelValues(models.CheckoutStatusInvalid).Inc()
		logger.WithError(err).Warn("Invalid checkout request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := checkout.Validate(req); err != nil {
		metrics.CheckoutOrdersTotal.WithLabelValues(models.CheckoutStatusInvalid).Inc()
		message := "Missing required parameters"
		var verr *checkout.ValidationError
		if errors.As(err, &verr) && verr.InvalidASIN {
			message = "Invalid ASIN"
		}
		logger.WithError(err).Warn("Checkout validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return
	}

	if !h.client.Configured() {
		h.misconfigured(c, logger)
		return
	}

	payload := checkout.Build(req)
	locator := payload.LineItems[0].ProductLocator

	if price, ok := models.ParseAmount(req.Price).Positive(); ok {
		metrics.CheckoutOrderPrice.Observe(price)
	}

	logger.WithFields(log.Fields{
		"locator":  locator,
		"chain":    req.Chain,
		"currency": req.Currency,
	}).Info("Submitting checkout order")

	body, err := h.client.CreateOrder(c.Request.Context(), payload)
	if err != nil {
		var upstream *checkout.UpstreamError
		switch {
		case errors.As(err, &upstream):
			metrics.CheckoutOrdersTotal.WithLabelValues(models.CheckoutStatusRejected).Inc()
			logger.WithFields(log.Fields{
				"status":  upstream.StatusCode,
				"message": upstream.Message,
			}).Warn("Checkout provider rejected order")
			c.JSON(upstream.StatusCode, gin.H{"error": upstream.Message})
		case errors.Is(err, checkout.ErrAPIKeyMissing):
			h.misconfigured(c, logger)
		default:
			metrics.CheckoutOrdersTotal.WithLabelValues(models.CheckoutStatusFailed).Inc()
			logger.WithError(err).Error("Checkout order failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	metrics.CheckoutOrdersTotal.WithLabelValues(models.CheckoutStatusCreated).Inc()
	logger.WithField("locator", locator).Info("Checkout order created")

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)

	h.publishCreated(c.Request.Context(), logger, requestID, req, body)
}

func (h *CheckoutHandler) misconfigured(c *gin.Context, logger *log.Entry) {
	metrics.CheckoutOrdersTotal.WithLabelValues(models.CheckoutStatusMisconfigured).Inc()
	logger.Error("Checkout API key not configured")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "API key not configured"})
}

// publishCreated hands the order event to the dispatcher. Failures are
// logged only.
func (h *CheckoutHandler) publishCreated(ctx context.Context, logger *log.Entry, requestID string, req models.CheckoutRequest, body []byte) {
	id, _ := asin.Resolve(req.ASIN)

	event := events.OrderCreated{
		EventID:         uuid.New().String(),
		RequestID:       requestID,
		ProviderOrderID: events.ProviderOrderID(body),
		ASIN:            id,
		Chain:           req.Chain,
		Currency:        req.Currency,
		CreatedAt:       time.Now().UTC(),
	}

	h.events.DispatchOrderCreated(ctx, event, func(err error) {
		if err != nil {
			metrics.OrderEventsTotal.WithLabelValues("failed").Inc()
			logger.WithError(err).WithField("event_id", event.EventID).Error("Failed to publish order event")
			return
		}
		metrics.OrderEventsTotal.WithLabelValues("published").Inc()
	})
}
