// server/internal/api/handlers/payment_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medcamp-api-server/internal/logger"
	"medcamp-api-server/internal/payment"
)

// PaymentHandler hands out payment-provider client secrets. Gateway is nil
// when no provider key is configured.
type PaymentHandler struct {
	Gateway payment.IntentCreator
}

type CreateIntentRequest struct {
	Price float64 `json:"price"`
}

func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	if h.Gateway == nil {
		respondMessage(c, http.StatusServiceUnavailable, "payments are not configured")
		return
	}

	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	secret, err := h.Gateway.CreateIntent(c.Request.Context(), req.Price)
	if errors.Is(err, payment.ErrInvalidAmount) {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		logger.FromContext(c.Request.Context()).Error().Err(err).Float64("price", req.Price).Msg("payment intent failed")
		respondMessage(c, http.StatusBadGateway, "Failed to create payment intent")
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientSecret": secret})
}
