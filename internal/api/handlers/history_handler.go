// server/internal/api/handlers/history_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"medcamp-api-server/internal/api/middleware"
	"medcamp-api-server/internal/auth"
	"medcamp-api-server/internal/models"
	"medcamp-api-server/internal/store"
)

// HistoryHandler serves the append-only payment log.
type HistoryHandler struct {
	Histories store.Collection
}

type CreateHistoryRequest struct {
	Email          string    `json:"email" binding:"required,email"`
	Name           string    `json:"name"`
	CampID         string    `json:"campId" binding:"required"`
	CampName       string    `json:"campName"`
	RegistrationID string    `json:"registrationId"`
	Price          float64   `json:"price" binding:"gte=0"`
	TransactionID  string    `json:"transactionId" binding:"required"`
	Date           time.Time `json:"date"`
}

// CreateHistory records a completed payment.
func (h *HistoryHandler) CreateHistory(c *gin.Context) {
	var req CreateHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	record := models.PaymentHistory{
		Email:          req.Email,
		Name:           req.Name,
		CampID:         req.CampID,
		CampName:       req.CampName,
		RegistrationID: req.RegistrationID,
		Price:          req.Price,
		TransactionID:  req.TransactionID,
		PaymentStatus:  models.PaymentPaid,
		Date:           date,
	}

	result, err := h.Histories.InsertOne(c.Request.Context(), record)
	if err != nil {
		respondStoreError(c, err, "Failed to record payment")
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListHistory returns the caller's own payments, newest first.
func (h *HistoryHandler) ListHistory(c *gin.Context) {
	claims := middleware.Claims(c)
	email := c.DefaultQuery("email", claims.Email())
	if err := auth.RequireSelf(claims, email); err != nil {
		middleware.AbortWithAuthError(c, err)
		return
	}

	records := []models.PaymentHistory{}
	opts := store.FindOptions{Sort: bson.D{{Key: "date", Value: -1}}}
	if err := h.Histories.Find(c.Request.Context(), bson.M{"email": email}, opts, &records); err != nil {
		respondStoreError(c, err, "Failed to query payment history")
		return
	}
	if records == nil {
		records = []models.PaymentHistory{}
	}
	c.JSON(http.StatusOK, records)
}
