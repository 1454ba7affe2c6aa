// server/internal/api/handlers/review_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"medcamp-api-server/internal/models"
	"medcamp-api-server/internal/store"
)

type ReviewHandler struct {
	Reviews store.Collection
}

type CreateReviewRequest struct {
	CampID           string `json:"campId"`
	CampName         string `json:"campName"`
	ParticipantEmail string `json:"participantEmail"`
	ParticipantName  string `json:"participantName"`
	Rating           int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Feedback         string `json:"feedback" binding:"required"`
}

// CreateReview appends a review. There is no update or delete path.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	review := models.Review{
		CampID:           req.CampID,
		CampName:         req.CampName,
		ParticipantEmail: req.ParticipantEmail,
		ParticipantName:  req.ParticipantName,
		Rating:           req.Rating,
		Feedback:         req.Feedback,
		CreatedAt:        time.Now().UTC(),
	}

	result, err := h.Reviews.InsertOne(c.Request.Context(), review)
	if err != nil {
		respondStoreError(c, err, "Failed to create review")
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListReviews returns reviews newest first, optionally for one camp.
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	filter := bson.M{}
	if campID := c.Query("campId"); campID != "" {
		filter["campId"] = campID
	}

	reviews := []models.Review{}
	opts := store.FindOptions{Sort: bson.D{{Key: "createdAt", Value: -1}}}
	if err := h.Reviews.Find(c.Request.Context(), filter, opts, &reviews); err != nil {
		respondStoreError(c, err, "Failed to query reviews")
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	c.JSON(http.StatusOK, reviews)
}
