// server/internal/api/handlers/participant_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"medcamp-api-server/internal/api/middleware"
	"medcamp-api-server/internal/auth"
	"medcamp-api-server/internal/models"
	"medcamp-api-server/internal/store"
)

// ParticipantHandler serves /participantCamps.
type ParticipantHandler struct {
	Registrations store.Collection
	Gate          *auth.Gate
}

type CreateRegistrationRequest struct {
	ParticipantEmail       string  `json:"participantEmail" binding:"required,email"`
	ParticipantName        string  `json:"participantName"`
	CampID                 string  `json:"campId" binding:"required"`
	CampName               string  `json:"campName"`
	CampFees               float64 `json:"campFees"`
	Location               string  `json:"location"`
	HealthcareProfessional string  `json:"healthcareProfessional"`
	Age                    int     `json:"age"`
	Phone                  string  `json:"phone"`
	Gender                 string  `json:"gender"`
	EmergencyContact       string  `json:"emergencyContact"`
}

// ListMine returns the caller's registrations. An explicit ?email= must be
// the caller's own.
func (h *ParticipantHandler) ListMine(c *gin.Context) {
	claims := middleware.Claims(c)
	email := c.DefaultQuery("email", claims.Email())
	if err := auth.RequireSelf(claims, email); err != nil {
		middleware.AbortWithAuthError(c, err)
		return
	}

	h.list(c, bson.M{"participantEmail": email})
}

// ListAll returns every registration, optionally for one camp. Admin only.
func (h *ParticipantHandler) ListAll(c *gin.Context) {
	filter := bson.M{}
	if campID := c.Query("campId"); campID != "" {
		filter["campId"] = campID
	}
	h.list(c, filter)
}

func (h *ParticipantHandler) list(c *gin.Context, filter bson.M) {
	registrations := []models.ParticipantRegistration{}
	if err := h.Registrations.Find(c.Request.Context(), filter, store.FindOptions{}, &registrations); err != nil {
		respondStoreError(c, err, "Failed to query registrations")
		return
	}
	if registrations == nil {
		registrations = []models.ParticipantRegistration{}
	}
	c.JSON(http.StatusOK, registrations)
}

func (h *ParticipantHandler) GetRegistration(c *gin.Context) {
	oid, ok := objectIDParam(c)
	if !ok {
		return
	}

	var registration models.ParticipantRegistration
	err := h.Registrations.FindOne(c.Request.Context(), bson.M{"_id": oid}, &registration)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusOK, nil)
		return
	}
	if err != nil {
		respondStoreError(c, err, "Failed to retrieve registration")
		return
	}
	c.JSON(http.StatusOK, registration)
}

// CreateRegistration signs a participant up. Payment starts Unpaid.
func (h *ParticipantHandler) CreateRegistration(c *gin.Context) {
	var req CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	registration := models.ParticipantRegistration{
		ParticipantEmail:       req.ParticipantEmail,
		ParticipantName:        req.ParticipantName,
		CampID:                 req.CampID,
		CampName:               req.CampName,
		CampFees:               req.CampFees,
		Location:               req.Location,
		HealthcareProfessional: req.HealthcareProfessional,
		Age:                    req.Age,
		Phone:                  req.Phone,
		Gender:                 req.Gender,
		EmergencyContact:       req.EmergencyContact,
		PaymentStatus:          models.PaymentUnpaid,
	}

	result, err := h.Registrations.InsertOne(c.Request.Context(), registration)
	if err != nil {
		respondStoreError(c, err, "Failed to create registration")
		return
	}
	c.JSON(http.StatusOK, result)
}

// MarkPaid flips paymentStatus to Paid, upserting on a miss.
func (h *ParticipantHandler) MarkPaid(c *gin.Context) {
	oid, ok := objectIDParam(c)
	if !ok {
		return
	}

	result, err := h.Registrations.UpdateOne(c.Request.Context(),
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"paymentStatus": models.PaymentPaid}},
		true,
	)
	if err != nil {
		respondStoreError(c, err, "Failed to update registration")
		return
	}
	c.JSON(http.StatusOK, result)
}

// CancelRegistration deletes a registration. Admins may cancel any; anyone
// else only their own, which a non-matching id reports as deletedCount 0.
func (h *ParticipantHandler) CancelRegistration(c *gin.Context) {
	oid, ok := objectIDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	claims := middleware.Claims(c)

	isAdmin, err := h.Gate.IsAdmin(ctx, claims)
	if err != nil {
		middleware.AbortWithAuthError(c, err)
		return
	}

	filter := bson.M{"_id": oid}
	if !isAdmin {
		filter["participantEmail"] = claims.Email()
	}

	result, err := h.Registrations.DeleteOne(ctx, filter)
	if err != nil {
		respondStoreError(c, err, "Failed to cancel registration")
		return
	}
	c.JSON(http.StatusOK, result)
}
