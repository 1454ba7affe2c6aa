// server/internal/api/handlers/camp_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"medcamp-api-server/internal/cache"
	"medcamp-api-server/internal/campquery"
	"medcamp-api-server/internal/logger"
	"medcamp-api-server/internal/models"
	"medcamp-api-server/internal/socket"
	"medcamp-api-server/internal/store"
)

const msgListCampsFailed = "Error fetching camps with query parameters"

// ListingCache is the subset of cache.ListingCache the camp routes use.
type ListingCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte) error
	Invalidate(ctx context.Context) error
}

// CampNotifier receives every camp change.
type CampNotifier interface {
	Broadcast(ev socket.CampEvent)
}

// CampHandler serves /allCamps. Cache and Notifier are optional.
type CampHandler struct {
	Camps    store.Collection
	Cache    ListingCache
	Notifier CampNotifier
}

// CampRequest is the full editable field set of a camp. ParticipantCount is
// a pointer so a replace leaves the counter alone unless it is sent.
type CampRequest struct {
	CampName               string  `json:"campName"`
	Description            string  `json:"description"`
	Location               string  `json:"location"`
	Date                   string  `json:"date"`
	HealthcareProfessional string  `json:"healthcareProfessional"`
	CampFees               float64 `json:"campFees"`
	ParticipantCount       *int    `json:"participantCount"`
	OrganizerEmail         string  `json:"organizerEmail"`
	Organizer              string  `json:"organizer"`
	Image                  string  `json:"image"`
}

type PatchCampRequest struct {
	ParticipantCount *int `json:"participantCount" binding:"required"`
}

// ListCamps answers GET /allCamps?search=&sortBy=&order=&limit=&popular=&organizerEmail=
func (h *CampHandler) ListCamps(c *gin.Context) {
	var params campquery.Params
	if err := c.ShouldBindQuery(&params); err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	query, err := campquery.Build(params)
	if errors.Is(err, campquery.ErrInvalidLimit) {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		respondStoreError(c, err, msgListCampsFailed)
		return
	}

	ctx := c.Request.Context()
	// The generation is read before the store so a write landing in between
	// retires whatever this request caches.
	var key string
	if h.Cache != nil {
		if gen, err := h.Cache.Generation(ctx); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Msg("camp listing cache generation read failed")
		} else {
			key = cache.Key(gen, params)
		}
	}
	if key != "" {
		body, ok, err := h.Cache.Get(ctx, key)
		if err != nil {
			logger.FromContext(ctx).Warn().Err(err).Msg("camp listing cache read failed")
		} else if ok {
			c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", body)
			return
		}
	}

	camps := []models.Camp{}
	opts := store.FindOptions{Sort: query.Sort, Limit: query.Limit}
	if err := h.Camps.Find(ctx, query.Filter, opts, &camps); err != nil {
		respondStoreError(c, err, msgListCampsFailed)
		return
	}
	if camps == nil {
		camps = []models.Camp{}
	}

	body, err := json.Marshal(camps)
	if err != nil {
		respondStoreError(c, err, msgListCampsFailed)
		return
	}
	if key != "" {
		if err := h.Cache.Set(ctx, key, body); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Msg("camp listing cache write failed")
		}
	}
	c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", body)
}

// CreateCamp inserts a camp. The organizer is trusted by convention.
func (h *CampHandler) CreateCamp(c *gin.Context) {
	var req CampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	camp := models.Camp{
		CampName:               req.CampName,
		Description:            req.Description,
		Location:               req.Location,
		Date:                   req.Date,
		HealthcareProfessional: req.HealthcareProfessional,
		CampFees:               req.CampFees,
		OrganizerEmail:         req.OrganizerEmail,
		Organizer:              req.Organizer,
		Image:                  req.Image,
	}
	if req.ParticipantCount != nil {
		camp.ParticipantCount = *req.ParticipantCount
	}

	result, err := h.Camps.InsertOne(c.Request.Context(), camp)
	if err != nil {
		respondStoreError(c, err, "Failed to create camp")
		return
	}

	h.changed(c, socket.CampEvent{Type: socket.CampCreated, CampID: idString(result.InsertedID)})
	c.JSON(http.StatusOK, result)
}

// GetCamp returns one camp, or null when the id matches nothing.
func (h *CampHandler) GetCamp(c *gin.Context) {
	oid, ok := objectIDParam(c)
	if !ok {
		return
	}

	var camp models.Camp
	err := h.Camps.FindOne(c.Request.Context(), bson.M{"_id": oid}, &camp)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusOK, nil)
		return
	}
	if err != nil {
		respondStoreError(c, err, "Failed to retrieve camp")
		return
	}
	c.JSON(http.StatusOK, camp)
}

// PatchCamp sets participantCount. A miss upserts a partial camp.
func (h *CampHandler) PatchCamp(c *gin.Context) {
	oid, ok := objectIDParam(c)
	if !ok {
		return
	}

	var req PatchCampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.Camps.UpdateOne(c.Request.Context(),
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"participantCount": *req.ParticipantCount}},
		true,
	)
	if err != nil {
		respondStoreError(c, err, "Failed to update camp")
		return
	}

	h.changed(c, socket.CampEvent{Type: socket.CampUpdated, CampID: oid.Hex(), ParticipantCount: req.ParticipantCount})
	c.JSON(http.StatusOK, result)
}

// ReplaceCamp overwrites every editable field. Sending the same body twice
// leaves the camp as it was after the first call.
func (h *CampHandler) ReplaceCamp(c *gin.Context) {
	oid, ok := objectIDParam(c)
	if !ok {
		return
	}

	var req CampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	set := bson.M{
		"campName":               req.CampName,
		"description":            req.Description,
		"location":               req.Location,
		"date":                   req.Date,
		"healthcareProfessional": req.HealthcareProfessional,
		"campFees":               req.CampFees,
		"organizerEmail":         req.OrganizerEmail,
		"organizer":              req.Organizer,
		"image":                  req.Image,
	}
	if req.ParticipantCount != nil {
		set["participantCount"] = *req.ParticipantCount
	}

	result, err := h.Camps.UpdateOne(c.Request.Context(), bson.M{"_id": oid}, bson.M{"$set": set}, true)
	if err != nil {
		respondStoreError(c, err, "Failed to replace camp")
		return
	}

	h.changed(c, socket.CampEvent{Type: socket.CampReplaced, CampID: oid.Hex(), ParticipantCount: req.ParticipantCount})
	c.JSON(http.StatusOK, result)
}

func (h *CampHandler) DeleteCamp(c *gin.Context) {
	oid, ok := objectIDParam(c)
	if !ok {
		return
	}

	result, err := h.Camps.DeleteOne(c.Request.Context(), bson.M{"_id": oid})
	if err != nil {
		respondStoreError(c, err, "Failed to delete camp")
		return
	}

	h.changed(c, socket.CampEvent{Type: socket.CampDeleted, CampID: oid.Hex()})
	c.JSON(http.StatusOK, result)
}

// changed drops cached listings and notifies subscribers. Neither failure
// affects the response; the write already happened.
func (h *CampHandler) changed(c *gin.Context, ev socket.CampEvent) {
	ctx := c.Request.Context()
	if h.Cache != nil {
		if err := h.Cache.Invalidate(ctx); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Msg("camp listing cache invalidation failed")
		}
	}
	if h.Notifier != nil {
		h.Notifier.Broadcast(ev)
	}
}

func idString(id interface{}) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return ""
	}
}
