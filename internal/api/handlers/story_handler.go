// server/internal/api/handlers/story_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"medcamp-api-server/internal/models"
	"medcamp-api-server/internal/store"
)

type StoryHandler struct {
	Stories store.Collection
}

func (h *StoryHandler) ListStories(c *gin.Context) {
	stories := []models.SuccessStory{}
	if err := h.Stories.Find(c.Request.Context(), bson.M{}, store.FindOptions{}, &stories); err != nil {
		respondStoreError(c, err, "Failed to query success stories")
		return
	}
	if stories == nil {
		stories = []models.SuccessStory{}
	}
	c.JSON(http.StatusOK, stories)
}
