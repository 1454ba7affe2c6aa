// server/internal/api/handlers/respond.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"medcamp-api-server/internal/logger"
)

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// respondStoreError logs err with the request logger and answers 500.
func respondStoreError(c *gin.Context, err error, message string) {
	logger.FromContext(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg(message)
	respondMessage(c, http.StatusInternalServerError, message)
}

// objectIDParam parses the :id path parameter, answering 400 when malformed.
func objectIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid id")
		return primitive.NilObjectID, false
	}
	return oid, true
}
