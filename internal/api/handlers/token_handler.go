// server/internal/api/handlers/token_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medcamp-api-server/internal/auth"
)

type TokenHandler struct {
	Tokens *auth.TokenService
}

// IssueToken signs whatever claims the client posts. The payload must carry
// an email; nothing else is interpreted.
func (h *TokenHandler) IssueToken(c *gin.Context) {
	var claims auth.Claims
	if err := c.ShouldBindJSON(&claims); err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}
	if claims.Email() == "" {
		respondMessage(c, http.StatusBadRequest, "email is required")
		return
	}

	token, err := h.Tokens.Issue(claims)
	if err != nil {
		respondStoreError(c, err, "Failed to issue token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
