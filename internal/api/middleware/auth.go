// server/internal/api/middleware/auth.go
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medcamp-api-server/internal/auth"
	"medcamp-api-server/internal/logger"
)

const claimsKey = "auth_claims"

// Authenticate verifies the bearer token and stores the decoded claims on the
// request context.
func Authenticate(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			AbortWithAuthError(c, err)
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			AbortWithAuthError(c, err)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAdmin must run after Authenticate. It re-reads the caller's role
// from the store on every request.
func RequireAdmin(gate *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := gate.RequireAdmin(c.Request.Context(), Claims(c)); err != nil {
			AbortWithAuthError(c, err)
			return
		}
		c.Next()
	}
}

// Claims returns the claims set by Authenticate, or nil on public routes.
func Claims(c *gin.Context) auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(auth.Claims)
	return claims
}

// AbortWithAuthError maps auth failures onto 401/403; anything else is a
// server error.
func AbortWithAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": auth.ErrUnauthenticated.Error()})
	case errors.Is(err, auth.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": auth.ErrForbidden.Error()})
	default:
		logger.FromContext(c.Request.Context()).Error().Err(err).Msg("authorization check failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}
