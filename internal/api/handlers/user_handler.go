// server/internal/api/handlers/user_handler.go
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

const msgUserExists = "User already exists"

type UserHandler struct {
	Users store.Collection
	Gate  *auth.Gate
}

type CreateUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type UpdateUserRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// GetUserByEmail returns the identity with the given email, or null. Only
// the owner or an admin may read it.
func (h *UserHandler) GetUserByEmail(c *gin.Context) {
	email := c.Param("email")
	if err := h.requireSelfOrAdmin(c, email); err != nil {
		middleware.AbortWithAuthError(c, err)
		return
	}

	var user models.User
	err := h.Users.FindOne(c.Request.Context(), bson.M{"email": email}, &user)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusOK, nil)
		return
	}
	if err != nil {
		respondStoreError(c, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUser registers a new identity. The lookup is a fast path only; the
// unique email index settles concurrent sign-ups.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}
	ctx := c.Request.Context()

	var existing models.User
	err := h.Users.FindOne(ctx, bson.M{"email": req.Email}, &existing)
	if err == nil {
		respondMessage(c, http.StatusBadRequest, msgUserExists)
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		respondStoreError(c, err, "Failed to check for existing user")
		return
	}

	// Role is never taken from the request body.
	user := models.User{Email: req.Email, Name: req.Name, Image: req.Image, Role: models.RoleNone}
	result, err := h.Users.InsertOne(ctx, user)
	if errors.Is(err, store.ErrDuplicate) {
		respondMessage(c, http.StatusBadRequest, msgUserExists)
		return
	}
	if err != nil {
		respondStoreError(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateUser patches name/image. A miss inserts a partial record (upsert).
// Non-admins are confined to their own email, so the only record a miss can
// create is theirs; if they already exist elsewhere the unique email index
// refuses it.
func (h *UserHandler) UpdateUser(c *gin.Context) {
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

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	set := bson.M{}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Image != "" {
		set["image"] = req.Image
	}
	if len(set) == 0 {
		respondMessage(c, http.StatusBadRequest, "no fields to update")
		return
	}

	filter := bson.M{"_id": oid}
	if !isAdmin {
		filter["email"] = claims.Email()
	}

	result, err := h.Users.UpdateOne(ctx, filter, bson.M{"$set": set}, true)
	if errors.Is(err, store.ErrDuplicate) {
		middleware.AbortWithAuthError(c, auth.ErrForbidden)
		return
	}
	if err != nil {
		respondStoreError(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListUsers returns every identity. Admin only.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users := []models.User{}
	if err := h.Users.Find(c.Request.Context(), bson.M{}, store.FindOptions{}, &users); err != nil {
		respondStoreError(c, err, "Failed to query users")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}

// MakeAdmin promotes an identity. Admin only; upserts like every patch.
func (h *UserHandler) MakeAdmin(c *gin.Context) {
	oid, ok := objectIDParam(c)
	if !ok {
		return
	}

	result, err := h.Users.UpdateOne(c.Request.Context(),
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"role": models.RoleAdmin}},
		true,
	)
	if err != nil {
		respondStoreError(c, err, "Failed to promote user")
		return
	}
	c.JSON(http.StatusOK, result)
}

// CheckAdmin answers {"admin": bool} for the caller's own email only.
func (h *UserHandler) CheckAdmin(c *gin.Context) {
	email := c.Param("email")
	if err := auth.RequireSelf(middleware.Claims(c), email); err != nil {
		middleware.AbortWithAuthError(c, err)
		return
	}

	var user models.User
	err := h.Users.FindOne(c.Request.Context(), bson.M{"email": email}, &user)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		respondStoreError(c, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": user.IsAdmin()})
}

// DeleteUser removes an identity. Admin only.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	oid, ok := objectIDParam(c)
	if !ok {
		return
	}

	result, err := h.Users.DeleteOne(c.Request.Context(), bson.M{"_id": oid})
	if err != nil {
		respondStoreError(c, err, "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *UserHandler) requireSelfOrAdmin(c *gin.Context, email string) error {
	claims := middleware.Claims(c)
	if auth.RequireSelf(claims, email) == nil {
		return nil
	}
	return h.Gate.RequireAdmin(c.Request.Context(), claims)
}
