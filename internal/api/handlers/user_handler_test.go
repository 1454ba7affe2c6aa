package handlers

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"medcamp-api-server/internal/store"
	"medcamp-api-server/internal/store/memstore"
)

// blindCollection never finds anything, so every sign-up passes the fast
// path check the way two racing requests would.
type blindCollection struct {
	store.Collection
}

func (blindCollection) FindOne(context.Context, interface{}, interface{}) error {
	return store.ErrNotFound
}

func TestUserHandler_UniqueIndexSettlesRacingSignUps(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := memstore.New()
	db.Unique("users", "email")
	h := &UserHandler{Users: blindCollection{Collection: db.Collection("users")}}

	r := gin.New()
	r.POST("/users", h.CreateUser)

	const n = 8
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = serve(r, http.MethodPost, "/users", map[string]interface{}{"email": "race@x.com"}).Code
		}(i)
	}
	wg.Wait()

	created := 0
	for _, code := range codes {
		if code == http.StatusOK {
			created++
			continue
		}
		assert.Equal(t, http.StatusBadRequest, code)
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, db.Len("users"))
}

func TestUserHandler_CreateRequiresEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &UserHandler{Users: memstore.New().Collection("users")}
	r := gin.New()
	r.POST("/users", h.CreateUser)

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/users", map[string]interface{}{"name": "x"}).Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/users", map[string]interface{}{"email": "not-an-email"}).Code)
}
