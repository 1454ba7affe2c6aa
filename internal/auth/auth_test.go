package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medcamp-api-server/internal/models"
	"medcamp-api-server/internal/store/memstore"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue(Claims{"email": "a@x.com", "name": "A"})
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email())
	assert.Equal(t, "A", claims["name"])
}

func TestTokenService_Expiry(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService("test-secret")
	svc.now = fixedClock(issuedAt)

	token, err := svc.Issue(Claims{"email": "a@x.com"})
	require.NoError(t, err)

	svc.now = fixedClock(issuedAt.Add(59 * time.Minute))
	_, err = svc.Verify(token)
	assert.NoError(t, err)

	svc.now = fixedClock(issuedAt.Add(TokenTTL + time.Second))
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestTokenService_RejectsForeignSignature(t *testing.T) {
	token, err := NewTokenService("other-secret").Issue(Claims{"email": "a@x.com"})
	require.NoError(t, err)

	_, err = NewTokenService("test-secret").Verify(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = NewTokenService("test-secret").Verify("not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestTokenService_IssueRequiresEmail(t *testing.T) {
	_, err := NewTokenService("test-secret").Issue(Claims{"name": "nobody"})
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	_, err := BearerToken("")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	tok, err := BearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", tok)

	// malformed values pass through and fail later at verification
	tok, err = BearerToken("Token abc")
	require.NoError(t, err)
	assert.Equal(t, "Token abc", tok)
}

func TestGate_RequireAdmin(t *testing.T) {
	ctx := context.Background()
	db := memstore.New()
	users := db.Collection("users")
	_, err := users.InsertOne(ctx, models.User{Email: "admin@x.com", Role: models.RoleAdmin})
	require.NoError(t, err)
	_, err = users.InsertOne(ctx, models.User{Email: "user@x.com"})
	require.NoError(t, err)

	gate := NewGate(users)

	assert.NoError(t, gate.RequireAdmin(ctx, Claims{"email": "admin@x.com"}))
	assert.ErrorIs(t, gate.RequireAdmin(ctx, Claims{"email": "user@x.com"}), ErrForbidden)
	assert.ErrorIs(t, gate.RequireAdmin(ctx, Claims{"email": "ghost@x.com"}), ErrForbidden)
	assert.ErrorIs(t, gate.RequireAdmin(ctx, Claims{}), ErrForbidden)
}

func TestGate_RoleChangeAppliesImmediately(t *testing.T) {
	ctx := context.Background()
	db := memstore.New()
	users := db.Collection("users")
	res, err := users.InsertOne(ctx, models.User{Email: "user@x.com"})
	require.NoError(t, err)

	gate := NewGate(users)
	claims := Claims{"email": "user@x.com"}
	require.ErrorIs(t, gate.RequireAdmin(ctx, claims), ErrForbidden)

	_, err = users.UpdateOne(ctx, map[string]interface{}{"_id": res.InsertedID},
		map[string]interface{}{"$set": map[string]interface{}{"role": models.RoleAdmin}}, false)
	require.NoError(t, err)

	assert.NoError(t, gate.RequireAdmin(ctx, claims))
}

func TestRequireSelf(t *testing.T) {
	assert.NoError(t, RequireSelf(Claims{"email": "a@x.com"}, "a@x.com"))
	assert.ErrorIs(t, RequireSelf(Claims{"email": "a@x.com"}, "b@x.com"), ErrForbidden)
	assert.ErrorIs(t, RequireSelf(Claims{}, ""), ErrForbidden)
}
