package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"medcamp-api-server/config"
	"medcamp-api-server/internal/models"
	"medcamp-api-server/internal/store/memstore"
)

func TestSeedAdmin_CreatesAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := memstore.New()
	users := db.Collection(UsersCollection)
	cfg := config.SeedConfig{AdminEmail: "root@x.com", AdminName: "Root"}

	require.NoError(t, SeedAdmin(ctx, users, cfg))
	require.NoError(t, SeedAdmin(ctx, users, cfg))
	assert.Equal(t, 1, db.Len(UsersCollection))

	var u models.User
	require.NoError(t, users.FindOne(ctx, bson.M{"email": "root@x.com"}, &u))
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.Equal(t, "Root", u.Name)
}

func TestSeedAdmin_PromotesExistingIdentity(t *testing.T) {
	ctx := context.Background()
	db := memstore.New()
	users := db.Collection(UsersCollection)
	_, err := users.InsertOne(ctx, models.User{Email: "root@x.com", Name: "Keeps Name"})
	require.NoError(t, err)

	require.NoError(t, SeedAdmin(ctx, users, config.SeedConfig{AdminEmail: "root@x.com", AdminName: "Root"}))

	var u models.User
	require.NoError(t, users.FindOne(ctx, bson.M{"email": "root@x.com"}, &u))
	assert.True(t, u.IsAdmin())
	assert.Equal(t, "Keeps Name", u.Name)
}

func TestSeedAdmin_SkippedWithoutEmail(t *testing.T) {
	db := memstore.New()
	require.NoError(t, SeedAdmin(context.Background(), db.Collection(UsersCollection), config.SeedConfig{}))
	assert.Equal(t, 0, db.Len(UsersCollection))
}
