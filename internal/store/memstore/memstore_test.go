package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"medcamp-api-server/internal/store"
)

func TestUnique_IgnoresDocumentsWithoutTheField(t *testing.T) {
	ctx := context.Background()
	db := New()
	db.Unique("users", "email")
	users := db.Collection("users")

	for i := 0; i < 2; i++ {
		res, err := users.UpdateOne(ctx,
			bson.M{"_id": primitive.NewObjectID()},
			bson.M{"$set": bson.M{"name": "x"}},
			true,
		)
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.UpsertedCount)
	}
	assert.Equal(t, 2, db.Len("users"))
}

func TestUnique_RejectsRepeatedStrings(t *testing.T) {
	ctx := context.Background()
	db := New()
	db.Unique("users", "email")
	users := db.Collection("users")

	_, err := users.InsertOne(ctx, bson.M{"email": "a@x.com"})
	require.NoError(t, err)
	_, err = users.InsertOne(ctx, bson.M{"email": "a@x.com"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	// An upsert seeded with a taken email conflicts too.
	_, err = users.UpdateOne(ctx,
		bson.M{"_id": primitive.NewObjectID(), "email": "a@x.com"},
		bson.M{"$set": bson.M{"name": "x"}},
		true,
	)
	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.Equal(t, 1, db.Len("users"))
}

func TestUpsert_CannotReuseAnExistingID(t *testing.T) {
	ctx := context.Background()
	db := New()
	users := db.Collection("users")

	res, err := users.InsertOne(ctx, bson.M{"email": "owner@x.com"})
	require.NoError(t, err)

	_, err = users.UpdateOne(ctx,
		bson.M{"_id": res.InsertedID, "email": "other@x.com"},
		bson.M{"$set": bson.M{"name": "x"}},
		true,
	)
	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.Equal(t, 1, db.Len("users"))
}
