// server/internal/database/mongo.go
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"medcamp-api-server/config"
)

// Collection names.
const (
	UsersCollection        = "users"
	CampsCollection        = "allCamps"
	ParticipantsCollection = "participantCamps"
	SuccessCollection      = "successStory"
	ReviewsCollection      = "reviews"
	HistoriesCollection    = "histories"
)

const connectTimeout = 10 * time.Second

// Connect opens a client with the stable server API and pings the
// deployment. The caller owns the client and must Disconnect it.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.ConnectionURI()).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1).SetStrict(true).SetDeprecationErrors(true))

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	log.Info().Str("db", cfg.DBName).Msg("Pinged your deployment. Connected to MongoDB")
	return client, client.Database(cfg.DBName), nil
}

// EmailIndexName names the unique index on users.email.
const EmailIndexName = "email_unique"

// Server codes for an index whose name exists with different options.
const (
	codeIndexOptionsConflict  = 85
	codeIndexKeySpecsConflict = 86
)

// IndexModels lists the indexes the API relies on, per collection. The
// unique email index is what actually prevents duplicate identities under
// concurrent sign-ups; the handler's existence check is only a fast path.
func IndexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		UsersCollection: {
			// Partial: upserted profile patches carry no email and must not
			// collide on null.
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"email": bson.M{"$type": "string"}}).
				SetName(EmailIndexName)},
		},
		CampsCollection: {
			{Keys: bson.D{{Key: "organizerEmail", Value: 1}}},
			{Keys: bson.D{{Key: "participantCount", Value: -1}}},
		},
		ParticipantsCollection: {
			{Keys: bson.D{{Key: "participantEmail", Value: 1}, {Key: "campId", Value: 1}}},
		},
		HistoriesCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}, {Key: "date", Value: -1}}},
		},
	}
}

// EnsureIndexes creates IndexModels. An email index left over from an older
// deployment with different options is dropped and rebuilt.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for name, models := range IndexModels() {
		indexes := db.Collection(name).Indexes()
		_, err := indexes.CreateMany(ctx, models)
		if err != nil && name == UsersCollection && isIndexConflict(err) {
			log.Warn().Str("index", EmailIndexName).Msg("Rebuilding users email index with new options")
			if dropErr := dropEmailIndexes(ctx, indexes); dropErr != nil {
				return dropErr
			}
			_, err = indexes.CreateMany(ctx, models)
		}
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// dropEmailIndexes removes every index keyed on email alone, whatever name
// an earlier deployment gave it.
func dropEmailIndexes(ctx context.Context, indexes mongo.IndexView) error {
	cursor, err := indexes.List(ctx)
	if err != nil {
		return fmt.Errorf("list users indexes: %w", err)
	}
	var specs []struct {
		Name string `bson:"name"`
		Key  bson.D `bson:"key"`
	}
	if err := cursor.All(ctx, &specs); err != nil {
		return fmt.Errorf("decode users indexes: %w", err)
	}
	for _, spec := range specs {
		if len(spec.Key) != 1 || spec.Key[0].Key != "email" {
			continue
		}
		if _, err := indexes.DropOne(ctx, spec.Name); err != nil {
			return fmt.Errorf("drop index %s: %w", spec.Name, err)
		}
	}
	return nil
}

func isIndexConflict(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == codeIndexOptionsConflict || cmdErr.Code == codeIndexKeySpecsConflict
	}
	return false
}
