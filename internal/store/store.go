// server/internal/store/store.go

// Package store is the document store adapter the handlers talk to. It exposes
// the handful of single-document operations the API needs and returns result
// records shaped like the store's own acknowledgements, which the handlers
// send back verbatim.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	// ErrNotFound is returned by FindOne when no document matches.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate key")
)

// FindOptions controls Find. A zero Limit means no limit.
type FindOptions struct {
	Sort  bson.D
	Limit int64
}

type InsertResult struct {
	Acknowledged bool        `json:"acknowledged"`
	InsertedID   interface{} `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool        `json:"acknowledged"`
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedCount int64       `json:"upsertedCount"`
	UpsertedID    interface{} `json:"upsertedId"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// Collection is one named collection of documents.
//
// UpdateOne takes upsert explicitly so every call site states whether a miss
// creates a new (partial) document.
type Collection interface {
	FindOne(ctx context.Context, filter interface{}, out interface{}) error
	Find(ctx context.Context, filter interface{}, opts FindOptions, out interface{}) error
	InsertOne(ctx context.Context, doc interface{}) (*InsertResult, error)
	UpdateOne(ctx context.Context, filter, update interface{}, upsert bool) (*UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}) (*DeleteResult, error)
}

// Store hands out collections by name.
type Store interface {
	Collection(name string) Collection
}
