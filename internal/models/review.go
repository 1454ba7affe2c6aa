// server/internal/models/review.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is free-form participant feedback. Reviews are append-only.
type Review struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CampID           string             `bson:"campId,omitempty" json:"campId,omitempty"`
	CampName         string             `bson:"campName,omitempty" json:"campName,omitempty"`
	ParticipantEmail string             `bson:"participantEmail,omitempty" json:"participantEmail,omitempty"`
	ParticipantName  string             `bson:"participantName,omitempty" json:"participantName,omitempty"`
	Rating           int                `bson:"rating,omitempty" json:"rating,omitempty"` // 1-5
	Feedback         string             `bson:"feedback" json:"feedback"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}
