// server/internal/models/success_story.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// SuccessStory is curated content shown on the landing page. The API only
// reads it.
type SuccessStory struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	CampName    string             `bson:"campName,omitempty" json:"campName,omitempty"`
	Participant string             `bson:"participant,omitempty" json:"participant,omitempty"`
}
