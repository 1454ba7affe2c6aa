// server/internal/models/camp.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Camp is a medical camp listed by an organizer.
type Camp struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CampName               string             `bson:"campName" json:"campName"`
	Description            string             `bson:"description" json:"description"`
	Location               string             `bson:"location" json:"location"`
	Date                   string             `bson:"date" json:"date"`
	HealthcareProfessional string             `bson:"healthcareProfessional" json:"healthcareProfessional"`
	CampFees               float64            `bson:"campFees" json:"campFees"`
	ParticipantCount       int                `bson:"participantCount" json:"participantCount"`
	OrganizerEmail         string             `bson:"organizerEmail" json:"organizerEmail"`
	Organizer              string             `bson:"organizer" json:"organizer"`
	Image                  string             `bson:"image" json:"image"`
}
