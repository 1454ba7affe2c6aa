// server/internal/models/participant.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "Unpaid"
	PaymentPaid   PaymentStatus = "Paid"
)

// ParticipantRegistration records one participant signing up for one camp.
// The camp fields are copied in at registration time so the participant
// dashboard can render without a join.
type ParticipantRegistration struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ParticipantEmail       string             `bson:"participantEmail" json:"participantEmail"`
	ParticipantName        string             `bson:"participantName,omitempty" json:"participantName,omitempty"`
	CampID                 string             `bson:"campId" json:"campId"`
	CampName               string             `bson:"campName,omitempty" json:"campName,omitempty"`
	CampFees               float64            `bson:"campFees,omitempty" json:"campFees,omitempty"`
	Location               string             `bson:"location,omitempty" json:"location,omitempty"`
	HealthcareProfessional string             `bson:"healthcareProfessional,omitempty" json:"healthcareProfessional,omitempty"`
	Age                    int                `bson:"age,omitempty" json:"age,omitempty"`
	Phone                  string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Gender                 string             `bson:"gender,omitempty" json:"gender,omitempty"`
	EmergencyContact       string             `bson:"emergencyContact,omitempty" json:"emergencyContact,omitempty"`
	PaymentStatus          PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	ConfirmationStatus     string             `bson:"confirmationStatus,omitempty" json:"confirmationStatus,omitempty"`
}
