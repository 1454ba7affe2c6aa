// server/internal/models/payment_history.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentHistory is an append-only log entry for a completed payment.
type PaymentHistory struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email          string             `bson:"email" json:"email"`
	Name           string             `bson:"name,omitempty" json:"name,omitempty"`
	CampID         string             `bson:"campId" json:"campId"`
	CampName       string             `bson:"campName,omitempty" json:"campName,omitempty"`
	RegistrationID string             `bson:"registrationId,omitempty" json:"registrationId,omitempty"`
	Price          float64            `bson:"price" json:"price"`
	TransactionID  string             `bson:"transactionId" json:"transactionId"`
	PaymentStatus  PaymentStatus      `bson:"paymentStatus,omitempty" json:"paymentStatus,omitempty"`
	Date           time.Time          `bson:"date" json:"date"`
}
