// server/internal/payment/stripe.go
package payment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

var ErrInvalidAmount = errors.New("price must be a positive amount")

// IntentCreator asks the payment provider for a client secret.
type IntentCreator interface {
	CreateIntent(ctx context.Context, price float64) (clientSecret string, err error)
}

// StripeGateway creates card PaymentIntents.
type StripeGateway struct {
	api      *client.API
	currency string
}

func NewStripeGateway(secretKey, currency string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api, currency: currency}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, price float64) (string, error) {
	amount, err := AmountInCents(price)
	if err != nil {
		return "", err
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(g.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}

// AmountInCents converts a price in major units into the provider's
// smallest currency unit.
func AmountInCents(price float64) (int64, error) {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, ErrInvalidAmount
	}
	return int64(math.Round(price * 100)), nil
}
