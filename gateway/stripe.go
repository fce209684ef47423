package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

const metadataTransactionID = "transaction_id"

// StripeGateway implements PaymentGateway on top of Stripe Checkout.
type StripeGateway struct {
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{webhookSecret: webhookSecret}
}

func (g *StripeGateway) OpenSession(ctx context.Context, req *SessionRequest) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Params:            stripe.Params{Context: ctx},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.TransactionID),
		CustomerEmail:     stripe.String(req.Customer.Email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(req.Currency)),
					UnitAmount: stripe.Int64(toMinorUnits(req.Amount, req.Currency)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Order " + req.TransactionID),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.AddMetadata(metadataTransactionID, req.TransactionID)

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe OpenSession: %w", err)
	}
	if sess.URL == "" {
		return "", errors.New("stripe OpenSession: session has no redirect URL")
	}
	return sess.URL, nil
}

func (g *StripeGateway) VerifyCallback(payload []byte, signature string) (*CallbackEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("stripe VerifyCallback: %w", err)
	}

	if event.Type != "checkout.session.completed" {
		return &CallbackEvent{}, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("stripe VerifyCallback: unmarshal session: %w", err)
	}

	transactionID := sess.Metadata[metadataTransactionID]
	if transactionID == "" {
		transactionID = sess.ClientReferenceID
	}
	if transactionID == "" {
		return nil, errors.New("stripe VerifyCallback: session has no transaction id")
	}

	return &CallbackEvent{
		TransactionID: transactionID,
		Succeeded:     sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
	}, nil
}

// zeroDecimalCurrencies are the ISO 4217 currencies whose smallest unit is
// the major unit itself, per Stripe's currency documentation.
var zeroDecimalCurrencies = map[string]bool{
	"BIF": true, "CLP": true, "DJF": true, "GNF": true, "JPY": true,
	"KMF": true, "KRW": true, "MGA": true, "PYG": true, "RWF": true,
	"UGX": true, "VND": true, "VUV": true, "XAF": true, "XOF": true,
	"XPF": true,
}

// toMinorUnits converts a major-unit amount to the smallest unit of the
// given currency.
func toMinorUnits(amount float64, currency string) int64 {
	if zeroDecimalCurrencies[strings.ToUpper(currency)] {
		return int64(math.Round(amount))
	}
	return int64(math.Round(amount * 100))
}
