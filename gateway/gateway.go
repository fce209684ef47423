package gateway

import "context"

// CustomerInfo is the buyer detail forwarded to the payment provider.
type CustomerInfo struct {
	Name       string
	Email      string
	Phone      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// SessionRequest asks the provider to open a hosted payment session.
// Amount is in major currency units; implementations convert as needed.
type SessionRequest struct {
	TransactionID string
	Amount        float64
	Currency      string
	Customer      CustomerInfo
	SuccessURL    string
	FailURL       string
	CancelURL     string
}

// CallbackEvent is a provider notification parsed from a signed webhook.
type CallbackEvent struct {
	TransactionID string
	Succeeded     bool
}

// PaymentGateway abstracts the hosted payment provider so the checkout flow
// can be exercised against a test double.
type PaymentGateway interface {
	// OpenSession opens a payment session for the given amount and returns
	// the URL the buyer's browser should be redirected to.
	OpenSession(ctx context.Context, req *SessionRequest) (string, error)

	// VerifyCallback authenticates a provider webhook payload against its
	// signature header and extracts the affected transaction.
	VerifyCallback(payload []byte, signature string) (*CallbackEvent, error)
}
