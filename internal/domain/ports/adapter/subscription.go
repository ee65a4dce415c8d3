package adapter

import (
	"context"

	"wellness-entitlements/internal/domain/model"
)

// PaymentInit is the provider-agnostic result of initializing a payment.
// Paystack returns an access code for its in-page widget; Flutterwave returns
// a server-generated authorization URL for a full redirect.
type PaymentInit struct {
	Reference        string
	AccessCode       string
	AuthorizationURL string
}

// SubscriptionAPI is the port for the remote subscription service. It is the
// sole source of truth for the user's SubscriptionRecord; the engine never
// self-asserts an upgrade.
type SubscriptionAPI interface {
	// FetchSubscription returns the caller's current record.
	// domain.ErrNotFound means no record exists (treated as free/inactive).
	FetchSubscription(ctx context.Context) (model.SubscriptionRecord, error)

	// InitializePayment creates a payment intent with the given gateway.
	InitializePayment(ctx context.Context, gateway model.PaymentGatewayID, tier model.Tier, amount int64, reference string) (PaymentInit, error)

	// VerifyPayment asks the server to confirm the gateway transaction and
	// returns the canonical post-payment record. Any verification rejection
	// is surfaced as an error; the server may be asked again for the same
	// reference without double-charging (it deduplicates by reference).
	VerifyPayment(ctx context.Context, gateway model.PaymentGatewayID, reference string) (model.SubscriptionRecord, error)

	// CancelSubscription requests a downgrade at period end.
	CancelSubscription(ctx context.Context) error
}
