package model

import (
	"time"

	"wellness-entitlements/internal/domain"
)

// PaymentGatewayID identifies a supported external payment provider.
type PaymentGatewayID string

const (
	GatewayPaystack    PaymentGatewayID = "paystack"    // in-page widget flow
	GatewayFlutterwave PaymentGatewayID = "flutterwave" // server-generated redirect flow
)

// ParseGateway validates a wire-format gateway string.
func ParseGateway(s string) (PaymentGatewayID, error) {
	switch PaymentGatewayID(s) {
	case GatewayPaystack, GatewayFlutterwave:
		return PaymentGatewayID(s), nil
	}
	return "", domain.ErrUnknownGateway
}

// PaymentSessionState is the lifecycle of one in-flight upgrade attempt.
type PaymentSessionState string

const (
	SessionInitiated          PaymentSessionState = "initiated"
	SessionVerifying          PaymentSessionState = "verifying"
	SessionVerified           PaymentSessionState = "verified"
	SessionVerificationFailed PaymentSessionState = "verification_failed"
	SessionCancelled          PaymentSessionState = "cancelled" // user closed the widget; terminal, not an error
)

// Terminal reports whether the session can no longer transition.
func (s PaymentSessionState) Terminal() bool {
	switch s {
	case SessionVerified, SessionVerificationFailed, SessionCancelled:
		return true
	}
	return false
}

// PaymentSession is the ephemeral record of a single upgrade attempt. It is
// discarded once the attempt resolves; nothing here is persisted.
type PaymentSession struct {
	Tier      Tier
	Gateway   PaymentGatewayID
	Reference string // opaque correlation id, unique per attempt
	Amount    int64  // minor currency units, from the fixed price table
	State     PaymentSessionState
	CreatedAt time.Time
}

// tierPrices is the authoritative client-side tier -> amount table in minor
// units. Amounts are never taken from user input; the server re-checks them.
var tierPrices = map[Tier]int64{
	TierPremium: 299_900,
	TierPro:     499_900,
}

// PriceFor returns the purchase amount for a tier. Free is not purchasable.
func PriceFor(t Tier) (int64, error) {
	amount, ok := tierPrices[t]
	if !ok {
		return 0, domain.ErrTierNotPurchasable
	}
	return amount, nil
}
