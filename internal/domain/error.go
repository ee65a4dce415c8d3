package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrUnauthorized       = errors.New("missing or invalid identity token")
	ErrUnknownTier        = errors.New("unknown subscription tier")
	ErrUnknownGateway     = errors.New("unknown payment gateway")
	ErrTierNotPurchasable = errors.New("tier has no purchase price")
	ErrUpgradeInFlight    = errors.New("another upgrade is already being verified")
	ErrNoSuchSession      = errors.New("no payment session with that reference")
	ErrVerificationFailed = errors.New("payment verification failed")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrNoCurrentBanner    = errors.New("no banner is currently shown")
)
