// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"wellness-entitlements/internal/domain"
	"wellness-entitlements/internal/domain/model"
	"wellness-entitlements/internal/domain/ports/adapter"
	"wellness-entitlements/internal/infra/metrics"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// PaymentUseCase drives one tier upgrade at a time through an external payment
// gateway to a server-verified entitlement change.
type PaymentUseCase interface {
	// Initiate creates a payment session with the gateway. For Paystack the
	// returned PaymentInit carries the widget access code; for Flutterwave it
	// carries the authorization URL the UI must navigate to (verification
	// then resumes out of band via the callback route).
	Initiate(ctx context.Context, tier model.Tier, gateway model.PaymentGatewayID) (*model.PaymentSession, adapter.PaymentInit, error)

	// Complete verifies the referenced attempt with the server and, on
	// success, applies the canonical record to the entitlement store. A
	// rejected or timed-out verification is terminal: the caller is told to
	// contact support with the reference, never to retry blindly.
	Complete(ctx context.Context, reference string) (*model.PaymentSession, error)

	// Abandon marks the attempt cancelled (user closed the widget). This is
	// a terminal, non-error outcome; the stored record is untouched.
	Abandon(reference string) (*model.PaymentSession, error)

	// Session returns a snapshot of the current attempt, or nil.
	Session() *model.PaymentSession
}

type paymentUC struct {
	api          adapter.SubscriptionAPI
	entitlements EntitlementUseCase
	verifyWait   time.Duration
	log          *zerolog.Logger

	mu      sync.Mutex
	session *model.PaymentSession
	entropy *rand.Rand
}

// NewPaymentUseCase constructs the coordinator. verifyWait bounds how long a
// single verification call may hang before it counts as failed.
func NewPaymentUseCase(api adapter.SubscriptionAPI, entitlements EntitlementUseCase, verifyWait time.Duration, logger *zerolog.Logger) *paymentUC {
	if verifyWait <= 0 {
		verifyWait = 30 * time.Second
	}
	payLog := logger.With().Str("component", "PaymentCoordinator").Logger()
	return &paymentUC{
		api:          api,
		entitlements: entitlements,
		verifyWait:   verifyWait,
		log:          &payLog,
		entropy:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// newReference builds a per-attempt correlation id. The ULID component is
// unique and time-ordered so the server can deduplicate repeated verification
// calls for the same attempt.
func (u *paymentUC) newReference(tier model.Tier) string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), u.entropy)
	return fmt.Sprintf("%s_%s", tier, id.String())
}

func (u *paymentUC) Initiate(ctx context.Context, tier model.Tier, gateway model.PaymentGatewayID) (*model.PaymentSession, adapter.PaymentInit, error) {
	if _, err := model.ParseGateway(string(gateway)); err != nil {
		return nil, adapter.PaymentInit{}, err
	}
	// Price comes from the fixed table, never from the caller.
	amount, err := model.PriceFor(tier)
	if err != nil {
		return nil, adapter.PaymentInit{}, err
	}

	u.mu.Lock()
	if u.session != nil && !u.session.State.Terminal() {
		u.mu.Unlock()
		return nil, adapter.PaymentInit{}, domain.ErrUpgradeInFlight
	}
	reference := u.newReference(tier)
	session := &model.PaymentSession{
		Tier:      tier,
		Gateway:   gateway,
		Reference: reference,
		Amount:    amount,
		State:     model.SessionInitiated,
		CreatedAt: time.Now(),
	}
	u.session = session
	u.mu.Unlock()

	init, err := u.api.InitializePayment(ctx, gateway, tier, amount, reference)
	if err != nil {
		// Fail fast: no session survives a failed initialization.
		u.mu.Lock()
		u.session = nil
		u.mu.Unlock()
		u.log.Error().Err(err).Str("gateway", string(gateway)).Msg("payment initialization failed")
		metrics.IncPaymentSession(string(gateway), "init_failed")
		return nil, adapter.PaymentInit{}, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	if init.Reference != "" {
		// Prefer a gateway-assigned reference when the provider issues one.
		u.mu.Lock()
		session.Reference = init.Reference
		u.mu.Unlock()
	} else {
		init.Reference = reference
	}

	u.log.Info().
		Str("gateway", string(gateway)).
		Str("tier", string(tier)).
		Str("reference", session.Reference).
		Msg("payment session initiated")
	metrics.IncPaymentSession(string(gateway), "initiated")
	snapshot := *session
	return &snapshot, init, nil
}

func (u *paymentUC) Complete(ctx context.Context, reference string) (*model.PaymentSession, error) {
	u.mu.Lock()
	session := u.session
	if session == nil || session.Reference != reference {
		u.mu.Unlock()
		return nil, domain.ErrNoSuchSession
	}
	if session.State != model.SessionInitiated {
		u.mu.Unlock()
		if session.State == model.SessionVerifying {
			return nil, domain.ErrUpgradeInFlight
		}
		snapshot := *session
		return &snapshot, domain.ErrNoSuchSession
	}
	session.State = model.SessionVerifying
	gateway := session.Gateway
	u.mu.Unlock()

	// The server is the sole authority on payment validity. Bound the wait so
	// a hung verification cannot leave the UI stuck in Verifying forever.
	verifyCtx, cancel := context.WithTimeout(ctx, u.verifyWait)
	defer cancel()

	start := time.Now()
	rec, err := u.api.VerifyPayment(verifyCtx, gateway, reference)
	elapsed := time.Since(start)

	u.mu.Lock()
	defer u.mu.Unlock()
	if err != nil {
		session.State = model.SessionVerificationFailed
		u.log.Error().Err(err).
			Str("reference", reference).
			Dur("took", elapsed).
			Msg("payment verification failed; user must contact support with the reference")
		metrics.ObservePaymentVerify("fail", elapsed.Seconds())
		metrics.IncPaymentSession(string(gateway), "verification_failed")
		snapshot := *session
		return &snapshot, fmt.Errorf("%w: %v", domain.ErrVerificationFailed, err)
	}

	session.State = model.SessionVerified
	u.entitlements.ApplyVerifiedUpgrade(rec)
	u.log.Info().
		Str("reference", reference).
		Str("tier", string(rec.Tier)).
		Dur("took", elapsed).
		Msg("payment verified; entitlement updated")
	metrics.ObservePaymentVerify("ok", elapsed.Seconds())
	metrics.IncPaymentSession(string(gateway), "verified")
	snapshot := *session
	return &snapshot, nil
}

func (u *paymentUC) Abandon(reference string) (*model.PaymentSession, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	session := u.session
	if session == nil || session.Reference != reference {
		return nil, domain.ErrNoSuchSession
	}
	if session.State.Terminal() {
		snapshot := *session
		return &snapshot, nil
	}
	if session.State == model.SessionVerifying {
		// Too late to abandon: a verification call is already in flight.
		return nil, domain.ErrUpgradeInFlight
	}
	session.State = model.SessionCancelled
	u.log.Info().Str("reference", reference).Msg("payment cancelled by user")
	metrics.IncPaymentSession(string(session.Gateway), "cancelled")
	snapshot := *session
	return &snapshot, nil
}

func (u *paymentUC) Session() *model.PaymentSession {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.session == nil {
		return nil
	}
	snapshot := *u.session
	return &snapshot
}
