package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"wellness-entitlements/internal/usecase"
)

// Server exposes the entitlement engine to the UI layer.
type Server struct {
	entUC  usecase.EntitlementUseCase
	payUC  usecase.PaymentUseCase
	bridge usecase.ChallengeBridge
	auth   *AuthManager
	log    *zerolog.Logger
}

func NewServer(
	entUC usecase.EntitlementUseCase,
	payUC usecase.PaymentUseCase,
	bridge usecase.ChallengeBridge,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	webLog := logger.With().Str("component", "WebServer").Logger()
	return &Server{
		entUC:  entUC,
		payUC:  payUC,
		bridge: bridge,
		auth:   auth,
		log:    &webLog,
	}
}

// Router builds the chi routing tree. Everything under /api/v1 requires a
// valid bearer token.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.auth.Middleware)

		r.Get("/entitlements", s.handleEntitlements)
		r.Post("/entitlements/refresh", s.handleRefresh)
		r.Get("/entitlements/features/{id}", s.handleFeatureAccess)

		r.Post("/subscriptions/upgrade", s.handleUpgrade)
		r.Post("/subscriptions/upgrade/complete", s.handleUpgradeComplete)
		r.Post("/subscriptions/upgrade/abandon", s.handleUpgradeAbandon)
		r.Post("/subscriptions/cancel", s.handleCancel)

		r.Get("/banner", s.handleBanner)
		r.Post("/banner/dismiss", s.handleBannerDismiss)
		r.Post("/banner/join", s.handleBannerJoin)
		r.Post("/challenges/{id}/join", s.handleChallengeJoin)
	})

	return r
}
