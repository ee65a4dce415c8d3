package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wellness-entitlements/internal/domain"
	"wellness-entitlements/internal/domain/model"
	"wellness-entitlements/internal/domain/ports/adapter"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// entitlementsResponse is the record plus the derived predicates the UI gates
// on.
type entitlementsResponse struct {
	Record           model.SubscriptionRecord `json:"record"`
	IsPremiumActive  bool                     `json:"isPremiumActive"`
	IsProActive      bool                     `json:"isProActive"`
	HasPremiumAccess bool                     `json:"hasPremiumAccess"`
	HasProAccess     bool                     `json:"hasProAccess"`
}

func (s *Server) entitlementsBody() entitlementsResponse {
	return entitlementsResponse{
		Record:           s.entUC.Record(),
		IsPremiumActive:  s.entUC.IsPremiumActive(),
		IsProActive:      s.entUC.IsProActive(),
		HasPremiumAccess: s.entUC.HasPremiumAccess(),
		HasProAccess:     s.entUC.HasProAccess(),
	}
}

func (s *Server) handleEntitlements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.entitlementsBody())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.entUC.Refresh(r.Context())
	writeJSON(w, http.StatusOK, s.entitlementsBody())
}

func (s *Server) handleFeatureAccess(w http.ResponseWriter, r *http.Request) {
	id := model.FeatureID(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, map[string]any{
		"feature": id,
		"allowed": s.entUC.CheckFeatureAccess(id),
	})
}

type upgradeRequest struct {
	Tier    string `json:"tier"`
	Gateway string `json:"gateway"`
}

type upgradeResponse struct {
	State            model.PaymentSessionState `json:"state"`
	Reference        string                    `json:"reference"`
	AccessCode       string                    `json:"accessCode,omitempty"`
	AuthorizationURL string                    `json:"authorizationUrl,omitempty"`
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	var req upgradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	tier, err := model.ParseTier(req.Tier)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	gateway, err := model.ParseGateway(req.Gateway)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, init, err := s.payUC.Initiate(r.Context(), tier, gateway)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUpgradeInFlight):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, domain.ErrTierNotPurchasable):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	default:
		http.Error(w, "Payment initialization failed", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, upgradeResponse{
		State:            session.State,
		Reference:        session.Reference,
		AccessCode:       init.AccessCode,
		AuthorizationURL: init.AuthorizationURL,
	})
}

type referenceRequest struct {
	Reference string `json:"reference"`
}

func (s *Server) handleUpgradeComplete(w http.ResponseWriter, r *http.Request) {
	var req referenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Reference == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := s.payUC.Complete(r.Context(), req.Reference)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{
			"state":        session.State,
			"reference":    session.Reference,
			"entitlements": s.entitlementsBody(),
		})
	case errors.Is(err, domain.ErrNoSuchSession):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrUpgradeInFlight):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrVerificationFailed):
		// Terminal: the user should contact support quoting the reference.
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"state":     model.SessionVerificationFailed,
			"reference": req.Reference,
			"message":   "Payment verification failed. Please contact support with your payment reference.",
		})
	default:
		http.Error(w, "Verification failed", http.StatusBadGateway)
	}
}

func (s *Server) handleUpgradeAbandon(w http.ResponseWriter, r *http.Request) {
	var req referenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Reference == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	session, err := s.payUC.Abandon(req.Reference)
	switch {
	case err == nil:
		// Reported as "Payment Cancelled", not as a failure.
		writeJSON(w, http.StatusOK, map[string]any{
			"state":   session.State,
			"message": "Payment Cancelled",
		})
	case errors.Is(err, domain.ErrNoSuchSession):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrUpgradeInFlight):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "Abandon failed", http.StatusInternalServerError)
	}
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if err := s.entUC.Cancel(r.Context()); err != nil {
		http.Error(w, "Cancellation failed; your subscription is unchanged", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, s.entitlementsBody())
}

func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) {
	banner := s.bridge.CurrentBanner()
	if banner == nil {
		writeJSON(w, http.StatusOK, map[string]any{"banner": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"banner": banner})
}

func (s *Server) handleBannerDismiss(w http.ResponseWriter, r *http.Request) {
	if err := s.bridge.DismissBanner(); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBannerJoin(w http.ResponseWriter, r *http.Request) {
	res, err := s.bridge.JoinCurrentBanner(r.Context())
	s.writeJoinResult(w, res, err)
}

func (s *Server) handleChallengeJoin(w http.ResponseWriter, r *http.Request) {
	res, err := s.bridge.JoinChallenge(r.Context(), chi.URLParam(r, "id"))
	s.writeJoinResult(w, res, err)
}

func (s *Server) writeJoinResult(w http.ResponseWriter, res adapter.JoinResult, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, res)
	case errors.Is(err, domain.ErrNoCurrentBanner), errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "Join failed", http.StatusBadGateway)
	}
}
