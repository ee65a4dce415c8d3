package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wellness-entitlements/internal/domain"
)

func TestChallengeClient_PremiumBanners(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/challenges/premium-banners" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "ch-1", "type": "hydration", "goal": "2L daily", "duration": 30, "isPremiumChallenge": true},
			{"id": "ch-2", "type": "steps", "goal": "10k daily", "duration": 14, "isPremiumChallenge": false},
		})
	}))
	defer srv.Close()

	c := NewChallengeClient(srv.URL, "tok", time.Second)
	banners, err := c.PremiumBanners(context.Background())
	if err != nil {
		t.Fatalf("PremiumBanners: %v", err)
	}
	if len(banners) != 2 || banners[0].ID != "ch-1" || !banners[0].IsPremiumChallenge {
		t.Fatalf("unexpected banners %+v", banners)
	}
}

func TestChallengeClient_JoinStructuredGrant(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/challenges/ch-1/join" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		// The grant is an explicit field; the human-readable message is
		// informational only.
		_ = json.NewEncoder(w).Encode(map[string]any{
			"joined":  true,
			"granted": true,
			"message": "Welcome! Premium unlocked for the challenge duration.",
		})
	}))
	defer srv.Close()

	c := NewChallengeClient(srv.URL, "tok", time.Second)
	res, err := c.JoinChallenge(context.Background(), "ch-1")
	if err != nil {
		t.Fatalf("JoinChallenge: %v", err)
	}
	if !res.Joined || !res.Granted {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestChallengeClient_JoinUnknownChallenge(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewChallengeClient(srv.URL, "tok", time.Second)
	if _, err := c.JoinChallenge(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestChallengeClient_TrackSession(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/challenges/session-track" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["sessionId"] == "" {
			t.Errorf("missing sessionId")
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewChallengeClient(srv.URL, "tok", time.Second)
	if err := c.TrackSession(context.Background(), "sess-1"); err != nil {
		t.Fatalf("TrackSession: %v", err)
	}
}
