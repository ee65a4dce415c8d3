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
	"wellness-entitlements/internal/domain/model"
)

func TestSubscriptionClient_FetchSubscription(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/subscriptions/me" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("missing bearer token, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"tier":      "premium",
			"status":    "active",
			"autoRenew": true,
		})
	}))
	defer srv.Close()

	c := NewSubscriptionClient(srv.URL, "tok-1", time.Second)
	rec, err := c.FetchSubscription(context.Background())
	if err != nil {
		t.Fatalf("FetchSubscription: %v", err)
	}
	if rec.Tier != model.TierPremium || rec.Status != model.SubscriptionStatusActive || !rec.AutoRenew {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestSubscriptionClient_FetchNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewSubscriptionClient(srv.URL, "tok", time.Second)
	if _, err := c.FetchSubscription(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubscriptionClient_FetchRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"tier": "pro", "status": "active"})
	}))
	defer srv.Close()

	c := NewSubscriptionClient(srv.URL, "tok", time.Second)
	rec, err := c.FetchSubscription(context.Background())
	if err != nil {
		t.Fatalf("FetchSubscription: %v", err)
	}
	if rec.Tier != model.TierPro {
		t.Fatalf("expected pro record after retries, got %+v", rec)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestSubscriptionClient_VerifyNotRetried(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "payment not settled", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	c := NewSubscriptionClient(srv.URL, "tok", time.Second)
	if _, err := c.VerifyPayment(context.Background(), model.GatewayPaystack, "premium_abc"); err == nil {
		t.Fatalf("expected verification error")
	}
	if calls != 1 {
		t.Fatalf("verification must never be retried, got %d calls", calls)
	}
}

func TestSubscriptionClient_VerifySuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := "/subscriptions/verify/paystack/premium_171234"
		if r.URL.Path != want {
			t.Errorf("path = %q, want %q", r.URL.Path, want)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"tier":      "pro",
			"status":    "active",
			"autoRenew": true,
		})
	}))
	defer srv.Close()

	c := NewSubscriptionClient(srv.URL, "tok", time.Second)
	rec, err := c.VerifyPayment(context.Background(), model.GatewayPaystack, "premium_171234")
	if err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}
	if rec.Tier != model.TierPro || rec.Status != model.SubscriptionStatusActive {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestSubscriptionClient_InitializePayment(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/subscriptions/initialize/flutterwave" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["tier"] != "pro" {
			t.Errorf("body tier = %v", body["tier"])
		}
		if body["amount"] == nil || body["reference"] == nil {
			t.Errorf("missing amount/reference in %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"reference":        "FLW-1",
			"authorizationUrl": "https://checkout.example/1",
		})
	}))
	defer srv.Close()

	c := NewSubscriptionClient(srv.URL, "tok", time.Second)
	init, err := c.InitializePayment(context.Background(), model.GatewayFlutterwave, model.TierPro, 499900, "pro_ref")
	if err != nil {
		t.Fatalf("InitializePayment: %v", err)
	}
	if init.Reference != "FLW-1" || init.AuthorizationURL == "" {
		t.Fatalf("unexpected init %+v", init)
	}
}

func TestSubscriptionClient_Cancel(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/subscriptions/cancel" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewSubscriptionClient(srv.URL, "tok", time.Second)
	if err := c.CancelSubscription(context.Background()); err != nil {
		t.Fatalf("CancelSubscription: %v", err)
	}
}
