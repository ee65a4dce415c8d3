package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"wellness-entitlements/internal/domain"
	"wellness-entitlements/internal/domain/model"
	"wellness-entitlements/internal/domain/ports/adapter"
)

// fetchRetries bounds the exponential backoff on idempotent GETs.
const fetchRetries = 3

// Compile-time check
var _ adapter.SubscriptionAPI = (*SubscriptionClient)(nil)

// SubscriptionClient talks to the remote subscription service over HTTP.
type SubscriptionClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewSubscriptionClient(baseURL, token string, timeout time.Duration) *SubscriptionClient {
	return &SubscriptionClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *SubscriptionClient) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// subscriptionPayload mirrors the wire shape of the subscription resource.
type subscriptionPayload struct {
	Tier             string     `json:"tier"`
	Status           string     `json:"status"`
	StartedAt        *time.Time `json:"startedAt"`
	CurrentPeriodEnd *time.Time `json:"currentPeriodEnd"`
	AutoRenew        bool       `json:"autoRenew"`
}

func (p subscriptionPayload) toRecord() model.SubscriptionRecord {
	return model.SubscriptionRecord{
		Tier:             model.Tier(p.Tier),
		Status:           model.SubscriptionStatus(p.Status),
		StartedAt:        p.StartedAt,
		CurrentPeriodEnd: p.CurrentPeriodEnd,
		AutoRenew:        p.AutoRenew,
	}.Normalize()
}

// FetchSubscription implements adapter.SubscriptionAPI. The GET is idempotent,
// so transient failures are retried with exponential backoff.
func (c *SubscriptionClient) FetchSubscription(ctx context.Context) (model.SubscriptionRecord, error) {
	var rec model.SubscriptionRecord
	op := func() error {
		req, err := c.newRequest(ctx, http.MethodGet, "/subscriptions/me", nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(domain.ErrNotFound)
		case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
			return backoff.Permanent(domain.ErrUnauthorized)
		case resp.StatusCode >= 500:
			return fmt.Errorf("subscription fetch: status %d", resp.StatusCode)
		case resp.StatusCode >= 300:
			return backoff.Permanent(fmt.Errorf("subscription fetch: status %d", resp.StatusCode))
		}

		var payload subscriptionPayload
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return backoff.Permanent(fmt.Errorf("subscription fetch: decode: %w", err))
		}
		rec = payload.toRecord()
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), fetchRetries), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return model.SubscriptionRecord{}, err
	}
	return rec, nil
}

// InitializePayment implements adapter.SubscriptionAPI. Not retried: the
// server creates gateway state on each call.
func (c *SubscriptionClient) InitializePayment(ctx context.Context, gateway model.PaymentGatewayID, tier model.Tier, amount int64, reference string) (adapter.PaymentInit, error) {
	body := map[string]any{
		"tier":      tier,
		"amount":    amount,
		"reference": reference,
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/subscriptions/initialize/"+string(gateway), body)
	if err != nil {
		return adapter.PaymentInit{}, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return adapter.PaymentInit{}, fmt.Errorf("payment initialize: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return adapter.PaymentInit{}, fmt.Errorf("payment initialize: status %d: %s", resp.StatusCode, string(raw))
	}

	var payload struct {
		Reference        string `json:"reference"`
		AccessCode       string `json:"accessCode"`
		AuthorizationURL string `json:"authorizationUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return adapter.PaymentInit{}, fmt.Errorf("payment initialize: decode: %w", err)
	}
	return adapter.PaymentInit{
		Reference:        payload.Reference,
		AccessCode:       payload.AccessCode,
		AuthorizationURL: payload.AuthorizationURL,
	}, nil
}

// VerifyPayment implements adapter.SubscriptionAPI. Deliberately not retried
// here: blind retries risk double charging, and the coordinator treats any
// failure as terminal.
func (c *SubscriptionClient) VerifyPayment(ctx context.Context, gateway model.PaymentGatewayID, reference string) (model.SubscriptionRecord, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/subscriptions/verify/%s/%s", gateway, reference), nil)
	if err != nil {
		return model.SubscriptionRecord{}, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return model.SubscriptionRecord{}, fmt.Errorf("payment verify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return model.SubscriptionRecord{}, fmt.Errorf("payment verify: status %d: %s", resp.StatusCode, string(raw))
	}

	var payload subscriptionPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return model.SubscriptionRecord{}, fmt.Errorf("payment verify: decode: %w", err)
	}
	return payload.toRecord(), nil
}

// CancelSubscription implements adapter.SubscriptionAPI.
func (c *SubscriptionClient) CancelSubscription(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodPut, "/subscriptions/cancel", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("subscription cancel: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("subscription cancel: status %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}
