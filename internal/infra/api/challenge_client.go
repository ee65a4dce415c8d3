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

// Compile-time check
var _ adapter.ChallengeAPI = (*ChallengeClient)(nil)

// ChallengeClient talks to the remote challenge service over HTTP.
type ChallengeClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewChallengeClient(baseURL, token string, timeout time.Duration) *ChallengeClient {
	return &ChallengeClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *ChallengeClient) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
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

// PremiumBanners implements adapter.ChallengeAPI with backoff on the
// idempotent GET.
func (c *ChallengeClient) PremiumBanners(ctx context.Context) ([]model.PremiumChallenge, error) {
	var banners []model.PremiumChallenge
	op := func() error {
		req, err := c.newRequest(ctx, http.MethodGet, "/challenges/premium-banners", nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
			return backoff.Permanent(domain.ErrUnauthorized)
		case resp.StatusCode >= 500:
			return fmt.Errorf("premium banners: status %d", resp.StatusCode)
		case resp.StatusCode >= 300:
			return backoff.Permanent(fmt.Errorf("premium banners: status %d", resp.StatusCode))
		}

		if err := json.NewDecoder(resp.Body).Decode(&banners); err != nil {
			return backoff.Permanent(fmt.Errorf("premium banners: decode: %w", err))
		}
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), fetchRetries), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return nil, err
	}
	return banners, nil
}

// JoinChallenge implements adapter.ChallengeAPI. The response carries an
// explicit granted flag; nothing is inferred from the message text.
func (c *ChallengeClient) JoinChallenge(ctx context.Context, challengeID string) (adapter.JoinResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/challenges/%s/join", challengeID), nil)
	if err != nil {
		return adapter.JoinResult{}, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return adapter.JoinResult{}, fmt.Errorf("challenge join: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return adapter.JoinResult{}, domain.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return adapter.JoinResult{}, fmt.Errorf("challenge join: status %d: %s", resp.StatusCode, string(raw))
	}

	var result adapter.JoinResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return adapter.JoinResult{}, fmt.Errorf("challenge join: decode: %w", err)
	}
	return result, nil
}

// TrackSession implements adapter.ChallengeAPI. Best effort analytics ping;
// callers treat failures as non-fatal.
func (c *ChallengeClient) TrackSession(ctx context.Context, sessionID string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/challenges/session-track", map[string]string{"sessionId": sessionID})
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("session track: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("session track: status %d", resp.StatusCode)
	}
	return nil
}
