// services/provider_client.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ProviderClient talks to the fitness provider's OAuth and REST endpoints:
// authorization-code exchange and webhook subscription registration.
type ProviderClient struct {
	OAuthURL     string // e.g. https://www.strava.com/oauth
	APIURL       string // e.g. https://www.strava.com/api/v3
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
}

// TokenResponse is the provider's answer to a successful code exchange.
type TokenResponse struct {
	TokenType    string `json:"token_type"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	Athlete      struct {
		ID int64 `json:"id"`
	} `json:"athlete"`
}

func NewProviderClient(oauthURL, apiURL, clientID, clientSecret string) *ProviderClient {
	return &ProviderClient{
		OAuthURL:     strings.TrimSuffix(oauthURL, "/"),
		APIURL:       strings.TrimSuffix(apiURL, "/"),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// AuthorizeURL builds the OAuth redirect target for one address. The
// validated address rides along as opaque state so it survives the round
// trip through the provider.
func (c *ProviderClient) AuthorizeURL(address string) string {
	q := url.Values{}
	q.Set("client_id", c.ClientID)
	q.Set("response_type", "code")
	q.Set("approval_prompt", "auto")
	q.Set("scope", "activity:read")
	q.Set("state", address)
	return fmt.Sprintf("%s/authorize?%s", c.OAuthURL, q.Encode())
}

// ExchangeCode swaps an authorization code for tokens at the provider's
// token endpoint.
func (c *ProviderClient) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("client_id", c.ClientID)
	form.Set("client_secret", c.ClientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, "POST", c.OAuthURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token exchange request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode != http.StatusOK {
		log.Printf("Provider token endpoint returned %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("provider rejected code exchange: %d", resp.StatusCode)
	}

	var out TokenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if out.Athlete.ID == 0 {
		return nil, fmt.Errorf("token response carried no athlete id")
	}

	return &out, nil
}

// CreateSubscription registers our webhook callback with the provider and
// returns the provider's subscription payload as-is so the caller can relay
// it.
func (c *ProviderClient) CreateSubscription(ctx context.Context, callbackURL, verifyToken string) (map[string]interface{}, error) {
	form := url.Values{}
	form.Set("client_id", c.ClientID)
	form.Set("client_secret", c.ClientSecret)
	form.Set("callback_url", callbackURL)
	form.Set("verify_token", verifyToken)

	req, err := http.NewRequestWithContext(ctx, "POST", c.APIURL+"/push_subscriptions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("subscription request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("Provider subscription endpoint returned %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("provider rejected subscription: %d", resp.StatusCode)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode subscription response: %w", err)
	}

	return payload, nil
}
