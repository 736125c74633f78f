// services/wallet_bridge.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// NetworkConnection describes the node the wallet host is currently
// connected to.
type NetworkConnection struct {
	URL          string `json:"url"`
	WebsocketURL string `json:"websocketUrl"`
}

// WalletBridge is the collaborator interface onto the wallet-side host
// application: it resolves the active network connection and the current
// signer address. Implementations must surface connection failures as
// descriptive errors, never swallow them.
type WalletBridge interface {
	GetNetworkConnection(ctx context.Context) (*NetworkConnection, error)
	GetActiveAddress(ctx context.Context) (string, error)
}

// HTTPWalletBridge reaches the host application store over HTTP. Each call
// posts a small getter envelope and decodes the store's reply.
type HTTPWalletBridge struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHTTPWalletBridge(baseURL string) *HTTPWalletBridge {
	return &HTTPWalletBridge{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

const (
	getterPeerInfo      = "network/currentPeerInfo"
	getterSignerAddress = "account/currentSignerAddress"
)

func (b *HTTPWalletBridge) GetNetworkConnection(ctx context.Context) (*NetworkConnection, error) {
	var conn NetworkConnection
	if err := b.call(ctx, getterPeerInfo, &conn); err != nil {
		return nil, fmt.Errorf("could not establish connection to the host network store: %w", err)
	}
	return &conn, nil
}

func (b *HTTPWalletBridge) GetActiveAddress(ctx context.Context) (string, error) {
	var out struct {
		Address string `json:"address"`
	}
	if err := b.call(ctx, getterSignerAddress, &out); err != nil {
		return "", fmt.Errorf("could not resolve current signer address from the host store: %w", err)
	}
	return out.Address, nil
}

func (b *HTTPWalletBridge) call(ctx context.Context, getter string, out interface{}) error {
	envelope := map[string]string{
		"request_id": uuid.NewString(),
		"getter":     getter,
	}
	payload, _ := json.Marshal(envelope)

	req, err := http.NewRequestWithContext(ctx, "POST", b.BaseURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create store request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("host store request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("host store returned %d for getter %q: %s", resp.StatusCode, getter, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode host store response for getter %q: %w", getter, err)
	}
	return nil
}
