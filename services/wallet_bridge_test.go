package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newBridgeServer(t *testing.T) (*httptest.Server, *HTTPWalletBridge) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var envelope struct {
			RequestID string `json:"request_id"`
			Getter    string `json:"getter"`
		}
		if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
			t.Errorf("bad envelope: %v", err)
		}
		if envelope.RequestID == "" {
			t.Error("envelope missing request_id")
		}
		switch envelope.Getter {
		case "network/currentPeerInfo":
			fmt.Fprint(w, `{"url":"http://dual-01.dhealth.cloud:3000","websocketUrl":"ws://dual-01.dhealth.cloud:3000/ws"}`)
		case "account/currentSignerAddress":
			fmt.Fprint(w, `{"address":"NCZMZ4DQGQKYFAAAAAAAAAAAAAAAAAAAAAAAAAA"}`)
		default:
			http.Error(w, "unknown getter", http.StatusBadRequest)
		}
	}))
	t.Cleanup(server.Close)
	return server, NewHTTPWalletBridge(server.URL)
}

func TestBridgeGetNetworkConnection(t *testing.T) {
	_, bridge := newBridgeServer(t)

	conn, err := bridge.GetNetworkConnection(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if conn.URL != "http://dual-01.dhealth.cloud:3000" {
		t.Fatalf("URL = %q", conn.URL)
	}
	if conn.WebsocketURL != "ws://dual-01.dhealth.cloud:3000/ws" {
		t.Fatalf("WebsocketURL = %q", conn.WebsocketURL)
	}
}

func TestBridgeGetActiveAddress(t *testing.T) {
	_, bridge := newBridgeServer(t)

	address, err := bridge.GetActiveAddress(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if address != "NCZMZ4DQGQKYFAAAAAAAAAAAAAAAAAAAAAAAAAA" {
		t.Fatalf("address = %q", address)
	}
}

func TestBridgeSurfacesConnectionErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse all connections

	bridge := NewHTTPWalletBridge(server.URL)
	if _, err := bridge.GetNetworkConnection(context.Background()); err == nil {
		t.Fatal("expected a connection error")
	} else if !strings.Contains(err.Error(), "host network store") {
		t.Fatalf("error not descriptive: %v", err)
	}

	if _, err := bridge.GetActiveAddress(context.Background()); err == nil {
		t.Fatal("expected a connection error")
	} else if !strings.Contains(err.Error(), "signer address") {
		t.Fatalf("error not descriptive: %v", err)
	}
}

func TestBridgeSurfacesStoreFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	bridge := NewHTTPWalletBridge(server.URL)
	_, err := bridge.GetNetworkConnection(context.Background())
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("expected a 503 error, got %v", err)
	}
}
