package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lettersync/cli/internal/errors"
	"github.com/lettersync/cli/internal/interfaces"
)

func TestConnectRemote(t *testing.T) {
	t.Run("connects when gateway is healthy", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/actuator/health" {
				t.Errorf("Unexpected path %s", r.URL.Path)
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		manager, err := NewManager(interfaces.GatewayConfig{
			Mode: interfaces.ModeRemote,
			URL:  server.URL + "/",
		})
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}
		defer manager.Close()

		if err := manager.Connect(context.Background()); err != nil {
			t.Fatalf("Connect failed: %v", err)
		}
		if manager.BaseURL() != server.URL {
			t.Errorf("Expected base URL %q, got %q", server.URL, manager.BaseURL())
		}
	})

	t.Run("unreachable gateway is a session error", func(t *testing.T) {
		manager, err := NewManager(interfaces.GatewayConfig{
			Mode: interfaces.ModeRemote,
			URL:  "http://127.0.0.1:1",
		})
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}
		defer manager.Close()

		err = manager.Connect(context.Background())
		if !errors.IsSession(err) {
			t.Errorf("Expected session error, got %v", err)
		}
		if manager.BaseURL() != "" {
			t.Error("BaseURL must stay empty after a failed connect")
		}
	})

	t.Run("unhealthy gateway is a session error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		manager, err := NewManager(interfaces.GatewayConfig{
			Mode: interfaces.ModeRemote,
			URL:  server.URL,
		})
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}
		defer manager.Close()

		if err := manager.Connect(context.Background()); !errors.IsSession(err) {
			t.Errorf("Expected session error, got %v", err)
		}
	})
}

func TestStatusRemote(t *testing.T) {
	t.Run("healthy gateway", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		manager, err := NewManager(interfaces.GatewayConfig{
			Mode: interfaces.ModeRemote,
			URL:  server.URL,
		})
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}
		defer manager.Close()

		status, err := manager.Status(context.Background())
		if err != nil {
			t.Fatalf("Status failed: %v", err)
		}
		if !status.Running || !status.Healthy {
			t.Errorf("Expected running and healthy, got %+v", status)
		}
	})

	t.Run("unreachable gateway", func(t *testing.T) {
		manager, err := NewManager(interfaces.GatewayConfig{
			Mode: interfaces.ModeRemote,
			URL:  "http://127.0.0.1:1",
		})
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}
		defer manager.Close()

		status, err := manager.Status(context.Background())
		if err != nil {
			t.Fatalf("Status failed: %v", err)
		}
		if status.Running || status.Healthy {
			t.Errorf("Expected stopped status, got %+v", status)
		}
	})
}

func TestRestartRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	manager, err := NewManager(interfaces.GatewayConfig{
		Mode: interfaces.ModeRemote,
		URL:  server.URL,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer manager.Close()

	if err := manager.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := manager.Restart(context.Background()); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if manager.BaseURL() != server.URL {
		t.Errorf("Expected base URL after restart, got %q", manager.BaseURL())
	}
}
