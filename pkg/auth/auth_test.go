package auth

import (
	"net/http"
	"strings"
	"testing"
)

func TestExtractBearer(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	req.Header.Set("Authorization", "Bearer test-token")

	token, err := ExtractBearer(req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token != "test-token" {
		t.Fatalf("unexpected token: %s", token)
	}
}

func TestExtractBearerErrors(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)

	if _, err := ExtractBearer(req); err != ErrMissingKey {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}

	req.Header.Set("Authorization", "Key abc")
	if _, err := ExtractBearer(req); err != ErrInvalidPrefix {
		t.Fatalf("expected ErrInvalidPrefix, got %v", err)
	}

	req.Header.Set("Authorization", "Bearer ")
	if _, err := ExtractBearer(req); err != ErrMissingKey {
		t.Fatalf("expected ErrMissingKey for empty token, got %v", err)
	}
}

func TestResolvePrecedence(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)

	if _, err := Resolve(req, ""); err != ErrMissingKey {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}

	key, err := Resolve(req, "env-key")
	if err != nil {
		t.Fatalf("expected env fallback, got %v", err)
	}
	if key != "env-key" {
		t.Fatalf("unexpected key: %s", key)
	}

	req.Header.Set("Authorization", "Bearer header-key")
	key, err = Resolve(req, "env-key")
	if err != nil {
		t.Fatalf("expected header key, got %v", err)
	}
	if key != "header-key" {
		t.Fatalf("header must override env, got %s", key)
	}

	req.Header.Set("Authorization", "Key header-key")
	if _, err := Resolve(req, "env-key"); err != ErrInvalidPrefix {
		t.Fatalf("malformed header must not fall back, got %v", err)
	}
}

func TestRedact(t *testing.T) {
	if got := Redact("sk-long-credential"); strings.Contains(got, "credential") {
		t.Fatalf("redacted key leaks content: %s", got)
	}
	if got := Redact("abc"); got != "***" {
		t.Fatalf("short keys must be fully masked, got %s", got)
	}
}
