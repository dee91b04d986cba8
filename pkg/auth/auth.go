// Package auth resolves the upstream credential for one request.
package auth

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrMissingKey indicates that no credential was provided anywhere.
	ErrMissingKey = errors.New("missing API key")
	// ErrInvalidPrefix indicates the header did not use the Bearer scheme.
	ErrInvalidPrefix = errors.New("invalid authorization prefix")
)

// ExtractBearer parses the Authorization header of an incoming request.
func ExtractBearer(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingKey
	}

	if !strings.HasPrefix(header, "Bearer ") {
		return "", ErrInvalidPrefix
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", ErrMissingKey
	}

	return token, nil
}

// Resolve returns the credential for one request: an explicit Bearer header
// overrides the process-level key. A malformed header is an error even when
// a fallback exists, so clients learn about the bad header immediately.
func Resolve(r *http.Request, processKey string) (string, error) {
	token, err := ExtractBearer(r)
	if err == nil {
		return token, nil
	}
	if errors.Is(err, ErrInvalidPrefix) {
		return "", err
	}
	if processKey != "" {
		return processKey, nil
	}
	return "", ErrMissingKey
}

// Redact masks a credential for log output, keeping only a short prefix.
func Redact(key string) string {
	if len(key) <= 6 {
		return "***"
	}
	return key[:4] + "…***"
}
