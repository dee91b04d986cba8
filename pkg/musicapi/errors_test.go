package musicapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindAuth, http.StatusUnauthorized},
		{KindCredit, http.StatusPaymentRequired},
		{KindNotFound, http.StatusNotFound},
		{KindRateLimit, http.StatusTooManyRequests},
		{KindTimeout, http.StatusGatewayTimeout},
		{KindUpstream, http.StatusBadGateway},
		{KindTransport, http.StatusBadGateway},
		{KindGeneration, http.StatusBadGateway},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := NewError(tc.kind, "x").HTTPStatus(); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.kind, tc.want, got)
		}
	}
}

func TestFatal(t *testing.T) {
	fatal := []Kind{KindAuth, KindCredit, KindValidation, KindGeneration, KindNotFound}
	for _, k := range fatal {
		if !Fatal(NewError(k, "x")) {
			t.Fatalf("%s should be fatal", k)
		}
	}
	transient := []Kind{KindRateLimit, KindTimeout, KindUpstream, KindTransport, KindInternal}
	for _, k := range transient {
		if Fatal(NewError(k, "x")) {
			t.Fatalf("%s should not be fatal", k)
		}
	}
}

func TestAsErrorWrapsUnknown(t *testing.T) {
	plain := errors.New("boom")
	typed := AsError(plain)
	if typed.Kind != KindInternal {
		t.Fatalf("expected InternalError, got %s", typed.Kind)
	}
	if !errors.Is(typed, plain) {
		t.Fatal("cause not preserved")
	}
}

func TestAsErrorPassesThroughWrapped(t *testing.T) {
	inner := NewError(KindRateLimit, "slow down")
	wrapped := fmt.Errorf("fetch task: %w", inner)
	if got := AsError(wrapped); got != inner {
		t.Fatalf("expected the original typed error, got %v", got)
	}
	if !IsKind(wrapped, KindRateLimit) {
		t.Fatal("IsKind should see through wrapping")
	}
}

func TestErrorStringIncludesCode(t *testing.T) {
	e := NewError(KindUpstream, "bad gateway")
	e.Code = 503
	if got := e.Error(); got != "UpstreamError: bad gateway (upstream code 503)" {
		t.Fatalf("unexpected string: %q", got)
	}
}
