package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		want   int
		wantOK bool
	}{
		{"invalid argument", Invalid("symbol is required"), http.StatusBadRequest, true},
		{"wrapped no data", fmt.Errorf("price: %w", ErrNoData), http.StatusNotFound, true},
		{"upstream error type", &UpstreamError{Vendor: "kis", Status: 500, Message: "boom"}, http.StatusBadGateway, true},
		{"unknown", errors.New("boom"), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := HTTPStatus(tt.err)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("HTTPStatus() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestUpstreamError_Error(t *testing.T) {
	t.Parallel()

	withStatus := &UpstreamError{Vendor: "finnhub", Status: 429, Message: "rate limited"}
	if got := withStatus.Error(); got != "finnhub: http 429: rate limited" {
		t.Errorf("unexpected message %q", got)
	}
	transport := &UpstreamError{Vendor: "kis", Message: "connection reset"}
	if got := transport.Error(); got != "kis: connection reset" {
		t.Errorf("unexpected message %q", got)
	}
	if !errors.Is(fmt.Errorf("wrap: %w", transport), ErrUpstream) {
		t.Error("expected wrapped UpstreamError to match ErrUpstream")
	}
}

func TestInvalid(t *testing.T) {
	t.Parallel()

	err := Invalid("period must be positive, got %d", -1)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatal("expected ErrInvalidArgument")
	}
	if err.Error() != "invalid argument: period must be positive, got -1" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
