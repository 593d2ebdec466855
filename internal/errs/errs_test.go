package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *HTTPError
		wantStatus int
		wantCode   string
	}{
		{"unauthorized", NewUnauthorizedError("no", false), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", NewForbiddenError("no", false), http.StatusForbidden, "FORBIDDEN"},
		{"bad request", NewBadRequestError("bad", false, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"not found", NewNotFoundError("Constituency data not found", false, nil), http.StatusNotFound, "NOT_FOUND"},
		{"too many", NewTooManyRequestsError("slow down"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"bad gateway", NewBadGatewayError("model down", false), http.StatusBadGateway, "BAD_GATEWAY"},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", tt.err.Status, tt.wantStatus)
			}
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
			}
		})
	}
}

func TestCustomCode(t *testing.T) {
	code := "CONSTITUENCY_NOT_FOUND"
	err := NewNotFoundError("missing", true, &code)
	if err.Code != code {
		t.Fatalf("Code = %q, want %q", err.Code, code)
	}
}

func TestWrappedHTTPErrorIsDetectable(t *testing.T) {
	wrapped := fmt.Errorf("dashboard: %w", NewNotFoundError("Constituency data not found", false, nil))

	var httpErr *HTTPError
	if !errors.As(wrapped, &httpErr) {
		t.Fatal("errors.As did not find *HTTPError")
	}
	if httpErr.Message != "Constituency data not found" {
		t.Errorf("Message = %q", httpErr.Message)
	}
	if !errors.Is(wrapped, &HTTPError{}) {
		t.Error("errors.Is(wrapped, &HTTPError{}) = false")
	}
}

func TestWithMessageCopies(t *testing.T) {
	base := NewBadGatewayError("AI budget generation failed", true)
	changed := base.WithMessage("other")

	if base.Message != "AI budget generation failed" {
		t.Fatal("WithMessage mutated the receiver")
	}
	if changed.Status != base.Status || changed.Message != "other" {
		t.Fatalf("changed = %+v", changed)
	}
}
