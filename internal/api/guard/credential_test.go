package guard

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orderdesk/order-system/internal/core/domain"
)

func TestTokenFromHeader(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		token   string
		wantErr error
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"case insensitive scheme", "bearer abc", "abc", nil},
		{"empty", "", "", domain.ErrMissingCredential},
		{"no scheme", "abc.def.ghi", "", domain.ErrInvalidToken},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", domain.ErrInvalidToken},
		{"empty token", "Bearer ", "", domain.ErrInvalidToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := TokenFromHeader(tc.header)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("got err %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token != tc.token {
				t.Fatalf("got token %q, want %q", token, tc.token)
			}
		})
	}
}

func TestTokenFromHandshake(t *testing.T) {
	// Query field wins when both are present.
	r := httptest.NewRequest(http.MethodGet, "/ws/chat?token=from-query", nil)
	r.Header.Set("Authorization", "Bearer from-header")
	token, err := TokenFromHandshake(r)
	if err != nil || token != "from-query" {
		t.Fatalf("got %q/%v, want from-query", token, err)
	}

	// Falls back to the Authorization header.
	r = httptest.NewRequest(http.MethodGet, "/ws/chat", nil)
	r.Header.Set("Authorization", "Bearer from-header")
	token, err = TokenFromHandshake(r)
	if err != nil || token != "from-header" {
		t.Fatalf("got %q/%v, want from-header", token, err)
	}

	// Neither present.
	r = httptest.NewRequest(http.MethodGet, "/ws/chat", nil)
	if _, err := TokenFromHandshake(r); !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}

	// A malformed header still fails even on the socket path.
	r = httptest.NewRequest(http.MethodGet, "/ws/chat", nil)
	r.Header.Set("Authorization", "from-header")
	if _, err := TokenFromHandshake(r); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
