package guard

import (
	"net/http"
	"strings"

	"github.com/orderdesk/order-system/internal/core/domain"
)

// Credential extraction for both transports. HTTP requests carry the access
// token in the Authorization header; socket clients may instead pass it as
// the handshake's token query field.

// TokenFromHeader parses a "Bearer <token>" Authorization value.
func TokenFromHeader(authorization string) (string, error) {
	if authorization == "" {
		return "", domain.ErrMissingCredential
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", domain.ErrInvalidToken
	}
	return parts[1], nil
}

// TokenFromRequest extracts the access token from an HTTP request.
func TokenFromRequest(r *http.Request) (string, error) {
	return TokenFromHeader(r.Header.Get("Authorization"))
}

// TokenFromHandshake extracts the access token from a socket upgrade
// request: the token query field first, then the Authorization bearer
// header. Extraction happens once per connection, never per message.
func TokenFromHandshake(r *http.Request) (string, error) {
	if token := r.URL.Query().Get("token"); token != "" {
		return token, nil
	}
	if r.Header.Get("Authorization") != "" {
		return TokenFromHeader(r.Header.Get("Authorization"))
	}
	return "", domain.ErrMissingCredential
}
