package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/orderdesk/order-system/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, ErrorResponse) {
	t.Helper()
	e := echo.New()
	r := httptest.NewRequest(http.MethodGet, "/orders/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(r, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	return rec.Code, body
}

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrMissingCredential, http.StatusUnauthorized},
		{domain.ErrInvalidToken, http.StatusUnauthorized},
		{domain.ErrExpiredToken, http.StatusUnauthorized},
		{domain.ErrStaleIdentity, http.StatusUnauthorized},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrInsufficientRole, http.StatusForbidden},
		{domain.ErrOwnershipViolation, http.StatusForbidden},
		{domain.ErrInvalidTransition, http.StatusForbidden},
		{domain.ErrRoomClosed, http.StatusBadRequest},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrOrderNotFound, http.StatusNotFound},
		{domain.ErrRoomNotFound, http.StatusNotFound},
		{domain.ErrUserExists, http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			code, body := renderError(t, tc.err)
			if code != tc.code {
				t.Fatalf("status %d, want %d", code, tc.code)
			}
			if body.StatusCode != tc.code || body.Message != tc.err.Error() {
				t.Fatalf("unexpected envelope: %+v", body)
			}
			if body.Error != http.StatusText(tc.code) {
				t.Fatalf("category %q, want %q", body.Error, http.StatusText(tc.code))
			}
			if body.Path != "/orders/abc" || body.Timestamp == "" {
				t.Fatalf("envelope missing path or timestamp: %+v", body)
			}
		})
	}
}

func TestErrorHandler_EchoHTTPErrorPassthrough(t *testing.T) {
	code, body := renderError(t, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))
	if code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", code)
	}
	if body.Message != "invalid payload" {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestErrorHandler_UnexpectedErrorIsOpaque(t *testing.T) {
	code, body := renderError(t, errFromDriver())
	if code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", code)
	}
	if body.Message != "internal server error" {
		t.Fatalf("internal detail leaked: %q", body.Message)
	}
}

func errFromDriver() error {
	return &driverError{}
}

type driverError struct{}

func (*driverError) Error() string { return "connection reset by peer at 10.0.0.7:27017" }
