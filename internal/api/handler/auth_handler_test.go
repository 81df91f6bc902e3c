package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/orderdesk/order-system/internal/api"
	"github.com/orderdesk/order-system/internal/api/handler"
	"github.com/orderdesk/order-system/internal/core/domain"
	"github.com/orderdesk/order-system/internal/core/ports"
)

type stubAuthService struct {
	user        *domain.User
	pair        *ports.TokenPair
	refreshed   *ports.TokenPair
	err         error
	gotPassword string
	gotRefresh  string
}

func (s *stubAuthService) Register(_ context.Context, name, email, password string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.gotPassword = password
	return s.user, nil
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (*domain.User, *ports.TokenPair, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	s.gotPassword = password
	return s.user, s.pair, nil
}

func (s *stubAuthService) Refresh(_ context.Context, refreshToken string) (*ports.TokenPair, error) {
	s.gotRefresh = refreshToken
	if s.err != nil {
		return nil, s.err
	}
	return s.refreshed, nil
}

func newAuthTestServer(svc ports.AuthService) *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop())

	h := handler.NewAuthHandler(svc, 7*24*time.Hour, false)
	e.POST("/auth/register", h.Register)
	e.POST("/auth/login", h.Login)
	e.POST("/auth/refresh", h.Refresh)
	e.POST("/auth/logout", h.Logout)
	return e
}

func refreshCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "refreshToken" {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &stubAuthService{user: &domain.User{ID: "user_1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleRegular}}
	e := newAuthTestServer(svc)

	body := `{"name":"Alice","email":"alice@example.com","password":"s3cretpass"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, r)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if svc.gotPassword != "s3cretpass" {
		t.Fatalf("service received password %q", svc.gotPassword)
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	e := newAuthTestServer(&stubAuthService{})

	// Password below the minimum length.
	body := `{"name":"Alice","email":"alice@example.com","password":"short"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	e := newAuthTestServer(&stubAuthService{err: domain.ErrUserExists})

	body := `{"name":"Alice","email":"alice@example.com","password":"s3cretpass"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, r)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status %d, want 409", rec.Code)
	}
}

func TestAuthHandler_Login_SetsRefreshCookie(t *testing.T) {
	svc := &stubAuthService{
		user: &domain.User{ID: "user_1", Email: "alice@example.com", Role: domain.RoleRegular},
		pair: &ports.TokenPair{AccessToken: "access-jwt", RefreshToken: "refresh-jwt"},
	}
	e := newAuthTestServer(svc)

	body := `{"email":"alice@example.com","password":"s3cretpass"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.AccessToken != "access-jwt" {
		t.Fatalf("access token %q in body, want access-jwt", resp.AccessToken)
	}
	if strings.Contains(rec.Body.String(), "refresh-jwt") {
		t.Fatalf("refresh token leaked into the response body")
	}

	cookie := refreshCookie(rec)
	if cookie == nil {
		t.Fatalf("refresh cookie not set")
	}
	if cookie.Value != "refresh-jwt" {
		t.Fatalf("cookie value %q", cookie.Value)
	}
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteStrictMode {
		t.Fatalf("cookie must be http-only and SameSite=Strict: %+v", cookie)
	}
	if cookie.MaxAge != int((7 * 24 * time.Hour).Seconds()) {
		t.Fatalf("cookie max-age %d not aligned with refresh TTL", cookie.MaxAge)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	e := newAuthTestServer(&stubAuthService{err: domain.ErrInvalidCredentials})

	body := `{"email":"alice@example.com","password":"wrong"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
	if refreshCookie(rec) != nil {
		t.Fatalf("no cookie should be set on failed login")
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	svc := &stubAuthService{
		refreshed: &ports.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"},
	}
	e := newAuthTestServer(svc)

	r := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	r.AddCookie(&http.Cookie{Name: "refreshToken", Value: "old-refresh"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if svc.gotRefresh != "old-refresh" {
		t.Fatalf("service received refresh token %q", svc.gotRefresh)
	}

	cookie := refreshCookie(rec)
	if cookie == nil || cookie.Value != "new-refresh" {
		t.Fatalf("rotated refresh cookie not set: %+v", cookie)
	}
}

func TestAuthHandler_Refresh_NoCookie(t *testing.T) {
	svc := &stubAuthService{err: domain.ErrMissingCredential}
	e := newAuthTestServer(svc)

	r := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
	if svc.gotRefresh != "" {
		t.Fatalf("service received token %q, want empty", svc.gotRefresh)
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	e := newAuthTestServer(&stubAuthService{})

	r := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	cookie := refreshCookie(rec)
	if cookie == nil || cookie.Value != "" || cookie.MaxAge != -1 {
		t.Fatalf("logout must clear the refresh cookie: %+v", cookie)
	}
}
