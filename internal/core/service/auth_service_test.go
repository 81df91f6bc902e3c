package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/orderdesk/order-system/internal/core/domain"
	"github.com/orderdesk/order-system/internal/core/ports"
)

// stubUserRepo is an in-memory credential store shared by the auth and
// identity-resolver tests.
type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	r.nextID++
	copy.ID = fmt.Sprintf("user_%d", r.nextID)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, id string, update ports.UserUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) List(_ context.Context, _, _ int) ([]domain.User, int64, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func newAuthFixture() (*AuthService, *stubUserRepo, *TokenService) {
	repo := newStubUserRepo()
	tokens := NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	return NewAuthService(repo, tokens, zerolog.Nop()), repo, tokens
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, _, _ := newAuthFixture()

	user, err := svc.Register(context.Background(), "Alice", "alice@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if user.Role != domain.RoleRegular {
		t.Fatalf("new accounts must be REGULAR, got %s", user.Role)
	}
	if !strings.HasPrefix(user.PasswordHash, "$argon2id$") {
		t.Fatalf("password not stored as argon2id digest: %q", user.PasswordHash)
	}
	if user.PasswordHash == "s3cretpass" {
		t.Fatalf("password stored in the clear")
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()

	if _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "s3cretpass"); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "Mallory", "alice@example.com", "otherpass"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _, tokens := newAuthFixture()

	registered, err := svc.Register(context.Background(), "Alice", "alice@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	user, pair, err := svc.Login(context.Background(), "alice@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims, err := tokens.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("issued access token does not verify: %v", err)
	}
	if claims.UserID != registered.ID {
		t.Fatalf("token subject %q, want %q", claims.UserID, registered.ID)
	}
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture()

	if _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "s3cretpass"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	// Wrong password and unknown email must be indistinguishable.
	if _, _, err := svc.Login(context.Background(), "alice@example.com", "wrongpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "s3cretpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Refresh_Rotation(t *testing.T) {
	svc, _, tokens := newAuthFixture()

	registered, err := svc.Register(context.Background(), "Alice", "alice@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	_, pair, err := svc.Login(context.Background(), "alice@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	rotated, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	claims, err := tokens.VerifyAccess(rotated.AccessToken)
	if err != nil {
		t.Fatalf("rotated access token does not verify: %v", err)
	}
	if claims.UserID != registered.ID {
		t.Fatalf("rotated token subject %q, want %q", claims.UserID, registered.ID)
	}
	if _, err := tokens.VerifyRefresh(rotated.RefreshToken); err != nil {
		t.Fatalf("rotated refresh token does not verify: %v", err)
	}
}

func TestAuthService_Refresh_Failures(t *testing.T) {
	svc, repo, tokens := newAuthFixture()

	if _, err := svc.Refresh(context.Background(), ""); !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("empty token: expected ErrMissingCredential, got %v", err)
	}
	if _, err := svc.Refresh(context.Background(), "garbage"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("garbage token: expected ErrInvalidToken, got %v", err)
	}

	registered, err := svc.Register(context.Background(), "Alice", "alice@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	_, pair, err := svc.Login(context.Background(), "alice@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	// An access token must not pass refresh verification.
	if _, err := svc.Refresh(context.Background(), pair.AccessToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("access token as refresh: expected ErrInvalidToken, got %v", err)
	}

	// A deleted account cannot keep minting tokens, even while the refresh
	// token itself still verifies.
	if err := repo.Delete(context.Background(), registered.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := tokens.VerifyRefresh(pair.RefreshToken); err != nil {
		t.Fatalf("refresh token should still verify cryptographically: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrStaleIdentity) {
		t.Fatalf("deleted subject: expected ErrStaleIdentity, got %v", err)
	}
}
