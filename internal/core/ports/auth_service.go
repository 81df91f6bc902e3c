package ports

import (
	"context"

	"github.com/orderdesk/order-system/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)
	// Refresh rotates a still-valid refresh token into a brand-new pair.
	// The old refresh token stays cryptographically usable until its own
	// expiry; there is no server-side revocation.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}
