package ports

import (
	"time"

	"github.com/orderdesk/order-system/internal/core/domain"
)

// Claims is the verified payload of a token: who the subject is and until
// when the token holds.
type Claims struct {
	UserID    string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair is the result of issuing or rotating credentials. The access
// token travels in the Authorization header, the refresh token in an
// http-only cookie.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService signs and verifies access and refresh tokens. Access and
// refresh tokens use distinct secrets, so one never verifies as the other.
// Implementations are stateless; nothing is persisted or revoked.
type TokenService interface {
	Issue(user *domain.User) (*TokenPair, error)
	VerifyAccess(token string) (*Claims, error)
	VerifyRefresh(token string) (*Claims, error)
}
