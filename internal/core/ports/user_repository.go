package ports

import (
	"context"

	"github.com/orderdesk/order-system/internal/core/domain"
)

// UserUpdate carries the mutable profile fields. Nil pointers leave the
// corresponding field untouched.
type UserUpdate struct {
	Name  *string
	Email *string
}

// UserRepository defines the credential-store persistence contract.
// Create must surface a duplicate email as domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, limit int) ([]domain.User, int64, error)
}
