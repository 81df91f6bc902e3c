package ports

import (
	"context"

	"github.com/orderdesk/order-system/internal/core/domain"
)

type UserService interface {
	List(ctx context.Context, page, limit int) ([]domain.User, int64, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
