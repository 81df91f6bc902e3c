package ports

import (
	"context"

	"github.com/orderdesk/order-system/internal/core/domain"
)

// CreateOrderInput carries the content of a new order. Orders always start
// in REVIEW and open their chat room in the same commit.
type CreateOrderInput struct {
	Description    string
	Specifications map[string]any
	Quantity       int
	Metadata       map[string]any
}

// OrderService defines use-case operations for orders. Every operation takes
// the acting principal; resource-level checks (ownership, role, state
// machine) happen here, after the guard has authenticated the caller.
type OrderService interface {
	Create(ctx context.Context, actor *domain.Principal, in CreateOrderInput) (*domain.Order, *domain.ChatRoom, error)
	List(ctx context.Context, actor *domain.Principal, page, limit int) ([]domain.Order, int64, error)
	Get(ctx context.Context, actor *domain.Principal, id string) (*domain.Order, error)
	Update(ctx context.Context, actor *domain.Principal, id string, update OrderUpdate) (*domain.Order, error)
	UpdateStatus(ctx context.Context, actor *domain.Principal, id string, status domain.OrderStatus) (*domain.Order, error)
}
