package ports

import (
	"context"

	"github.com/orderdesk/order-system/internal/core/domain"
)

// OrderUpdate carries the content fields a caller may change. Status is not
// part of it; status moves only through UpdateStatus.
type OrderUpdate struct {
	Description    *string
	Specifications map[string]any
	Quantity       *int
	Metadata       map[string]any
}

// ListOrdersInput filters and pages the order listing. An empty OwnerID
// means no owner filter (admin view).
type ListOrdersInput struct {
	OwnerID string
	Page    int
	Limit   int
}

// OrderRepository persists orders and their 1:1 chat rooms.
type OrderRepository interface {
	// CreateWithRoom inserts the order and opens its chat room in a single
	// transaction. Both documents commit together or neither does.
	CreateWithRoom(ctx context.Context, order *domain.Order) (*domain.Order, *domain.ChatRoom, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, in ListOrdersInput) ([]domain.Order, int64, error)
	Update(ctx context.Context, id string, update OrderUpdate) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}
