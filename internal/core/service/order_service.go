package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/orderdesk/order-system/internal/core/domain"
	"github.com/orderdesk/order-system/internal/core/ports"
)

// OrderService owns the order lifecycle: creation (with its chat room),
// ownership-scoped reads, content updates and the status state machine.
type OrderService struct {
	repo   ports.OrderRepository
	logger zerolog.Logger
}

func NewOrderService(repo ports.OrderRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, logger: logger}
}

// Create inserts a new order in REVIEW owned by the actor and opens its chat
// room in the same transaction.
func (s *OrderService) Create(ctx context.Context, actor *domain.Principal, in ports.CreateOrderInput) (*domain.Order, *domain.ChatRoom, error) {
	now := time.Now().UTC()
	order := &domain.Order{
		Description:    in.Description,
		Specifications: in.Specifications,
		Quantity:       in.Quantity,
		Metadata:       in.Metadata,
		Status:         domain.StatusReview,
		UserID:         actor.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, room, err := s.repo.CreateWithRoom(ctx, order)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", actor.ID).Msg("order creation failed")
		return nil, nil, err
	}

	s.logger.Info().Str("order_id", created.ID).Str("room_id", room.ID).Msg("order created")
	return created, room, nil
}

// List returns the actor's orders; admins see everything.
func (s *OrderService) List(ctx context.Context, actor *domain.Principal, page, limit int) ([]domain.Order, int64, error) {
	in := ports.ListOrdersInput{Page: page, Limit: limit}
	if !actor.IsAdmin() {
		in.OwnerID = actor.ID
	}
	return s.repo.List(ctx, in)
}

// Get returns a single order; regular users may only read their own.
func (s *OrderService) Get(ctx context.Context, actor *domain.Principal, id string) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && order.UserID != actor.ID {
		return nil, domain.ErrOwnershipViolation
	}
	return order, nil
}

// Update changes order content fields. Owners may edit only while the order
// is still in REVIEW; once advanced, edits require the admin role.
func (s *OrderService) Update(ctx context.Context, actor *domain.Principal, id string, update ports.OrderUpdate) (*domain.Order, error) {
	order, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && order.Status != domain.StatusReview {
		return nil, domain.ErrOwnershipViolation
	}

	return s.repo.Update(ctx, id, update)
}

// UpdateStatus advances an order along REVIEW → PROCESSING → COMPLETED.
// Admin-only; every other edge is rejected.
func (s *OrderService) UpdateStatus(ctx context.Context, actor *domain.Principal, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrInsufficientRole
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		s.logger.Warn().
			Str("order_id", id).
			Str("from", string(order.Status)).
			Str("to", string(status)).
			Msg("illegal status transition attempted")
		return nil, fmt.Errorf("%w from %s to %s", domain.ErrInvalidTransition, order.Status, status)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("order_id", id).Str("status", string(status)).Msg("order status updated")
	return updated, nil
}
