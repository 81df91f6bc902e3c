package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/orderdesk/order-system/internal/core/domain"
	"github.com/orderdesk/order-system/internal/core/ports"
)

type stubOrderRepo struct {
	orders   map[string]*domain.Order
	rooms    map[string]*domain.ChatRoom
	nextID   int
	lastList ports.ListOrdersInput
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		orders: make(map[string]*domain.Order),
		rooms:  make(map[string]*domain.ChatRoom),
	}
}

func cloneOrder(o *domain.Order) *domain.Order {
	if o == nil {
		return nil
	}
	clone := *o
	return &clone
}

func (r *stubOrderRepo) CreateWithRoom(_ context.Context, order *domain.Order) (*domain.Order, *domain.ChatRoom, error) {
	r.nextID++
	copy := cloneOrder(order)
	copy.ID = fmt.Sprintf("order_%d", r.nextID)
	r.orders[copy.ID] = cloneOrder(copy)

	room := &domain.ChatRoom{
		ID:        fmt.Sprintf("room_%d", r.nextID),
		OrderID:   copy.ID,
		IsOpen:    true,
		CreatedAt: copy.CreatedAt,
	}
	r.rooms[room.ID] = room
	return copy, room, nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *stubOrderRepo) List(_ context.Context, in ports.ListOrdersInput) ([]domain.Order, int64, error) {
	r.lastList = in
	out := make([]domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if in.OwnerID != "" && o.UserID != in.OwnerID {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) Update(_ context.Context, id string, update ports.OrderUpdate) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if update.Description != nil {
		o.Description = *update.Description
	}
	if update.Quantity != nil {
		o.Quantity = *update.Quantity
	}
	if update.Specifications != nil {
		o.Specifications = update.Specifications
	}
	if update.Metadata != nil {
		o.Metadata = update.Metadata
	}
	return cloneOrder(o), nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o.Status = status
	return cloneOrder(o), nil
}

var (
	regularActor = &domain.Principal{ID: "user_1", Email: "alice@example.com", Role: domain.RoleRegular}
	otherActor   = &domain.Principal{ID: "user_2", Email: "bob@example.com", Role: domain.RoleRegular}
	adminActor   = &domain.Principal{ID: "admin_1", Email: "admin@example.com", Role: domain.RoleAdmin}
)

func seedOrder(t *testing.T, svc *OrderService, actor *domain.Principal) *domain.Order {
	t.Helper()
	order, room, err := svc.Create(context.Background(), actor, ports.CreateOrderInput{
		Description: "100 custom widgets",
		Quantity:    100,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if room == nil || !room.IsOpen || room.OrderID != order.ID {
		t.Fatalf("expected an open room linked to the order, got %+v", room)
	}
	return order
}

func TestOrderService_CreateStartsInReview(t *testing.T) {
	svc := NewOrderService(newStubOrderRepo(), zerolog.Nop())

	order := seedOrder(t, svc, regularActor)
	if order.Status != domain.StatusReview {
		t.Fatalf("new order status %s, want %s", order.Status, domain.StatusReview)
	}
	if order.UserID != regularActor.ID {
		t.Fatalf("order owner %s, want %s", order.UserID, regularActor.ID)
	}
}

func TestOrderService_ListScopedToOwner(t *testing.T) {
	repo := newStubOrderRepo()
	svc := NewOrderService(repo, zerolog.Nop())
	seedOrder(t, svc, regularActor)
	seedOrder(t, svc, otherActor)

	mine, total, err := svc.List(context.Background(), regularActor, 1, 10)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 1 || len(mine) != 1 {
		t.Fatalf("regular user sees %d orders, want 1", total)
	}
	if repo.lastList.OwnerID != regularActor.ID {
		t.Fatalf("owner filter %q, want %q", repo.lastList.OwnerID, regularActor.ID)
	}

	all, total, err := svc.List(context.Background(), adminActor, 1, 10)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Fatalf("admin sees %d orders, want 2", total)
	}
	if repo.lastList.OwnerID != "" {
		t.Fatalf("admin listing must not filter by owner, got %q", repo.lastList.OwnerID)
	}
}

func TestOrderService_GetOwnership(t *testing.T) {
	svc := NewOrderService(newStubOrderRepo(), zerolog.Nop())
	order := seedOrder(t, svc, regularActor)

	if _, err := svc.Get(context.Background(), regularActor, order.ID); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), adminActor, order.ID); err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), otherActor, order.ID); !errors.Is(err, domain.ErrOwnershipViolation) {
		t.Fatalf("expected ErrOwnershipViolation, got %v", err)
	}
	if _, err := svc.Get(context.Background(), adminActor, "missing"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_UpdateOnlyInReviewForOwners(t *testing.T) {
	svc := NewOrderService(newStubOrderRepo(), zerolog.Nop())
	order := seedOrder(t, svc, regularActor)

	desc := "200 custom widgets"
	if _, err := svc.Update(context.Background(), regularActor, order.ID, ports.OrderUpdate{Description: &desc}); err != nil {
		t.Fatalf("owner update in REVIEW failed: %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), adminActor, order.ID, domain.StatusProcessing); err != nil {
		t.Fatalf("advancing to PROCESSING failed: %v", err)
	}

	if _, err := svc.Update(context.Background(), regularActor, order.ID, ports.OrderUpdate{Description: &desc}); !errors.Is(err, domain.ErrOwnershipViolation) {
		t.Fatalf("owner edit after REVIEW: expected ErrOwnershipViolation, got %v", err)
	}
	if _, err := svc.Update(context.Background(), adminActor, order.ID, ports.OrderUpdate{Description: &desc}); err != nil {
		t.Fatalf("admin edit after REVIEW failed: %v", err)
	}
}

func TestOrderService_UpdateStatus_AdminOnly(t *testing.T) {
	svc := NewOrderService(newStubOrderRepo(), zerolog.Nop())
	order := seedOrder(t, svc, regularActor)

	if _, err := svc.UpdateStatus(context.Background(), regularActor, order.ID, domain.StatusProcessing); !errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatalf("expected ErrInsufficientRole, got %v", err)
	}
}

func TestOrderService_UpdateStatus_Transitions(t *testing.T) {
	cases := []struct {
		from    domain.OrderStatus
		to      domain.OrderStatus
		allowed bool
	}{
		{domain.StatusReview, domain.StatusProcessing, true},
		{domain.StatusProcessing, domain.StatusCompleted, true},
		{domain.StatusReview, domain.StatusCompleted, false},
		{domain.StatusProcessing, domain.StatusReview, false},
		{domain.StatusCompleted, domain.StatusProcessing, false},
		{domain.StatusCompleted, domain.StatusReview, false},
		{domain.StatusReview, domain.StatusReview, false},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s_to_%s", tc.from, tc.to), func(t *testing.T) {
			repo := newStubOrderRepo()
			svc := NewOrderService(repo, zerolog.Nop())
			order := seedOrder(t, svc, regularActor)
			repo.orders[order.ID].Status = tc.from
			repo.orders[order.ID].UpdatedAt = time.Now().UTC()

			updated, err := svc.UpdateStatus(context.Background(), adminActor, order.ID, tc.to)
			if tc.allowed {
				if err != nil {
					t.Fatalf("transition %s->%s should succeed: %v", tc.from, tc.to, err)
				}
				if updated.Status != tc.to {
					t.Fatalf("status %s, want %s", updated.Status, tc.to)
				}
				return
			}
			if !errors.Is(err, domain.ErrInvalidTransition) {
				t.Fatalf("transition %s->%s: expected ErrInvalidTransition, got %v", tc.from, tc.to, err)
			}
			if repo.orders[order.ID].Status != tc.from {
				t.Fatalf("rejected transition mutated status to %s", repo.orders[order.ID].Status)
			}
		})
	}
}
