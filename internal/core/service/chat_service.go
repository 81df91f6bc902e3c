package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/orderdesk/order-system/internal/core/domain"
	"github.com/orderdesk/order-system/internal/core/ports"
)

// ChatService resolves room access and performs room operations. It relies
// on the guard having authenticated the caller; everything here is
// resource-specific authorization.
type ChatService struct {
	rooms  ports.ChatRepository
	orders ports.OrderRepository
	logger zerolog.Logger
}

func NewChatService(rooms ports.ChatRepository, orders ports.OrderRepository, logger zerolog.Logger) *ChatService {
	return &ChatService{rooms: rooms, orders: orders, logger: logger}
}

// CanAccessRoom: admins always; regular users only when they own the order
// the room belongs to.
func (s *ChatService) CanAccessRoom(ctx context.Context, actor *domain.Principal, roomID string) (bool, error) {
	if actor.IsAdmin() {
		return true, nil
	}

	room, err := s.rooms.FindRoomByID(ctx, roomID)
	if err != nil {
		return false, err
	}
	order, err := s.orders.FindByID(ctx, room.OrderID)
	if err != nil {
		return false, err
	}
	return order.UserID == actor.ID, nil
}

// RoomHistory returns the room and its messages in ascending order.
func (s *ChatService) RoomHistory(ctx context.Context, roomID string) (*ports.RoomHistory, error) {
	room, err := s.rooms.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.rooms.ListMessages(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return &ports.RoomHistory{Room: room, Messages: msgs}, nil
}

// RoomByOrderID resolves the room through its order, enforcing ownership for
// regular users.
func (s *ChatService) RoomByOrderID(ctx context.Context, actor *domain.Principal, orderID string) (*ports.RoomHistory, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && order.UserID != actor.ID {
		return nil, domain.ErrOwnershipViolation
	}

	room, err := s.rooms.FindRoomByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.rooms.ListMessages(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	return &ports.RoomHistory{Room: room, Messages: msgs}, nil
}

// SendMessage persists a message in an open room. Closed or unknown rooms
// reject the message without side effects.
func (s *ChatService) SendMessage(ctx context.Context, actor *domain.Principal, roomID, content string) (*domain.Message, error) {
	room, err := s.rooms.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsOpen {
		return nil, domain.ErrRoomClosed
	}

	msg := &domain.Message{
		ChatRoomID: roomID,
		UserID:     actor.ID,
		UserEmail:  actor.Email,
		UserRole:   actor.Role,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
	return s.rooms.CreateMessage(ctx, msg)
}

// CloseRoom closes a room and advances its order to PROCESSING as one atomic
// unit. Admin-only. The repository re-checks room state inside the
// transaction, so a concurrent close loses cleanly.
func (s *ChatService) CloseRoom(ctx context.Context, actor *domain.Principal, roomID, summary string) (*domain.ChatRoom, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrInsufficientRole
	}

	room, err := s.rooms.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsOpen {
		return nil, domain.ErrRoomClosed
	}

	closed, err := s.rooms.CloseRoom(ctx, roomID, summary, time.Now().UTC())
	if err != nil {
		s.logger.Error().Err(err).Str("room_id", roomID).Msg("room close failed")
		return nil, err
	}

	s.logger.Info().Str("room_id", roomID).Str("order_id", closed.OrderID).Msg("room closed")
	return closed, nil
}
