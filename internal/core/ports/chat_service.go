package ports

import (
	"context"

	"github.com/orderdesk/order-system/internal/core/domain"
)

// RoomHistory is a room together with its messages in ascending creation order.
type RoomHistory struct {
	Room     *domain.ChatRoom `json:"room"`
	Messages []domain.Message `json:"messages"`
}

// ChatService authorizes room access and performs room operations.
type ChatService interface {
	// CanAccessRoom: admins always, regular users only for rooms whose
	// linked order they own.
	CanAccessRoom(ctx context.Context, actor *domain.Principal, roomID string) (bool, error)
	RoomHistory(ctx context.Context, roomID string) (*RoomHistory, error)
	RoomByOrderID(ctx context.Context, actor *domain.Principal, orderID string) (*RoomHistory, error)
	SendMessage(ctx context.Context, actor *domain.Principal, roomID, content string) (*domain.Message, error)
	// CloseRoom is admin-only and atomic: the room closes and the linked
	// order advances to PROCESSING together, or neither happens.
	CloseRoom(ctx context.Context, actor *domain.Principal, roomID, summary string) (*domain.ChatRoom, error)
}
