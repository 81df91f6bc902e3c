package ports

import (
	"context"
	"time"

	"github.com/orderdesk/order-system/internal/core/domain"
)

// ChatRepository persists chat rooms and messages.
type ChatRepository interface {
	FindRoomByID(ctx context.Context, id string) (*domain.ChatRoom, error)
	FindRoomByOrderID(ctx context.Context, orderID string) (*domain.ChatRoom, error)
	// CloseRoom marks the room closed and transitions the linked order to
	// PROCESSING in a single transaction. It re-reads the room inside the
	// transaction and returns domain.ErrRoomNotFound or domain.ErrRoomClosed
	// without applying either half.
	CloseRoom(ctx context.Context, roomID, summary string, closedAt time.Time) (*domain.ChatRoom, error)
	CreateMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	ListMessages(ctx context.Context, roomID string) ([]domain.Message, error)
}
