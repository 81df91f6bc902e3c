package domain

import (
	"errors"
	"time"
)

var ErrRoomNotFound = errors.New("chat room not found")
var ErrRoomClosed = errors.New("chat room is already closed")

// ChatRoom is opened automatically alongside its order (1:1) and closed only
// through the atomic close operation, which also advances the order.
type ChatRoom struct {
	ID        string     `json:"id"`
	OrderID   string     `json:"order_id"`
	IsOpen    bool       `json:"is_open"`
	Summary   string     `json:"summary,omitempty"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Message is a single chat entry. Author email and role are denormalized at
// write time so history reads need no join.
type Message struct {
	ID         string    `json:"id"`
	ChatRoomID string    `json:"chat_room_id"`
	UserID     string    `json:"user_id"`
	UserEmail  string    `json:"user_email"`
	UserRole   string    `json:"user_role"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
