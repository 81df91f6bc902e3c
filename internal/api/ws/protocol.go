package ws

import (
	"encoding/json"
	"time"
)

// Wire protocol: every frame in both directions is {"event": ..., "data": ...}.
// Client events: joinRoom, sendMessage, closeRoom.
// Server events: chatHistory, newMessage, roomClosed, error.

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinRoomPayload struct {
	ChatRoomID string `json:"chat_room_id"`
}

type sendMessagePayload struct {
	ChatRoomID string `json:"chat_room_id"`
	Content    string `json:"content"`
}

type closeRoomPayload struct {
	ChatRoomID string `json:"chat_room_id"`
	Summary    string `json:"summary"`
}

// errorPayload mirrors the HTTP error envelope minus the path, which has no
// socket equivalent.
type errorPayload struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// envelope marshals an outbound frame. Marshal errors cannot happen for the
// payload types used here, so the result is returned directly.
func envelope(event string, data any) []byte {
	raw, _ := json.Marshal(data)
	out, _ := json.Marshal(frame{Event: event, Data: raw})
	return out
}

func errorFrame(status int, message string) []byte {
	return envelope("error", errorPayload{
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
