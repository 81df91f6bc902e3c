// Package ws is the chat socket transport. The guard pipeline runs once per
// connection at handshake time; every message after that carries the
// connection's bound identity and only gets resource-specific checks.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/orderdesk/order-system/internal/api/guard"
	"github.com/orderdesk/order-system/internal/api/metrics"
	"github.com/orderdesk/order-system/internal/core/domain"
	"github.com/orderdesk/order-system/internal/core/ports"
)

type Gateway struct {
	guard       *guard.Guard
	chatService ports.ChatService
	hub         *Hub
	upgrader    websocket.Upgrader
	logger      zerolog.Logger
}

func NewGateway(g *guard.Guard, chatService ports.ChatService, hub *Hub, logger zerolog.Logger) *Gateway {
	return &Gateway{
		guard:       g,
		chatService: chatService,
		hub:         hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from arbitrary origins; access
			// control happens via the token, not the Origin header.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Handle upgrades GET /ws/chat. A connection without a verifiable identity
// is refused before the upgrade completes.
func (g *Gateway) Handle(c echo.Context) error {
	principal, err := g.guard.Handshake(c.Request())
	if err != nil {
		g.logger.Warn().Err(err).Msg("socket handshake rejected")
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	conn, err := g.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := newClient(conn, principal)
	metrics.WSConnections.Inc()
	g.logger.Info().Str("user_id", principal.ID).Msg("socket connected")

	go client.writePump()
	g.readPump(client)
	return nil
}

func (g *Gateway) readPump(client *Client) {
	defer func() {
		g.hub.Remove(client)
		close(client.send)
		_ = client.conn.Close()
		metrics.WSConnections.Dec()
		g.logger.Info().Str("user_id", client.principal.ID).Msg("socket disconnected")
	}()

	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			return
		}

		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			client.emit(errorFrame(http.StatusBadRequest, "malformed frame"))
			continue
		}
		g.dispatch(client, f)
	}
}

// dispatch routes one inbound frame. Failures emit an error event to the
// sender and leave connection and room state untouched.
func (g *Gateway) dispatch(client *Client, f frame) {
	ctx := context.Background()

	switch f.Event {
	case "joinRoom":
		g.handleJoin(ctx, client, f.Data)
	case "sendMessage":
		g.handleSend(ctx, client, f.Data)
	case "closeRoom":
		g.handleClose(ctx, client, f.Data)
	default:
		client.emit(errorFrame(http.StatusBadRequest, "unknown event"))
	}
}

func (g *Gateway) handleJoin(ctx context.Context, client *Client, data json.RawMessage) {
	var p joinRoomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.ChatRoomID == "" {
		client.emit(errorFrame(http.StatusBadRequest, "chat_room_id is required"))
		return
	}

	ok, err := g.chatService.CanAccessRoom(ctx, client.principal, p.ChatRoomID)
	if err != nil {
		client.emit(g.errorFor(err))
		return
	}
	if !ok {
		client.emit(errorFrame(http.StatusForbidden, "unauthorized to join this room"))
		return
	}

	history, err := g.chatService.RoomHistory(ctx, p.ChatRoomID)
	if err != nil {
		client.emit(g.errorFor(err))
		return
	}

	g.hub.Join(p.ChatRoomID, client)
	client.emit(envelope("chatHistory", history))
}

func (g *Gateway) handleSend(ctx context.Context, client *Client, data json.RawMessage) {
	var p sendMessagePayload
	if err := json.Unmarshal(data, &p); err != nil || p.ChatRoomID == "" || p.Content == "" {
		client.emit(errorFrame(http.StatusBadRequest, "chat_room_id and content are required"))
		return
	}

	// Joining grants read access; sending re-checks it so a client cannot
	// post to a room it never joined.
	ok, err := g.chatService.CanAccessRoom(ctx, client.principal, p.ChatRoomID)
	if err != nil {
		client.emit(g.errorFor(err))
		return
	}
	if !ok {
		client.emit(errorFrame(http.StatusForbidden, "unauthorized to send to this room"))
		return
	}

	msg, err := g.chatService.SendMessage(ctx, client.principal, p.ChatRoomID, p.Content)
	if err != nil {
		client.emit(g.errorFor(err))
		return
	}

	metrics.MessagesSentTotal.Inc()
	g.hub.Broadcast(p.ChatRoomID, envelope("newMessage", msg))
}

func (g *Gateway) handleClose(ctx context.Context, client *Client, data json.RawMessage) {
	var p closeRoomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.ChatRoomID == "" {
		client.emit(errorFrame(http.StatusBadRequest, "chat_room_id is required"))
		return
	}

	room, err := g.chatService.CloseRoom(ctx, client.principal, p.ChatRoomID, p.Summary)
	if err != nil {
		client.emit(g.errorFor(err))
		return
	}

	metrics.RoomsClosedTotal.Inc()
	g.hub.Broadcast(p.ChatRoomID, envelope("roomClosed", room))
}

// errorFor maps service errors onto socket error frames using the same
// status semantics as the HTTP error handler.
func (g *Gateway) errorFor(err error) []byte {
	switch {
	case err == nil:
		return errorFrame(http.StatusInternalServerError, "internal error")
	case errors.Is(err, domain.ErrRoomNotFound), errors.Is(err, domain.ErrOrderNotFound):
		return errorFrame(http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrRoomClosed):
		return errorFrame(http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInsufficientRole), errors.Is(err, domain.ErrOwnershipViolation):
		return errorFrame(http.StatusForbidden, err.Error())
	default:
		g.logger.Error().Err(err).Msg("socket operation failed")
		return errorFrame(http.StatusInternalServerError, "internal error")
	}
}
