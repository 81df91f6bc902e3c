package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/orderdesk/order-system/internal/api/guard"
	"github.com/orderdesk/order-system/internal/api/metrics"
	"github.com/orderdesk/order-system/internal/core/ports"
)

type ChatHandler struct {
	chatService ports.ChatService
}

func NewChatHandler(chatService ports.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type closeRoomRequest struct {
	Summary string `json:"summary" validate:"required"`
}

// RoomByOrder handles GET /chat/rooms/:orderId: the room and its history,
// gated by order ownership.
//
// @Summary      Get chat room by order ID
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        orderId  path      string  true  "Order ID"
// @Success      200      {object}  ports.RoomHistory
// @Failure      403      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /chat/rooms/{orderId} [get]
func (h *ChatHandler) RoomByOrder(c echo.Context) error {
	principal, err := guard.CurrentUser(c)
	if err != nil {
		return err
	}

	history, err := h.chatService.RoomByOrderID(c.Request().Context(), principal, c.Param("orderId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, history)
}

// CloseRoom handles POST /chat/rooms/:id/close, the admin-only atomic close.
//
// @Summary      Close chat room (admin only)
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Chat room ID"
// @Param        body  body      closeRoomRequest  true  "Closing summary"
// @Success      200   {object}  domain.ChatRoom
// @Failure      400   {object}  api.ErrorResponse
// @Failure      403   {object}  api.ErrorResponse
// @Failure      404   {object}  api.ErrorResponse
// @Router       /chat/rooms/{id}/close [post]
func (h *ChatHandler) CloseRoom(c echo.Context) error {
	principal, err := guard.CurrentUser(c)
	if err != nil {
		return err
	}

	var req closeRoomRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	room, err := h.chatService.CloseRoom(c.Request().Context(), principal, c.Param("id"), req.Summary)
	if err != nil {
		return err
	}

	metrics.RoomsClosedTotal.Inc()
	return c.JSON(http.StatusOK, room)
}
