package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/orderdesk/order-system/internal/api/guard"
	"github.com/orderdesk/order-system/internal/core/domain"
	"github.com/orderdesk/order-system/internal/core/ports"
)

type OrderHandler struct {
	orderService ports.OrderService
}

func NewOrderHandler(orderService ports.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

type createOrderRequest struct {
	Description    string         `json:"description" validate:"required"`
	Specifications map[string]any `json:"specifications" validate:"required"`
	Quantity       int            `json:"quantity" validate:"required,min=1"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

type updateOrderRequest struct {
	Description    *string        `json:"description,omitempty"`
	Specifications map[string]any `json:"specifications,omitempty"`
	Quantity       *int           `json:"quantity,omitempty" validate:"omitempty,min=1"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=REVIEW PROCESSING COMPLETED"`
}

type orderResponse struct {
	Order    *domain.Order    `json:"order"`
	ChatRoom *domain.ChatRoom `json:"chat_room,omitempty"`
}

// Create handles POST /orders. The order starts in REVIEW and its chat room
// opens in the same commit.
//
// @Summary      Create a new order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Order content"
// @Success      201   {object}  orderResponse
// @Failure      400   {object}  api.ErrorResponse
// @Failure      401   {object}  api.ErrorResponse
// @Router       /orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	principal, err := guard.CurrentUser(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, room, err := h.orderService.Create(c.Request().Context(), principal, ports.CreateOrderInput{
		Description:    req.Description,
		Specifications: req.Specifications,
		Quantity:       req.Quantity,
		Metadata:       req.Metadata,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, orderResponse{Order: order, ChatRoom: room})
}

// List handles GET /orders. Regular users see their own orders; admins see all.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  paginatedResponse
// @Failure      401    {object}  api.ErrorResponse
// @Router       /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	principal, err := guard.CurrentUser(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	page, limit = pageParams(page, limit)

	orders, total, err := h.orderService.List(c.Request().Context(), principal, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, paginate(orders, total, page, limit))
}

// Get handles GET /orders/:id with an ownership check.
//
// @Summary      Get order by ID
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  domain.Order
// @Failure      403  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	principal, err := guard.CurrentUser(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.Get(c.Request().Context(), principal, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Update handles PATCH /orders/:id. Owners may edit content only while the
// order is still in REVIEW.
//
// @Summary      Update order content
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Order ID"
// @Param        body  body      updateOrderRequest  true  "Fields to change"
// @Success      200   {object}  domain.Order
// @Failure      403   {object}  api.ErrorResponse
// @Failure      404   {object}  api.ErrorResponse
// @Router       /orders/{id} [patch]
func (h *OrderHandler) Update(c echo.Context) error {
	principal, err := guard.CurrentUser(c)
	if err != nil {
		return err
	}

	var req updateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orderService.Update(c.Request().Context(), principal, c.Param("id"), ports.OrderUpdate{
		Description:    req.Description,
		Specifications: req.Specifications,
		Quantity:       req.Quantity,
		Metadata:       req.Metadata,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateStatus handles PATCH /orders/:id/status, the admin-only state machine
// transition.
//
// @Summary      Update order status (admin only)
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Order ID"
// @Param        body  body      updateOrderStatusRequest  true  "New status"
// @Success      200   {object}  domain.Order
// @Failure      403   {object}  api.ErrorResponse
// @Failure      404   {object}  api.ErrorResponse
// @Router       /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	principal, err := guard.CurrentUser(c)
	if err != nil {
		return err
	}

	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orderService.UpdateStatus(c.Request().Context(), principal, c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}
