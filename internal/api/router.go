package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/orderdesk/order-system/docs"
	"github.com/orderdesk/order-system/internal/api/guard"
	"github.com/orderdesk/order-system/internal/api/handler"
	"github.com/orderdesk/order-system/internal/api/ws"
	"github.com/orderdesk/order-system/internal/core/domain"
	"github.com/orderdesk/order-system/internal/core/service"
	"github.com/orderdesk/order-system/internal/infrastructure/config"
	mongodb "github.com/orderdesk/order-system/internal/infrastructure/db/mongo"
	redisdb "github.com/orderdesk/order-system/internal/infrastructure/db/redis"
)

// route pairs a handler with its declared access requirement. The table is
// built once at startup; the guard reads requirements from here, never from
// handler metadata.
type route struct {
	method  string
	path    string
	handler echo.HandlerFunc
	require guard.Requirement
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("orderdesk"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	orderRepo := mongodb.NewOrderRepository(db)
	chatRepo := mongodb.NewChatRepository(db)

	tokenService := service.NewTokenService(
		cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL,
	)
	identityCache := redisdb.NewIdentityCache(rdb, cfg.Cache.IdentityTTL)
	resolver := service.NewIdentityResolver(identityCache, userRepo, log)
	g := guard.New(tokenService, resolver, log)

	authService := service.NewAuthService(userRepo, tokenService, log)
	userService := service.NewUserService(userRepo, log)
	orderService := service.NewOrderService(orderRepo, log)
	chatService := service.NewChatService(chatRepo, orderRepo, log)

	authHandler := handler.NewAuthHandler(authService, cfg.JWT.RefreshTTL, cfg.IsProduction())
	userHandler := handler.NewUserHandler(userService)
	orderHandler := handler.NewOrderHandler(orderService)
	chatHandler := handler.NewChatHandler(chatService)
	gateway := ws.NewGateway(g, chatService, ws.NewHub(), log)

	// --- Protected routes, requirement declared per operation ---
	routes := []route{
		{http.MethodPost, "/auth/register", authHandler.Register, guard.Public()},
		{http.MethodPost, "/auth/login", authHandler.Login, guard.Public()},
		{http.MethodPost, "/auth/refresh", authHandler.Refresh, guard.Public()},
		{http.MethodPost, "/auth/logout", authHandler.Logout, guard.Authenticated()},

		{http.MethodGet, "/users", userHandler.List, guard.RequireRoles(domain.RoleAdmin)},
		{http.MethodGet, "/users/me", userHandler.Me, guard.Authenticated()},
		{http.MethodPatch, "/users/update", userHandler.Update, guard.Authenticated()},
		{http.MethodGet, "/users/:id", userHandler.Get, guard.RequireRoles(domain.RoleAdmin)},
		{http.MethodDelete, "/users/:id", userHandler.Delete, guard.RequireRoles(domain.RoleAdmin)},

		{http.MethodPost, "/orders", orderHandler.Create, guard.Authenticated()},
		{http.MethodGet, "/orders", orderHandler.List, guard.Authenticated()},
		{http.MethodGet, "/orders/:id", orderHandler.Get, guard.Authenticated()},
		{http.MethodPatch, "/orders/:id", orderHandler.Update, guard.Authenticated()},
		{http.MethodPatch, "/orders/:id/status", orderHandler.UpdateStatus, guard.RequireRoles(domain.RoleAdmin)},

		{http.MethodGet, "/chat/rooms/:orderId", chatHandler.RoomByOrder, guard.Authenticated()},
		{http.MethodPost, "/chat/rooms/:id/close", chatHandler.CloseRoom, guard.RequireRoles(domain.RoleAdmin)},
	}
	for _, r := range routes {
		e.Add(r.method, r.path, r.handler, g.Require(r.require))
	}

	// Socket transport: the gateway runs the guard handshake itself, once
	// per connection, before the upgrade completes.
	e.GET("/ws/chat", gateway.Handle)

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
