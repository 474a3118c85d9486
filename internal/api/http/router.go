package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-service/internal/api/http/handlers"
	"github.com/spec-kit/order-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Admin          *handlers.AdminHandler
	Customers      *handlers.CustomersHandler
	Orders         *handlers.OrdersHandler
	OrderItems     *handlers.OrderItemsHandler
	Items          *handlers.ItemsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Authentication is attached per route so that
// unknown paths still answer 404.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	authed := cfg.AuthMiddleware.Handle
	admin := auth.RequireAdmin()

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", authed, admin, cfg.Health.Metrics)

	app.Post("/auth-token", cfg.Auth.ObtainToken)
	app.Delete("/auth-token", authed, cfg.Auth.RevokeToken)

	app.Post("/customer", cfg.Customers.Register)
	app.Get("/customer/:id", authed, cfg.Customers.Get)
	app.Patch("/customer/:id", authed, cfg.Customers.Update)

	app.Post("/order", authed, cfg.Orders.Create)
	app.Get("/order", authed, cfg.Orders.List)
	app.Get("/order/all", authed, cfg.Orders.ListAll)
	app.Get("/order/:id", authed, cfg.Orders.Get)
	app.Patch("/order/:id", authed, cfg.Orders.Update)
	app.Post("/order/:id/add_item", authed, cfg.Orders.AddItem)
	app.Get("/order/:id/receipt", authed, cfg.Orders.Receipt)
	app.Get("/order/:id/history", authed, cfg.Orders.History)

	app.Get("/orderitem/:id", authed, cfg.OrderItems.Get)
	app.Patch("/orderitem/:id", authed, cfg.OrderItems.Update)
	app.Delete("/orderitem/:id", authed, cfg.OrderItems.Delete)

	app.Get("/item", authed, admin, cfg.Items.List)
	app.Get("/item/:id", authed, admin, cfg.Items.Get)
	app.Patch("/item/:id", authed, admin, cfg.Items.Update)

	adminGroup := app.Group("/admin", authed, admin)
	adminGroup.Post("/users/:id/activate", cfg.Admin.Activate)
	adminGroup.Post("/users/:id/deactivate", cfg.Admin.Deactivate)
}
