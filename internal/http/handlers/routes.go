package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	applog "storefront/internal/log"
	"storefront/internal/metrics"
)

// LoginLimit throttles POST /api/login per client IP.
var LoginLimit = limiter.Config{
	Max:        5,
	Expiration: 10 * time.Minute,
	LimitReached: func(c *fiber.Ctx) error {
		applog.Security(c, "rate.login.hit", nil)
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
	},
}

// Mount registers every route on app.
func Mount(app *fiber.App, d *Deps) {
	api := app.Group("/api")

	// Items
	api.Get("/items", d.ItemHandler.List)
	api.Post("/items", d.ItemHandler.Create)
	api.Get("/items/:id", d.ItemHandler.Get)
	api.Patch("/items/:id", d.ItemHandler.Update)
	api.Delete("/items/:id", d.ItemHandler.Delete)

	// Blog
	api.Get("/posts", d.PostHandler.List)
	api.Post("/posts", d.PostHandler.Create)
	api.Get("/posts/:slug", d.PostHandler.Get)
	api.Patch("/posts/:slug", d.PostHandler.Update)
	api.Delete("/posts/:slug", d.PostHandler.Delete)
	api.Get("/posts/:slug/meta", d.PostHandler.Meta)
	api.Get("/assistant/context", d.PostHandler.AssistantContext)
	app.Get("/posts/:slug/head", d.PostHandler.Head)

	// Catalog (read side)
	api.Get("/products", d.ProductHandler.List)
	api.Get("/products/:id", d.ProductHandler.Detail)
	api.Get("/products/:id/components", d.ProductHandler.Components)
	api.Get("/components/:id", d.ProductHandler.Component)

	// Cart
	api.Get("/cart", d.CartHandler.View)
	api.Post("/cart", d.CartHandler.Add)
	api.Post("/cart/checkout", d.CartHandler.Checkout)
	api.Delete("/cart/:productId", d.CartHandler.Remove)
	api.Delete("/cart", d.CartHandler.Clear)

	// Auth (login throttled)
	api.Post("/login", limiter.New(LoginLimit), d.AuthHandler.Login)
	api.Post("/logout", d.AuthHandler.Logout)

	// Admin
	admin := api.Group("/admin", RequireAdmin(d.Auth))
	admin.Get("/products/export.xlsx", d.ExportHandler.ProductsXLSX)
	admin.Post("/products", d.AdminHandler.CreateProduct)
	admin.Patch("/products/:id", d.AdminHandler.UpdateProduct)
	admin.Delete("/products/:id", d.AdminHandler.DeleteProduct)
	admin.Post("/products/:id/components", d.AdminHandler.CreateComponent)
	admin.Patch("/components/:id", d.AdminHandler.UpdateComponent)
	admin.Delete("/components/:id", d.AdminHandler.DeleteComponent)

	// Ops
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Page not found"})
	})
}
