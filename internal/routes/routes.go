package routes

import (
	"contactpro/server/internal/handlers"
	"contactpro/server/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App) {
	// API v1 group
	api := app.Group("/api/v1")

	// Health check (public)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "ContactPro API is running",
		})
	})

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/register", middleware.StrictRateLimiter(), handlers.Register)
	auth.Post("/login", middleware.StrictRateLimiter(), handlers.Login)
	auth.Post("/refresh", middleware.StrictRateLimiter(), handlers.RefreshToken)
	auth.Post("/logout", middleware.AuthMiddleware, handlers.Logout)
	auth.Get("/me", middleware.AuthMiddleware, handlers.GetMe)

	// Contact routes (protected)
	contacts := api.Group("/contacts", middleware.AuthMiddleware)
	contacts.Get("/", handlers.ListContacts)
	contacts.Post("/", middleware.WriteRateLimiter(), handlers.CreateContact)
	contacts.Get("/:contactId", handlers.GetContact)
	contacts.Put("/:contactId", middleware.WriteRateLimiter(), handlers.UpdateContact)
	contacts.Delete("/:contactId", handlers.DeleteContact)
	contacts.Get("/:contactId/image", handlers.GetContactImage)

	// Category routes (protected)
	categories := api.Group("/categories", middleware.AuthMiddleware)
	categories.Get("/", handlers.ListCategories)
	categories.Post("/", handlers.CreateCategory)
	categories.Get("/:categoryId", handlers.GetCategory)
	categories.Put("/:categoryId", handlers.UpdateCategory)
	categories.Delete("/:categoryId", handlers.DeleteCategory)
	categories.Get("/:categoryId/email", handlers.EmailCategoryPreview)
	categories.Post("/:categoryId/email", middleware.MailRateLimiter(), handlers.SendCategoryEmail)
}
