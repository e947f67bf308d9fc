package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/sambhav874/WingHeights/internal/api/handlers"
	"github.com/sambhav874/WingHeights/internal/chat"
	"github.com/sambhav874/WingHeights/internal/session"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store *session.Store, router *chat.Router) {
	chatHandler := handlers.NewChatHandler(store, router)
	socketHandler := handlers.NewSocketHandler(store, router)

	api := app.Group("/api/v1")

	// Request/response chat variant
	api.Post("/chat", chatHandler.Chat)
	api.Post("/appointments", chatHandler.SubmitAppointment)

	// Session management
	api.Post("/sessions", chatHandler.CreateSession)
	api.Delete("/sessions/:id", chatHandler.DeleteSession)

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "wingheights-backend",
		})
	})

	// Real-time chat variant
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(socketHandler.Handle))
}
