package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/sambhav874/WingHeights/internal/api"
	"github.com/sambhav874/WingHeights/internal/chat"
	"github.com/sambhav874/WingHeights/internal/config"
	"github.com/sambhav874/WingHeights/internal/providers"
	"github.com/sambhav874/WingHeights/internal/providers/factory"
	"github.com/sambhav874/WingHeights/internal/retrieval"
	"github.com/sambhav874/WingHeights/internal/session"
	"github.com/sambhav874/WingHeights/internal/storage"
)

func main() {
	setupLogging()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize the provider registry
	registry := providers.NewRegistry()
	for id, pc := range cfg.Providers {
		provider, err := factory.CreateProvider(id, pc)
		if err != nil {
			logrus.WithError(err).Warnf("Skipping provider %s", id)
			continue
		}
		registry.Register(id, provider)
	}

	provider := registry.Get(cfg.DefaultProvider)
	if provider == nil {
		logrus.Fatalf("Default provider %q could not be initialized", cfg.DefaultProvider)
	}
	if err := provider.ValidateConfig(); err != nil {
		logrus.Fatalf("Provider %q misconfigured: %v", cfg.DefaultProvider, err)
	}

	// Retrieval collaborator (optional)
	var retriever retrieval.Retriever = retrieval.Disabled{}
	if cfg.Retrieval.Enabled {
		embedder, err := retrieval.NewEmbedder(cfg.Retrieval)
		if err != nil {
			logrus.Fatalf("Failed to create embedder: %v", err)
		}
		index, err := retrieval.Open(context.Background(), cfg.Retrieval, embedder)
		if err != nil {
			logrus.Fatalf("Failed to open vector index: %v", err)
		}
		retriever = index
	}

	// Durable record sink
	sink, err := storage.NewCSVStore(cfg.Storage)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}

	// Session store and conversation router
	store := session.NewStore()
	router, err := chat.NewRouter(cfg, provider, retriever, sink)
	if err != nil {
		logrus.Fatalf("Failed to create conversation router: %v", err)
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "WingHeights Backend",
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: getOrigins(),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	api.SetupRoutes(app, store, router)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logrus.Infof("WingHeights backend starting on %s (provider=%s, trigger=%s)",
		addr, cfg.DefaultProvider, cfg.Chat.BookingTrigger)
	if err := app.Listen(addr); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}

func setupLogging() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Mirror logs to a file alongside stderr when possible.
	if f, err := os.OpenFile("chatbot.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
		logrus.SetOutput(io.MultiWriter(os.Stderr, f))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

func getOrigins() string {
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		return origins
	}
	return "*"
}
