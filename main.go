package main

import (
	"context"
	"log"
	"os"

	"contactpro/server/internal/addressbook"
	"contactpro/server/internal/database"
	"contactpro/server/internal/email"
	"contactpro/server/internal/handlers"
	"contactpro/server/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Connect to database
	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(context.Background()); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Connect to redis
	if err := database.InitRedis(); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	// Wire the address book core and the mail sender
	book := addressbook.NewService(addressbook.NewPostgresStore(database.Pool), zapLogger)

	// Mail is optional: without SMTP config the bulk email endpoint
	// reports 503 and everything else keeps working
	var mailer handlers.Mailer
	if sender, err := email.NewSenderFromEnv(); err != nil {
		log.Printf("⚠️ Mail sender not configured, bulk email disabled: %v", err)
	} else {
		mailer = sender
	}

	handlers.Init(book, mailer)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:   "ContactPro API v1.0",
		BodyLimit: 10 * 1024 * 1024, // room for contact images
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000",
		AllowCredentials: true,
	}))

	// Setup routes
	routes.SetupRoutes(app)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
