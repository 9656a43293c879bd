package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pasar/internal/config"
	"pasar/internal/handlers"
	"pasar/internal/middleware"
	"pasar/internal/models"
	"pasar/internal/notify"
	"pasar/internal/policy"
	"pasar/internal/repositories"
	"pasar/internal/services"
	"pasar/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Database ---
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.DownloadLink{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ ---
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
	}
	defer mqClient.Close() // Ensure the connection is closed on exit
	dispatcher := notify.NewAMQPDispatcher(mqClient)

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(cartRepo, productService)
	checkoutService := services.NewCheckoutService(cartRepo, orderRepo, dispatcher)
	orderService := services.NewOrderService(orderRepo, dispatcher)

	// --- Policy & Handlers ---
	accessPolicy := policy.New()
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(authService, accessPolicy)
	productHandler := handlers.NewProductHandler(productService, accessPolicy)
	cartHandler := handlers.NewCartHandler(cartService, checkoutService)
	orderHandler := handlers.NewOrderHandler(orderService, accessPolicy)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New()) // Request logger

	apiV1 := app.Group("/api/v1")

	// Authentication routes (public)
	authHandler.RegisterRoutes(apiV1)

	// Protected routes (require JWT authentication)
	protected := apiV1.Group("", middleware.AuthRequired(authService))
	userHandler.RegisterRoutes(protected)
	productHandler.RegisterRoutes(protected)
	cartHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Notification Consumer ---
	// Drains the notification queue and hands each event to the mailer
	// side. The templated message rendering itself lives outside this
	// service; here we log the event being handled.
	go func() {
		log.Println("Starting notification consumer...")
		messageHandler := func(msg amqp.Delivery) error {
			var envelope notify.Envelope
			if err := json.Unmarshal(msg.Body, &envelope); err != nil {
				log.Printf("Dropping malformed notification (tag %d): %v", msg.DeliveryTag, err)
				return nil // Acknowledge so the poison message is not requeued forever
			}
			log.Printf("Notification %s for user %s (%d orders)", envelope.Kind, envelope.UserID, len(envelope.Orders))
			return nil
		}
		if consumerErr := mqClient.Consume(messageHandler); consumerErr != nil {
			log.Printf("Failed to start notification consumer: %v", consumerErr)
		}
	}()

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	// Close RabbitMQ connection is handled by defer in main
	log.Println("Server gracefully stopped")
}
