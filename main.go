package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lapak/internal/config"
	"lapak/internal/handlers"
	"lapak/internal/middleware"
	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"
	"lapak/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	// --- Database ---
	db, err := openDatabase(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Basket{},
		&models.BasketItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ ---
	// The broker is optional: without it the API still serves requests,
	// it just skips event publication.
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Printf("Warning: RabbitMQ unavailable, events disabled: %v", err)
		mqClient = nil
	} else {
		defer mqClient.Close()
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	basketRepo := repositories.NewGORMBasketRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	// --- Services ---
	tokenService := services.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret)
	authService := services.NewAuthService(userRepo, tokenService)
	userService := services.NewUserService(userRepo, tokenService)
	productService := services.NewProductService(productRepo)
	basketService := services.NewBasketService(basketRepo, productRepo, userRepo, mqClient)
	orderService := services.NewOrderService(orderRepo, productRepo, mqClient)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	basketHandler := handlers.NewBasketHandler(basketService)
	orderHandler := handlers.NewOrderHandler(orderService)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New()) // Request logger

	// The route paths are compatibility-critical, so everything mounts at
	// the root rather than under a versioned prefix.
	auth := middleware.AuthRequired(tokenService)
	admin := middleware.AdminRequired()

	authHandler.RegisterRoutes(app)
	userHandler.RegisterRoutes(app, auth, admin)
	productHandler.RegisterRoutes(app, auth, admin)
	basketHandler.RegisterRoutes(app, auth)
	orderHandler.RegisterRoutes(app, auth, admin)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Event Worker ---
	if mqClient != nil {
		log.Println("Starting shop event consumer...")
		messageHandler := func(msg amqp.Delivery) error {
			log.Printf("Received %s event (Tag: %d): %s", msg.RoutingKey, msg.DeliveryTag, string(msg.Body))
			return nil // Return nil to acknowledge
		}
		if consumerErr := mqClient.ConsumeEvents(messageHandler); consumerErr != nil {
			log.Printf("Failed to start shop event consumer: %v", consumerErr)
		}
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

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
	log.Println("Server gracefully stopped")
}

// openDatabase picks the driver from the DSN shape: anything that looks
// like a PostgreSQL connection string uses the postgres driver, everything
// else is treated as a SQLite file path.
func openDatabase(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}
	if strings.HasPrefix(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		return gorm.Open(postgres.Open(dsn), cfg)
	}
	return gorm.Open(sqlite.Open(dsn), cfg)
}
