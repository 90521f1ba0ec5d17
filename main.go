package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"musiccatalog/internal/handlers"
	"musiccatalog/internal/middleware"
	"musiccatalog/internal/models"
	"musiccatalog/internal/repositories"
	"musiccatalog/internal/services"
	"musiccatalog/pkg/objectstore"
	"musiccatalog/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("JWT_SECRET", "SUPER_SECRET_KEY")
	viper.SetDefault("JWT_ISSUER", "musiccatalog")
	viper.SetDefault("JWT_AUDIENCE", "musiccatalog.api")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("S3_ENDPOINT", "")
	viper.SetDefault("S3_ACCESS_KEY", "")
	viper.SetDefault("S3_SECRET_KEY", "")
	viper.SetDefault("S3_BUCKET", "musiccatalog")
	viper.SetDefault("S3_USE_SSL", false)
	viper.SetDefault("S3_PUBLIC_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Repositories ---
	// A relational database is the primary storage; without a DSN the
	// in-memory repositories keep the API usable for local development.
	var (
		userRepo   repositories.UserRepository
		artistRepo repositories.ArtistRepository
		albumRepo  repositories.AlbumRepository
		trackRepo  repositories.TrackRepository
	)
	if dsn := viper.GetString("DATABASE_DSN"); dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := db.AutoMigrate(&models.User{}, &models.Artist{}, &models.Album{}, &models.Track{}); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		userRepo = repositories.NewGORMUserRepository(db)
		artistRepo = repositories.NewGORMArtistRepository(db)
		albumRepo = repositories.NewGORMAlbumRepository(db)
		trackRepo = repositories.NewGORMTrackRepository(db)
	} else {
		log.Println("DATABASE_DSN not set, using in-memory repositories")
		memArtists := repositories.NewMemoryArtistRepository()
		memAlbums := repositories.NewMemoryAlbumRepository()
		userRepo = repositories.NewMemoryUserRepository()
		artistRepo = memArtists
		albumRepo = memAlbums
		trackRepo = repositories.NewMemoryTrackRepository(memArtists, memAlbums)
	}

	// --- Object storage (optional) ---
	var store objectstore.ObjectStore
	if endpoint := viper.GetString("S3_ENDPOINT"); endpoint != "" {
		minioStore, err := objectstore.NewMinioStore(objectstore.Config{
			Endpoint:  endpoint,
			AccessKey: viper.GetString("S3_ACCESS_KEY"),
			SecretKey: viper.GetString("S3_SECRET_KEY"),
			Bucket:    viper.GetString("S3_BUCKET"),
			UseSSL:    viper.GetBool("S3_USE_SSL"),
			PublicURL: viper.GetString("S3_PUBLIC_URL"),
		})
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
		store = minioStore
	} else {
		log.Println("S3_ENDPOINT not set, media uploads are disabled")
	}

	// --- RabbitMQ (optional) ---
	var mqClient *rabbitmq.Client
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		var err error
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	} else {
		log.Println("RABBITMQ_URL not set, catalog events are disabled")
	}

	// --- Services ---
	authService := services.NewAuthService(
		userRepo,
		viper.GetString("JWT_SECRET"),
		viper.GetString("JWT_ISSUER"),
		viper.GetString("JWT_AUDIENCE"),
	)
	var publisher services.EventPublisher
	if mqClient != nil {
		publisher = mqClient
	}
	catalogService := services.NewCatalogService(artistRepo, albumRepo, trackRepo, store, publisher)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	artistHandler := handlers.NewArtistHandler(catalogService)
	albumHandler := handlers.NewAlbumHandler(catalogService)
	trackHandler := handlers.NewTrackHandler(catalogService)
	searchHandler := handlers.NewSearchHandler(catalogService)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New()) // Request logger

	apiV1 := app.Group("/api/v1")

	// Public routes: registration, login, reads and search.
	authHandler.RegisterRoutes(apiV1)
	artistHandler.RegisterRoutes(apiV1)
	albumHandler.RegisterRoutes(apiV1)
	trackHandler.RegisterRoutes(apiV1)
	searchHandler.RegisterRoutes(apiV1)

	// Admin routes: every catalog mutation and user administration.
	adminRoutes := apiV1.Group("", middleware.AuthRequired(authService), middleware.AdminRequired())
	artistHandler.RegisterAdminRoutes(adminRoutes)
	albumHandler.RegisterAdminRoutes(adminRoutes)
	trackHandler.RegisterAdminRoutes(adminRoutes)
	authHandler.RegisterAdminRoutes(adminRoutes)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Catalog event consumer ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for catalog events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received catalog event %s: %s", msg.RoutingKey, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeCatalogEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
