package main

import (
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"blogapp/internal/config"
	"blogapp/internal/handlers"
	"blogapp/internal/middleware"
	"blogapp/internal/models"
	"blogapp/internal/pictures"
	"blogapp/internal/repositories"
	"blogapp/internal/services"
	"blogapp/internal/session"
	"blogapp/pkg/mailer"
	"blogapp/views"
)

func main() {
	cfg := config.Load()
	if cfg.SecretKey == "" {
		log.Fatal("SECRET_KEY must be set")
	}

	// --- Database ---
	db, err := openDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Post{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Mail delivery ---
	smtpMailer := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Server:   cfg.MailServer,
		Port:     cfg.MailPort,
		Username: cfg.MailUsername,
		Password: cfg.MailPassword,
		Sender:   cfg.MailSender,
	})

	// With a broker configured, reset mail goes through the queue and a
	// consumer goroutine performs the SMTP send; otherwise handlers send
	// synchronously.
	var resetMailer services.Mailer = smtpMailer
	if cfg.RabbitMQURL != "" {
		queueClient, err := mailer.NewQueueClient(cfg.RabbitMQURL)
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer queueClient.Close()
		resetMailer = mailer.NewQueueMailer(queueClient)

		go func() {
			log.Println("Starting mail queue consumer...")
			if err := queueClient.ConsumeMailJobs(smtpMailer.Deliver); err != nil {
				log.Printf("Mail consumer stopped: %v", err)
			}
		}()
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	postRepo := repositories.NewGORMPostRepository(db)

	// --- Services ---
	pictureStore, err := pictures.NewStore(filepath.Join(cfg.StaticDir, "profile_pics"))
	if err != nil {
		log.Fatalf("Failed to initialize picture store: %v", err)
	}
	authService := services.NewAuthService(userRepo, resetMailer, cfg.SecretKey)
	postService := services.NewPostService(postRepo, userRepo)
	accountService := services.NewAccountService(userRepo, pictureStore)

	// --- Sessions and handlers ---
	sessions := session.NewManager()
	authHandler := handlers.NewAuthHandler(authService, sessions, cfg.BaseURL)
	postHandler := handlers.NewPostHandler(postService, sessions)
	accountHandler := handlers.NewAccountHandler(accountService, sessions)

	// --- Fiber app ---
	app := fiber.New(fiber.Config{
		Views:        views.NewEngine(),
		ViewsLayout:  "layouts/main",
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(logger.New())
	app.Use(middleware.LoadUser(sessions, userRepo))
	app.Static("/static", cfg.StaticDir)

	guard := middleware.LoginRequired(sessions)
	authHandler.RegisterRoutes(app)
	postHandler.RegisterRoutes(app, guard)
	accountHandler.RegisterRoutes(app, guard)

	// --- Start HTTP server with graceful shutdown ---
	log.Printf("Starting server on %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// openDatabase picks the GORM driver from the URL: postgres for postgres://
// URLs, sqlite for anything else (a file path, or :memory: for tests).
func openDatabase(url string) (*gorm.DB, error) {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return gorm.Open(postgres.Open(url), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(url), &gorm.Config{})
}
