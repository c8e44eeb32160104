package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/coursebank/backend/docs"
	"github.com/coursebank/backend/internal/audit"
	"github.com/coursebank/backend/internal/config"
	"github.com/coursebank/backend/internal/database"
	"github.com/coursebank/backend/internal/events"
	"github.com/coursebank/backend/internal/handlers"
	mW "github.com/coursebank/backend/internal/middleware"
	"github.com/coursebank/backend/internal/repository/postgres"
	"github.com/coursebank/backend/internal/secrets"
	"github.com/coursebank/backend/internal/services"
)

// @title Course Escrow Backend API
// @version 1.0
// @description Course marketplace with escrowed enrollment payments
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	// Initialize Swagger docs
	docs.SwaggerInfo.Title = "Course Escrow Backend API"
	docs.SwaggerInfo.Description = "Course marketplace with escrowed enrollment payments"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = swaggerHost(cfg.PublicBaseURL)
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	// Initialize storage
	db, err := database.InitDB(startupCtx, database.GetConfig())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := database.InitRedis(startupCtx)
	if redisClient != nil {
		defer redisClient.Close()
	}

	store := postgres.New(db)
	hasher := secrets.NewHasher(cfg.Argon2)
	publisher := events.NewPublisher(redisClient, "")

	// Initialize services
	ledgerService := services.NewLedgerService(store, hasher, audit.NewLogger())
	escrowService := services.NewEscrowService(store, ledgerService, audit.NewLogger())
	courseService := services.NewCourseService(store, escrowService, publisher, cfg.Platform.FeeRate)
	enrollmentService := services.NewEnrollmentService(store, escrowService, publisher)
	accessService := services.NewAccessService(store)
	progressService := services.NewProgressService(store, publisher)
	certificateService := services.NewCertificateService(store, cfg.PublicBaseURL)
	authService := services.NewAuthService(store, redisClient, hasher, cfg.JWT.SecretKey, cfg.JWT.Expiry)

	if _, err := ledgerService.EnsurePlatformAccount(startupCtx, cfg.Platform.FeeAccountNumber, cfg.Platform.FeeAccountSecret); err != nil {
		log.Fatalf("Failed to set up platform fee account: %v", err)
	}
	if err := authService.EnsureAdmin(startupCtx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatalf("Failed to bootstrap admin user: %v", err)
	}

	api := &handlers.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Bank:        handlers.NewBankHandler(ledgerService),
		Course:      handlers.NewCourseHandler(courseService, accessService),
		Enrollment:  handlers.NewEnrollmentHandler(enrollmentService, progressService),
		Certificate: handlers.NewCertificateHandler(certificateService),
		Admin:       handlers.NewAdminHandler(courseService),
	}
	auth := mW.NewAuth(cfg.JWT.SecretKey, redisClient)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "healthy", "database": "up", "redis": "disabled"}
		if err := db.PingContext(r.Context()); err != nil {
			status["status"], status["database"] = "degraded", "down"
		}
		if redisClient != nil {
			status["redis"] = "up"
			if err := redisClient.Ping(r.Context()).Err(); err != nil {
				status["redis"] = "down"
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(strings.TrimSuffix(cfg.PublicBaseURL, "/")+"/swagger/doc.json"),
	))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		api.Mount(r, auth.Middleware)
	})

	// Start server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}

// swaggerHost is the host:port part of the public base URL.
func swaggerHost(publicBaseURL string) string {
	u, err := url.Parse(publicBaseURL)
	if err != nil || u.Host == "" {
		return "localhost:8080"
	}
	return u.Host
}
