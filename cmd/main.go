package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"fluxtrade/internal/auth"
	"fluxtrade/internal/config"
	"fluxtrade/internal/database"
	"fluxtrade/internal/handlers"
	"fluxtrade/internal/jobs"
	"fluxtrade/internal/middleware"
	"fluxtrade/internal/payments"
	"fluxtrade/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Shared token revocation when Redis is configured, in-process otherwise
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer client.Close()
		auth.UseRevocationStore(auth.NewRedisRevocationStore(client))
		log.Println("Token revocation backed by Redis")
	}

	db := database.GetDB()

	var gateway services.PaymentGateway
	if cfg.Stripe.SecretKey != "" {
		gateway = payments.NewStripeClient(payments.StripeConfig{
			SecretKey:  cfg.Stripe.SecretKey,
			BaseURL:    cfg.Stripe.BaseURL,
			Currency:   cfg.Stripe.Currency,
			SuccessURL: cfg.Stripe.SuccessURL,
			CancelURL:  cfg.Stripe.CancelURL,
		})
	} else {
		log.Println("STRIPE_SECRET_KEY not set, card checkout disabled")
	}

	// Initialize services
	referralService := services.NewReferralService(db)
	adminService := services.NewAdminService(db, services.AdminCredentials{
		Username: cfg.Admin.Username,
		Password: cfg.Admin.Password,
	})
	svc := handlers.Services{
		Users: services.NewUserService(db, referralService, services.AdminBootstrap{
			Enabled: cfg.Admin.BootstrapEnabled,
			Secret:  cfg.Admin.BootstrapSecret,
		}),
		Referrals: referralService,
		Listings:  services.NewListingService(db),
		Reviews:   services.NewReviewService(db),
		Forum:     services.NewForumService(db),
		Checkout:  services.NewCheckoutService(db, gateway),
		Admin:     adminService,
	}

	if cfg.Admin.BootstrapEnabled {
		log.Println("WARNING: admin bootstrap route is enabled")
	}

	// Refresh platform stats every hour
	statsJob := jobs.NewStatsJob(adminService)
	if err := statsJob.Start(time.Hour); err != nil {
		log.Fatalf("Failed to schedule stats job: %v", err)
	}
	defer statsJob.Stop()

	credentialLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	defer credentialLimiter.Stop()

	// Set up Gin router
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handlers.RegisterRoutes(router, svc, handlers.RouteOptions{
		EnableAdminBootstrap: cfg.Admin.BootstrapEnabled,
		CredentialLimiter:    credentialLimiter.Middleware(),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
