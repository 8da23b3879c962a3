package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"voice-of-rajkot/internal/analytics"
	analytics_api "voice-of-rajkot/internal/analytics/api"
	"voice-of-rajkot/internal/auth"
	"voice-of-rajkot/internal/bookings"
	"voice-of-rajkot/internal/bookings/booking_api"
	booking_db "voice-of-rajkot/internal/bookings/db"
	rediswrap "voice-of-rajkot/internal/bookings/redis"
	"voice-of-rajkot/internal/config"
	"voice-of-rajkot/internal/database/migrations"
	"voice-of-rajkot/internal/events"
	event_db "voice-of-rajkot/internal/events/db"
	"voice-of-rajkot/internal/events/event_api"
	"voice-of-rajkot/internal/kafka"
	"voice-of-rajkot/internal/logger"
	"voice-of-rajkot/internal/mailer"
	"voice-of-rajkot/internal/posts"
	post_db "voice-of-rajkot/internal/posts/db"
	"voice-of-rajkot/internal/posts/post_api"
	"voice-of-rajkot/internal/tickets"
	"voice-of-rajkot/internal/users"
	user_db "voice-of-rajkot/internal/users/db"
	"voice-of-rajkot/internal/users/user_api"
)

func connectPostgres(cfg *config.Config, log *logger.Logger) *bun.DB {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			log.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	log.Info("DATABASE", "✅ PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New())
}

func connectRedis(ctx context.Context, cfg *config.Config, log *logger.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Redis.Addr))
	return client
}

func setupKafka(cfg *config.Config, log *logger.Logger) *kafka.Producer {
	if !cfg.Kafka.Enabled {
		log.Warn("KAFKA", "Kafka disabled, booking and post events will not be streamed")
		return nil
	}

	log.Info("KAFKA", fmt.Sprintf("Using Kafka brokers: %v", cfg.Kafka.Brokers))
	producer := kafka.NewProducer(cfg.Kafka.Brokers)

	requiredTopics := []string{
		cfg.Kafka.Topics.BookingCreated,
		cfg.Kafka.Topics.BookingCancelled,
		cfg.Kafka.Topics.PaymentStatus,
		cfg.Kafka.Topics.PostCreated,
	}
	if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, requiredTopics); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	} else {
		log.Info("KAFKA", "Required topics ensured successfully")
	}
	return producer
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting Voice of Rajkot backend initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("CONFIG", "JWT_SECRET not set")
	}

	for _, dir := range []string{cfg.Uploads.ScreenshotsDir, cfg.Uploads.CodesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal("CONFIG", fmt.Sprintf("Failed to create upload directory %s: %v", dir, err))
		}
	}

	ctx := context.Background()

	log.Info("APP", "Verifying database connections")
	bunDB := connectPostgres(cfg, log)
	defer bunDB.Close()

	redisClient := connectRedis(ctx, cfg, log)
	defer redisClient.Close()

	runner := migrations.NewRunner(bunDB, migrations.DefaultOptions())
	if err := runner.RunMigrations(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
	}
	log.Info("DATABASE", "✅ Migrations applied")

	kafkaProducer := setupKafka(cfg, log)
	if kafkaProducer != nil {
		defer kafkaProducer.Close()
	}

	resetMailer := mailer.New(cfg.Email.ResendAPIKey, cfg.Email.FromAddress, log)
	qrGen := tickets.NewQRGenerator(cfg.Auth.JWTSecret, cfg.Uploads.CodesDir)

	userService := users.NewUserService(
		&user_db.DB{Bun: bunDB},
		resetMailer,
		func(userID string, isPerformer, isAdmin bool) (string, error) {
			return auth.IssueToken(cfg.Auth.JWTSecret, userID, isPerformer, isAdmin, cfg.Auth.TokenTTL)
		},
	)
	eventService := events.NewEventService(&event_db.DB{Bun: bunDB})
	postService := posts.NewPostService(
		&post_db.DB{Bun: bunDB},
		postPublisher(kafkaProducer),
		cfg.Kafka.Topics.PostCreated,
	)
	bookingService := bookings.NewBookingService(
		&booking_db.DB{Bun: bunDB},
		rediswrap.NewRedis(redisClient),
		bookings.NewPublisher(kafkaProducer, cfg.Kafka.Topics),
		qrGen,
	)
	analyticsService := analytics.NewService(bunDB)

	userHandler := &user_api.Handler{UserService: userService, Logger: log}
	eventHandler := &event_api.Handler{EventService: eventService, Logger: log}
	postHandler := &post_api.Handler{PostService: postService, Logger: log}
	bookingHandler := &booking_api.Handler{
		BookingService: bookingService,
		Logger:         log,
		ScreenshotsDir: cfg.Uploads.ScreenshotsDir,
		MaxUploadBytes: cfg.Uploads.MaxUploadBytes,
	}
	analyticsHandler := analytics_api.NewHandler(analyticsService, log)

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	// --- Public Routes ---
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
		r.Post("/password-reset/request", userHandler.RequestPasswordReset)
		r.Post("/password-reset/verify", userHandler.VerifyPasswordReset)
		r.Post("/password-reset/confirm", userHandler.ConfirmPasswordReset)
	})
	log.Info("ROUTER", "Auth routes registered under /api/auth")

	r.Get("/api/events", eventHandler.ListEvents)
	r.Get("/api/events/{eventId}", eventHandler.GetEvent)
	r.Get("/api/performers", userHandler.ListPerformers)
	r.Get("/api/performers/{performerId}/events", eventHandler.ListEventsByPerformer)
	r.Get("/api/posts", postHandler.ListPosts)
	r.Get("/api/posts/{postId}", postHandler.GetPost)
	r.Get("/api/posts/tag/{tag}", postHandler.ListPostsByTag)
	r.Get("/api/posts/author/{authorId}", postHandler.ListPostsByAuthor)
	log.Info("ROUTER", "Public event and post routes registered")

	fileServer := http.StripPrefix("/public/", http.FileServer(http.Dir(cfg.Uploads.PublicDir)))
	r.Get("/public/*", fileServer.ServeHTTP)
	log.Info("ROUTER", "Static files served from /public")

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth.JWTSecret))
		log.Info("AUTH", "JWT middleware applied to protected API routes")

		r.Route("/api/users", func(r chi.Router) {
			r.Get("/me", userHandler.GetProfile)
			r.Put("/me", userHandler.UpdateProfile)
			r.Post("/me/onboard", userHandler.Onboard)
			r.With(auth.RequireAdmin).Get("/", userHandler.ListUsers)
		})
		log.Info("ROUTER", "User routes registered under /api/users")

		r.Post("/api/events", eventHandler.CreateEvent)
		r.Put("/api/events/{eventId}", eventHandler.UpdateEvent)
		r.Delete("/api/events/{eventId}", eventHandler.DeleteEvent)
		r.With(auth.RequireAdmin).Post("/api/events/{eventId}/performers", eventHandler.AttachPerformer)
		log.Info("ROUTER", "Event management routes registered under /api/events")

		r.Route("/api/bookings", func(r chi.Router) {
			r.Post("/", bookingHandler.CreateBooking)
			r.Get("/me", bookingHandler.ListMyBookings)
			r.Get("/{bookingId}", bookingHandler.GetBooking)
			r.Delete("/{bookingId}", bookingHandler.CancelBooking)
			r.Post("/{bookingId}/payment-screenshot", bookingHandler.UploadPaymentScreenshot)
			r.With(auth.RequireAdmin).Get("/", bookingHandler.ListBookings)
			r.Get("/event/{eventId}", bookingHandler.ListBookingsByEvent)
			r.With(auth.RequireAdmin).Put("/{bookingId}/payment-status", bookingHandler.SetPaymentStatus)
		})
		log.Info("ROUTER", "Booking routes registered under /api/bookings")

		r.With(auth.RequirePerformer).Post("/api/posts", postHandler.CreatePost)
		r.Put("/api/posts/{postId}", postHandler.UpdatePost)
		r.Delete("/api/posts/{postId}", postHandler.DeletePost)
		r.Post("/api/posts/{postId}/like", postHandler.ToggleLike)
		log.Info("ROUTER", "Post management routes registered under /api/posts")

		r.Route("/api/admin", func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			analyticsHandler.RegisterRoutes(r)
		})
		log.Info("ROUTER", "Analytics routes registered under /api/admin/analytics")
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 Voice of Rajkot backend running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "✅ Voice of Rajkot backend shutdown complete")
	}
}

// postPublisher keeps the post service's publisher interface nil when
// Kafka is disabled so publishing is skipped entirely.
func postPublisher(producer *kafka.Producer) posts.PostPublisher {
	if producer == nil {
		return nil
	}
	return producer
}
