package main // Entry point package

import (
	"context"
	"log" // Logging library
	"os"
	"time"

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/lolautruche/StructuraLudis-sub000/internal/config"   // Internal config loader
	"github.com/lolautruche/StructuraLudis-sub000/internal/database" // MySQL connector
	"github.com/lolautruche/StructuraLudis-sub000/internal/handler"
	"github.com/lolautruche/StructuraLudis-sub000/internal/middleware"
	"github.com/lolautruche/StructuraLudis-sub000/internal/queue"
	"github.com/lolautruche/StructuraLudis-sub000/internal/repository"
	"github.com/lolautruche/StructuraLudis-sub000/internal/router" // Internal router setup
	"github.com/lolautruche/StructuraLudis-sub000/internal/scheduling"
	queue_publisher "github.com/lolautruche/StructuraLudis-sub000/internal/service"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the response cache and the rate limiter; a nil client
	// disables both and the API keeps working.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	exhibitions := repository.NewExhibitionRepo(db)
	zones := repository.NewZoneRepo(db)
	slots := repository.NewTimeSlotRepo(db)
	tables := repository.NewTableRepo(db)
	games := repository.NewGameRepo(db)
	sessions := repository.NewSessionRepo(db)
	bookings := repository.NewBookingRepo(db)

	// Scheduling core: transactional store, permission checks and the
	// RabbitMQ notification sink.
	scheduler := scheduling.NewService(
		repository.NewStore(db),
		repository.NewPermissionRepo(db),
		queue_publisher.NewPublisher(os.Getenv("RABBITMQ_URL")),
		scheduling.SystemClock{},
		scheduling.Config{
			GracePeriodMinutes: uint32(cfg.GracePeriodMin),
			TablePrefix:        cfg.TablePrefix,
			BufferMinutes:      uint32(cfg.BufferMin),
		},
	)

	// Handlers
	authH := handler.NewAuthHandler(cfg, users, tokens)
	organizerH := handler.NewOrganizerHandler(exhibitions, zones, slots, tables, games, sessions, scheduler)
	sessionH := handler.NewSessionHandler(scheduler, sessions, bookings)
	playerH := handler.NewPlayerHandler(scheduler, bookings)
	publicH := &handler.PublicHandler{
		ExhibitionRepo: exhibitions,
		ZoneRepo:       zones,
		SlotRepo:       slots,
		GameRepo:       games,
		SessionRepo:    sessions,
	}

	e := echo.New() // Create Echo instance

	// Rate limiting and response caching sit in front of every route.
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e) // health check
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH)
	router.RegisterOrganizer(e, organizerH, cfg.JWTSecret)
	router.RegisterSessions(e, sessionH, cfg.JWTSecret)
	router.RegisterPlayer(e, playerH, cfg.JWTSecret)

	// Background consumer writes notification events to logs/.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	// Periodic auto-cancel sweep across all exhibitions.  The HTTP
	// endpoint triggers the same logic on demand.
	go func() {
		actor := scheduling.Actor{Role: "ORGANIZER"}
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			items, err := exhibitions.ListAll(ctx)
			if err != nil {
				log.Printf("sweep: list exhibitions: %v", err)
				cancel()
				continue
			}
			for _, ex := range items {
				if _, err := scheduler.SweepAutoCancel(ctx, ex.ID, actor); err != nil {
					log.Printf("sweep: exhibition %d: %v", ex.ID, err)
				}
			}
			cancel()
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
