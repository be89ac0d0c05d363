package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ViniDeiro/rpx-sub004/handlers"
	"github.com/ViniDeiro/rpx-sub004/middleware"
	"github.com/ViniDeiro/rpx-sub004/models"
	"github.com/ViniDeiro/rpx-sub004/services"
	"github.com/ViniDeiro/rpx-sub004/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New()

	// Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID, X-User-ID, X-User-Roles, X-Service-Token",
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Match{},
		&models.MatchParticipant{},
		&models.Bet{},
		&models.Transaction{},
		&models.PlayerAccount{},
		&models.AuditLog{},
		&models.Notification{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	feeRate := 0.10
	if raw := os.Getenv("PLATFORM_FEE_RATE"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed >= 1 {
			log.Fatalf("invalid PLATFORM_FEE_RATE %q", raw)
		}
		feeRate = parsed
	}

	notifier := services.NewNotifier(db)
	rankService := services.NewRankService(db, notifier)
	settlementService := services.NewSettlementService(db, feeRate, rankService, notifier)
	betService := services.NewBetService(db, notifier)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifyClient := workers.NewNotificationClient(db)
	go workers.PollNotifications(ctx, notifyClient, 10*time.Second)

	rankService.StartTierRefreshScheduler()

	handlers.SetupSettlementRoutes(app, settlementService)
	handlers.SetupBetRoutes(app, betService, rankService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Notification dispatch polling running (every 10s)")
	log.Println("✅ Top tier refresh scheduled (every 5m)")
	log.Printf("✅ Platform fee rate: %.2f", feeRate)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
