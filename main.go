package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"health-to-earn-service/config"
	"health-to-earn-service/handlers"
	"health-to-earn-service/models"
	"health-to-earn-service/services"
	"health-to-earn-service/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Invalid configuration: ", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.UserLink{},
		&models.ActivityReward{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	app := fiber.New()
	app.Use(cors.New())

	provider := services.NewProviderClient(cfg.OAuthURL, cfg.ProviderAPIURL, cfg.ClientID, cfg.ClientSecret)
	linkService := services.NewLinkService(db, provider)
	webhookService := services.NewWebhookService(db, provider, cfg.VerifyToken, cfg.WebhookURL)

	handlers.SetupLinkRoutes(app, linkService)
	handlers.SetupWebhookRoutes(app, webhookService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var bridge services.WalletBridge
	if cfg.HostStoreURL != "" {
		bridge = services.NewHTTPWalletBridge(cfg.HostStoreURL)
	}
	sweeper := workers.NewPayoutSweeper(db, bridge)
	sweepInterval := time.Duration(cfg.SweepIntervalSeconds) * time.Second
	sweeper.StartScheduler(ctx, sweepInterval)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Port)
	log.Printf("✅ Payout sweep running (every %s)", sweepInterval)

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
