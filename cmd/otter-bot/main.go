package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/glebk/otter-bot/internal/bot"
	"github.com/glebk/otter-bot/internal/config"
	"github.com/glebk/otter-bot/internal/hobby"
	"github.com/glebk/otter-bot/internal/reminder"
	"github.com/glebk/otter-bot/internal/repository/sqlite"
	"github.com/glebk/otter-bot/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database initialized at: %s", cfg.DatabasePath)

	// Initialize repositories
	friendshipRepo := sqlite.NewFriendshipRepository(db)
	userRepo := sqlite.NewUserRepository(db, friendshipRepo)
	hobbyRepo := sqlite.NewHobbyRepository(db)

	catalog, err := hobby.DefaultCatalog()
	if err != nil {
		log.Fatalf("Failed to load hobby catalog: %v", err)
	}
	if err := hobbyRepo.Seed(catalog); err != nil {
		log.Fatalf("Failed to seed hobbies: %v", err)
	}

	api, err := bot.Connect(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("Failed to initialize bot: %v", err)
	}

	var membership service.MembershipChecker
	if cfg.RevivalEnabled() {
		membership = bot.NewChannelMembership(api, cfg.RequiredChannel)
	}

	// Initialize service
	otterService := service.NewOtterService(service.Repositories{
		Users:       userRepo,
		Friendships: friendshipRepo,
		Hobbies:     hobbyRepo,
		Coop:        sqlite.NewCoopSessionRepository(db),
		Stats:       sqlite.NewStatsRepository(db),
	}, membership, cfg.Location())

	telegramBot := bot.New(api, otterService, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := reminder.NewScheduler(userRepo, telegramBot, otterService, cfg.ReminderInterval, cfg.Location())
	go scheduler.Run(ctx)

	// Handle graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start bot in goroutine
	go func() {
		log.Println("Bot started. Press Ctrl+C to stop.")
		if err := telegramBot.Start(); err != nil {
			log.Fatalf("Bot stopped with error: %v", err)
		}
	}()

	// Wait for stop signal
	<-stop
	log.Println("Shutting down gracefully...")
	cancel()
	telegramBot.Stop()
}
