package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/bot"
	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/config"
	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/health"
	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/scheduler"
	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/storage"
	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/store"

	"github.com/joho/godotenv"
)

func newBackend(cfg *config.Config) (storage.Backend, error) {
	if cfg.Storage.Driver == "postgres" {
		return storage.NewPostgresBackend(cfg.Storage.Postgres)
	}
	return storage.NewFileBackend(cfg.Storage.Dir)
}

func main() {
	log.Println("Starting event reminder bot...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	backend, err := newBackend(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	events := store.NewEventStore(backend)
	events.Load(context.Background())
	settings := store.NewSettings(backend)
	settings.Load(context.Background())
	tips := store.NewTipStore(backend)
	tips.Load(context.Background())

	discordBot, err := bot.New(cfg, events, settings, tips)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	engine := scheduler.New(events, settings, tips, discordBot)
	discordBot.AttachEngine(engine)

	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		s := <-signals
		log.Printf("Received signal: %v", s)
		cancel()
	}()

	health.New(cfg.Health.Addr).Start(ctx)

	if err := engine.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	go func() {
		if err := discordBot.Start(ctx); err != nil {
			log.Printf("Error running bot: %v", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Println("Shutdown signal received")

	engine.Stop()
	if err := discordBot.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Application shutdown complete")
}
