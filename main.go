package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spacjobs/jobfeedworker/config"
	"spacjobs/jobfeedworker/internal/scraper"
	"spacjobs/jobfeedworker/logger"
	"spacjobs/jobfeedworker/services/cache"
	"spacjobs/jobfeedworker/services/publisher"
	"spacjobs/jobfeedworker/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	output := flag.String("output", "", "path to write the JSON snapshot (overrides JOBFEED_OUTPUT)")
	interval := flag.Int("interval", -1, "seconds between scrapes, 0 runs once (overrides JOBFEED_SCRAPE_INTERVAL_SECONDS)")
	flag.Parse()

	// Load and validate configuration
	cfg := config.LoadConfig()
	if *output != "" {
		cfg.OutputPath = *output
	}
	if *interval >= 0 {
		cfg.ScrapeInterval = time.Duration(*interval) * time.Second
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("list_url", cfg.ListURL).
		Str("output", cfg.OutputPath).
		Dur("scrape_interval", cfg.ScrapeInterval).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services := initializeServices(ctx, &cfg)
	defer services.Cleanup()

	// Create the board scraper
	boardScraper := scraper.CreateScraper(&cfg, services.Cache)

	// Create and start worker
	w := worker.NewWorker(
		ctx,
		boardScraper,
		services.Publisher,
		cfg.OutputPath,
		cfg.ScrapeInterval,
	)

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting job feed worker")
		workerDone <- w.Start()
	}()

	// Wait for shutdown signal or worker completion
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-workerDone
	case err := <-workerDone:
		if err != nil {
			log.Error().Err(err).Msg("Worker exited with error")
			services.Cleanup()
			os.Exit(1)
		}
		log.Info().Msg("Worker exited normally")
	}

	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
		s.Publisher = nil
	}
}

// initializeServices initializes the cache and the optional publisher
func initializeServices(ctx context.Context, cfg *config.Config) *Services {
	services := &Services{}

	// Rate-limit block cache: memcache when configured, in-process otherwise
	if cfg.MemcacheAddr != "" {
		services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	} else {
		services.Cache = cache.NewMemoryService()
	}

	// New-posting publisher is optional
	if cfg.RedisAddr != "" {
		services.Publisher = publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	return services
}
