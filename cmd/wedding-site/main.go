package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wedding-site/internal/cache"
	"wedding-site/internal/config"
	"wedding-site/internal/handler"
	"wedding-site/internal/journey"
	"wedding-site/internal/logging"
	"wedding-site/internal/mail"
	"wedding-site/internal/media"
	"wedding-site/internal/metrics"
	"wedding-site/internal/photos"
	"wedding-site/internal/rsvp"
	"wedding-site/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	log.Info().Str("bride", cfg.Wedding.BrideName).Str("groom", cfg.Wedding.GroomName).Msg("Starting wedding site")

	db, err := storage.Open(storage.Options{Type: cfg.Database.Type, DSN: cfg.Database.URL})
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	defer sqlDB.Close()

	rsvps := storage.NewRSVPStore(db)
	photoStore := storage.NewPhotoStore(db)
	party := storage.NewPartyStore(db)
	locations := storage.NewLocationStore(db)

	m := metrics.New()
	urls := media.NewURLBuilder(cfg.Media)

	// nil interfaces mean the media host is unavailable; services degrade to empty lists
	var uploader media.Uploader
	var lister media.Lister
	if cfg.Media.Configured() {
		client := media.NewClient(cfg.Media, log)
		uploader, lister = client, client
		if cfg.Redis.Addr != "" {
			rdb := cache.NewRedisClient(cache.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
			defer rdb.Close()
			lister = media.NewCachedLister(client, cache.NewRedisKV(rdb), cfg.Media.CacheTTL, log)
			log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Media.CacheTTL).Msg("Media listing cache enabled")
		}
	} else {
		log.Warn().Msg("Media host not configured: photo uploads and galleries are disabled")
	}

	mailer := mail.NewService(cfg.Mail, log)

	h, err := handler.New(handler.Deps{
		Wedding:       cfg.Wedding,
		Admin:         cfg.Admin,
		MaxUploadSize: cfg.Compression.MaxUploadSize,
		RSVP:          rsvp.NewService(rsvps, mailer, m, log),
		Photos:        photos.NewService(photoStore, uploader, lister, urls, m, log),
		Journey:       journey.NewService(locations, lister, urls, log),
		RSVPs:         rsvps,
		Party:         party,
		Locations:     locations,
		Metrics:       m,
		Log:           log,
	})
	if err != nil {
		return err
	}
	app := handler.NewApp(h)

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		log.Info().Str("addr", addr).Msg("Listening")
		errCh <- app.Listen(addr)
	}()

	// Wait for interrupt signal
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-c:
	}

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(ctx)
}
