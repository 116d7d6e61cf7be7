package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"photo-gallery/internal/config"
	"photo-gallery/internal/http"
	"photo-gallery/internal/upstream"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Missing .env is fine in production; the environment is authoritative.
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	identity := upstream.NewIdentity(cfg.APIURL, cfg.UpstreamTimeout, log)
	storage := upstream.NewStorage(cfg.APIURL, cfg.UpstreamTimeout, log)
	captcha := upstream.NewCaptcha(cfg.CaptchaSecret, cfg.UpstreamTimeout)

	server, err := http.NewServer(cfg, identity, storage, captcha, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build server")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}
}
