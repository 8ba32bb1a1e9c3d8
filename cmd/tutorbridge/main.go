package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/studyloop/tutorbridge/pkg/config"
	"github.com/studyloop/tutorbridge/pkg/httpapi"
	"github.com/studyloop/tutorbridge/pkg/search"
	"github.com/studyloop/tutorbridge/pkg/store"
	"github.com/studyloop/tutorbridge/pkg/tutor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	ctx := context.Background()

	db, err := store.Open(ctx, cfg.Store, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	model, err := tutor.NewModelClient(cfg.Model, log)
	if err != nil {
		return fmt.Errorf("model client: %w", err)
	}

	searchSvc := search.NewService(&cfg.Search, log)
	router := tutor.NewRouter(model, log)
	persona := cfg.Model.SystemPrompt
	if persona == "" {
		persona = tutor.DefaultPersonaPrompt
	}
	chatSvc := tutor.NewService(model, router, searchSvc, persona, log)

	api := httpapi.NewService(cfg.HTTP, chatSvc, searchSvc, db, log)

	errCh := make(chan error, 1)
	go func() {
		if err := api.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}
	return api.Stop()
}
