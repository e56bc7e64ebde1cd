package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/RobBrazier/bookshelf/config"
	"github.com/RobBrazier/bookshelf/internal/logger"
	"github.com/RobBrazier/bookshelf/internal/server"
	"github.com/RobBrazier/bookshelf/internal/version"
)

func gracefulShutdown(srv *http.Server, done chan<- struct{}) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info().Msg("shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	close(done)
}

func main() {
	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Setup(os.Stdout)

	srv, err := server.NewServer()
	if err != nil {
		log.Fatal().Err(err).Msg("could not create server")
	}

	done := make(chan struct{})
	go gracefulShutdown(srv, done)

	log.Info().Str("addr", srv.Addr).Str("version", version.Version).Msg("Starting bookshelf")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server error")
	}
	<-done
	log.Info().Msg("Graceful shutdown complete")
}
