package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"bookeasy/internal/app"
	"bookeasy/internal/config"
	"bookeasy/internal/database"
	"bookeasy/internal/domain/session"
	"bookeasy/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, app.Models()...); err != nil {
		return err
	}

	broker, err := newBroker(cfg, log)
	if err != nil {
		return err
	}
	defer broker.Close()

	auth, err := app.NewAuth(ctx, cfg)
	if err != nil {
		return err
	}

	srv := app.New(cfg, db, broker, auth, log)
	if err := srv.Sessions.Start(ctx); err != nil {
		return err
	}
	defer srv.Sessions.Close()

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", httpSrv.Addr).
			Str("env", cfg.AppEnv).
			Str("auth_mode", cfg.AuthMode).
			Bool("prevent_overlap", cfg.PreventOverlap).
			Msg("listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// newBroker fans session events through Redis when REDIS_URL is set so
// every instance sees them; otherwise events stay in process.
func newBroker(cfg *config.Config, log zerolog.Logger) (session.Broker, error) {
	if cfg.RedisURL == "" {
		return session.NewMemoryBroker(), nil
	}
	client, err := session.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	return session.NewRedisBroker(client, "", log), nil
}
