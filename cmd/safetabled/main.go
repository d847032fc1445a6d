// Command safetabled is the SafeTable HTTP service. It serves the hygiene,
// trust-score, compare and recommend endpoints plus health and metrics.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/safetable/safetable/internal/api"
	"github.com/safetable/safetable/internal/logger"
	"github.com/safetable/safetable/internal/wiring"
	"github.com/safetable/safetable/pkg/config"
)

const shutdownTimeout = 10 * time.Second

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		bootLog := logger.New("safetabled", "info")
		bootLog.Fatal().Err(err).Msg("load environment")
	}
	log := logger.New("safetabled", env.LogLevel)

	cfg := config.DefaultConfig()
	if env.ConfigPath != "" {
		if cfg, err = config.Load(env.ConfigPath); err != nil {
			log.Fatal().Err(err).Str("path", env.ConfigPath).Msg("load config")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := wiring.Build(ctx, cfg, env, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build service")
	}
	defer app.Close()

	if len(env.APIKeys) == 0 {
		log.Warn().Msg("SAFETABLE_API_KEYS not set, /v1 endpoints are unauthenticated")
	}

	srv := &http.Server{
		Addr:              env.HTTPAddr(),
		Handler:           api.NewHandler(app.Service, app.Health, log).Routes(env.APIKeys),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting safetabled")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error().Err(err).Msg("listen")
		app.Close()
		os.Exit(1)
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
