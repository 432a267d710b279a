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
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-store-go/connectors/wehttp"
	"github.com/weegigs/wee-store-go/samples/app"
	"github.com/weegigs/wee-store-go/support"
	"github.com/weegigs/wee-store-go/we"
)

type injector = func(ctx context.Context, config support.Config) (*app.App, func(), error)

func injectorFor(journal string) injector {
	switch journal {
	case support.DynamoJournal:
		return live
	case support.LocalJournal:
		return local
	default:
		return memory
	}
}

func run(ctx context.Context, config support.Config) error {
	shutdownTracing, err := we.InstallTracing(ctx, config.Telemetry.Settings())
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to flush traces")
		}
	}()

	application, cleanup, err := injectorFor(config.Journal)(ctx, config)
	if err != nil {
		return err
	}
	defer cleanup()

	server := &http.Server{
		Addr:    config.Address,
		Handler: withLogging(wehttp.NewHandler[app.State](application, application.Decoders())),
	}

	failed := make(chan error, 1)
	go func() {
		log.Info().Str("address", config.Address).Str("journal", config.Journal).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
		close(failed)
	}()

	select {
	case err := <-failed:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	stop, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return server.Shutdown(stop)
}

func main() {
	config, err := support.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("level", config.LogLevel).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
