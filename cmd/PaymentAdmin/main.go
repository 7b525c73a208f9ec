package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/sebuszqo/PaymentAdmin/internal/auth"
	"github.com/sebuszqo/PaymentAdmin/internal/config"
	"github.com/sebuszqo/PaymentAdmin/internal/paymentmethods/client"
	"github.com/sebuszqo/PaymentAdmin/internal/paymentmethods/query"
	"github.com/sebuszqo/PaymentAdmin/internal/paymentmethods/web"
)

const adminSubject = "payment-admin"

func tokenSource(cfg config.AdminConfig) (client.TokenSource, error) {
	if cfg.APIToken != "" {
		return auth.StaticToken(cfg.APIToken), nil
	}
	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	return jwtManager.TokenSource(adminSubject, auth.DefaultJWTDuration), nil
}

// StartRefetchScheduler keeps the shared list warm. An empty spec disables it.
func StartRefetchScheduler(q *query.Query, spec string) (*cron.Cron, error) {
	c := cron.New()
	if spec == "" {
		return c, nil
	}
	_, err := c.AddFunc(spec, func() {
		if err := q.Refetch(context.Background()); err != nil {
			log.Warn().Err(err).Msg("background refetch of payment methods failed")
			return
		}
		log.Debug().Msg("payment methods refetched")
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

func main() {
	cfg, err := config.LoadAdminConfig()
	config.SetupLogging(cfg.LogFormat)
	if err != nil {
		log.Fatal().Err(err).Msg("missing configuration, update to start server")
	}

	token, err := tokenSource(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could not set up API credentials")
	}

	api := client.New(cfg.APIBaseURL, cfg.APITimeout, token)
	q := query.New(api, cfg.StaleTime)

	handler, err := web.NewHandler(q, web.Options{ListWait: cfg.ListWait})
	if err != nil {
		log.Fatal().Err(err).Msg("could not parse templates")
	}

	scheduler, err := StartRefetchScheduler(q, cfg.RefetchInterval)
	if err != nil {
		log.Fatal().Err(err).Str("spec", cfg.RefetchInterval).Msg("scheduler didn't start, stopping the app")
	}
	defer scheduler.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("api", cfg.APIBaseURL).Msg("payment methods admin starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("payment methods admin stopped")
}
