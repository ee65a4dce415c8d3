// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wellness-entitlements/internal/config"
	"wellness-entitlements/internal/domain/ports/adapter"
	apiclient "wellness-entitlements/internal/infra/api"
	"wellness-entitlements/internal/infra/logging"
	"wellness-entitlements/internal/infra/metrics"
	red "wellness-entitlements/internal/infra/redis"
	"wellness-entitlements/internal/infra/sched"
	"wellness-entitlements/internal/infra/web"
	"wellness-entitlements/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Runtime.Dev {
		log.Printf("[DEV MODE] Enabled")
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Remote API clients ----
	var subAPI adapter.SubscriptionAPI = apiclient.NewSubscriptionClient(cfg.API.BaseURL, cfg.API.Token, cfg.API.Timeout)
	chAPI := apiclient.NewChallengeClient(cfg.API.BaseURL, cfg.API.Token, cfg.API.Timeout)

	// ---- Redis (optional entitlement cache) ----
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		subAPI = red.NewSubscriptionCacheDecorator(subAPI, redisClient, cfg.Redis.TTL)
	}

	// ---- Use cases ----
	entUC := usecase.NewEntitlementUseCase(subAPI, logger)
	payUC := usecase.NewPaymentUseCase(subAPI, entUC, cfg.Payment.VerifyTimeout, logger)
	bridge := usecase.NewChallengeBridge(chAPI, entUC, logger)

	// ---- Initial state ----
	startCtx, startCancel := context.WithTimeout(ctx, cfg.API.Timeout)
	entUC.Refresh(startCtx)
	if err := bridge.LoadBanners(startCtx); err != nil {
		logger.Warn().Err(err).Msg("banner pool unavailable at startup")
	}
	startCancel()

	// ---- Session timers ----
	timers := sched.NewSessionTimers(bridge, cfg.Banner.RotateInterval, cfg.Banner.HeartbeatInterval, logger)
	timers.Start(ctx)
	defer timers.Stop()

	// ---- HTTP facade ----
	auth := web.NewAuthManager(cfg.Server.JWTSecret, 24*time.Hour)
	server := web.NewServer(entUC, payUC, bridge, auth, logger)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router(),
	}
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("entitlement facade listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
			cancel()
		}
	}()

	// ---- Shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		logger.Info().Str("signal", s.String()).Msg("shutting down")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)
	timers.Stop()
}
