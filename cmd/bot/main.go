package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"wabot/internal/auth"
	"wabot/internal/command"
	"wabot/internal/commands"
	"wabot/internal/config"
	"wabot/internal/dispatch"
	"wabot/internal/gateway"
	"wabot/internal/logging"
	"wabot/internal/storage"
	"wabot/internal/throttle"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFile)
	log.Info().Str("mode", cfg.Mode).Msg("starting bot")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The store's Close blocks until ctx is cancelled; both shutdown paths
	// below cancel before the deferred Close runs.
	store, err := storage.New(ctx, cfg.StoragePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer store.Close()
	store.SetUsageLimit(cfg.UsageLimit)

	src := commands.Source()
	registry := command.NewRegistry()
	if err := registry.LoadAll(src); err != nil {
		log.Fatal().Err(err).Msg("failed to load commands")
	}

	policy := auth.NewPolicy(cfg.Owners, store)

	cooldowns := throttle.NewCooldowns()
	rates := throttle.NewRateLimiter(cfg.RateWindow, cfg.RateCeiling)
	spam := throttle.NewSpamGuard(cfg.SpamRate, cfg.SpamBurst)
	go throttle.RunSweeper(ctx, time.Minute, cooldowns, rates, spam)

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr)
	}

	// The console gateway stands in for the protocol client: any transport
	// that produces Events and accepts SendResponse can replace it. Console
	// input impersonates the first configured owner.
	sender := "console"
	if len(cfg.Owners) > 0 {
		sender = cfg.Owners[0]
	}
	console := gateway.NewConsole(os.Stdin, os.Stdout, sender, "console", false)

	resolver := auth.NewResolver(policy, nil, store, cfg.SelfID)
	dispatcher := dispatch.New(cfg, dispatch.Deps{
		Registry:  registry,
		Source:    src,
		Policy:    policy,
		Resolver:  resolver,
		Cooldowns: cooldowns,
		Rates:     rates,
		Spam:      spam,
		Messenger: console,
		Profiles:  store,
		Usage:     store,
		Store:     store,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- console.Run(ctx, func(ctx context.Context, evt gateway.Event) {
			dispatcher.HandleMessage(ctx, evt)
		})
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
	case err := <-errCh:
		if err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("gateway error")
		}
		cancel()
	}

	log.Info().Msg("bot exited cleanly")
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Info().Str("addr", addr).Msg("metrics listener started")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("metrics listener failed")
	}
}
