package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"regdom/internal/api"
	"regdom/internal/client"
	"regdom/internal/config"
	"regdom/internal/index"
	"regdom/internal/metrics"
	"regdom/pkg/psl"
)

func main() {
	cfg := config.Load()

	log.Info().Msg("regdom v1.0.0 (registrable domain service)")
	log.Info().Msgf("API listening on: %s", cfg.ListenAddr)
	log.Info().Msgf("Rule list URL: %s", cfg.ListURL)
	log.Info().Msgf("Cache file: %s (max age %v)", cfg.CacheFile, cfg.CacheMaxAge)
	log.Info().Msgf("Fetch interval: %v", cfg.FetchInterval)
	log.Info().Msgf("Metrics endpoint: http://%s/metrics", cfg.MetricsAddr)

	// Start metrics server in background
	go func() {
		if err := metrics.StartMetricsServer(cfg.MetricsAddr); err != nil {
			log.Err(err).Msg("Metrics server error")
		}
	}()

	lists := &psl.AtomicList{}
	server := api.NewServer(cfg.ListenAddr, cfg.Verbose, lists)

	updates := make(chan client.Snapshot, 1)
	go func() {
		for snap := range updates {
			pos, neg := snap.List.Counts()
			if cfg.Verbose {
				log.Info().Msgf("Received rule list snapshot from %s with %d rules", snap.Source, pos+neg)
			}

			lists.Store(snap.List)
			server.Update(&api.Meta{
				Index:    index.Build(snap.Positive, snap.Negative),
				Positive: pos,
				Negative: neg,
				LoadedAt: snap.FetchedAt,
				Source:   snap.Source,
			})

			metrics.RulesLoaded.WithLabelValues(metrics.KindPositive).Set(float64(pos))
			metrics.RulesLoaded.WithLabelValues(metrics.KindNegative).Set(float64(neg))
			metrics.ListRefreshTimestamp.Set(float64(snap.FetchedAt.Unix()))

			log.Info().Msgf("Rule list updated: %d positive, %d negative rules", pos, neg)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher := client.NewFetcher(cfg.ListURL, cfg.CacheFile, cfg.FetchInterval, cfg.CacheMaxAge, cfg.Verbose, updates)
	go func() {
		if err := fetcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Err(err).Msg("Fetcher stopped")
		}
	}()

	if err := server.Start(); err != nil {
		log.Err(err).Msg("API server error")
	}
}
