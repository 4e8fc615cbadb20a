package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"PerksAPI/internal/config"
	"PerksAPI/internal/perk"
	"PerksAPI/pkg/kit"
)

const service = "perks"

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log := kit.NewLogger(service, "info")
		log.Fatal("failed to load config", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if envErr != nil {
		log.Debug(".env file not found, relying on environment")
	}

	strategy, _ := cfg.Strategy()
	store := perk.NewMemStore(strategy)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc := perk.NewService(store, log, perk.NewMetrics(reg, store.Len))

	ctx := context.Background()
	if _, err := svc.Seed(ctx, perk.NewSeedSource(cfg.SeedPath)); err != nil && !errors.Is(err, perk.ErrSeedUnavailable) {
		log.Fatal("seed load failed", zap.Error(err))
	}

	s := &perk.Server{Perks: svc, Log: log}
	if cfg.WriteRateLimit > 0 {
		s.WriteLimiter = kit.NewIPRateLimiter(cfg.WriteRateLimit, cfg.RateLimitWindow)
	}

	h := perk.NewHandler(s, perk.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
		CORSOrigins:    cfg.CORSOrigins,
	})

	log.Info("perks api configured",
		zap.String("id_strategy", string(strategy)),
		zap.String("seed", cfg.SeedPath),
	)

	if err := kit.RunHTTPServer(ctx, cfg.Addr(), h, log, cfg.ShutdownTimeout); err != nil {
		log.Error("http server stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}
