package perk

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Service is the verb surface the HTTP layer calls. It owns no state beyond
// its Store handle.
type Service struct {
	Store   Store
	Log     *zap.Logger
	Metrics *Metrics
}

func NewService(store Store, log *zap.Logger, metrics *Metrics) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Store: store, Log: log, Metrics: metrics}
}

func (s *Service) ListPerks(ctx context.Context) ([]Perk, error) {
	return s.Store.List(ctx)
}

func (s *Service) FindPerk(ctx context.Context, id int64) (Perk, bool, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) HasPerk(ctx context.Context, id int64) (bool, error) {
	return s.Store.Exists(ctx, id)
}

func (s *Service) AddPerk(ctx context.Context, p Perk) (Perk, error) {
	return s.Store.Create(ctx, p)
}

func (s *Service) ChangePerk(ctx context.Context, id int64, p Perk) (Perk, bool, error) {
	return s.Store.Update(ctx, id, p)
}

func (s *Service) RemovePerk(ctx context.Context, id int64) error {
	removed, err := s.Store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		s.Log.Info("perk not found for deletion", zap.Int64("id", id))
	}
	return nil
}

// Seed bootstraps the store from src and marks it ready whatever the outcome.
// A source that cannot be read leaves the store empty and returns an error
// wrapping ErrSeedUnavailable; skipped records are logged, not returned as errors.
func (s *Service) Seed(ctx context.Context, src SeedSource) (LoadResult, error) {
	defer s.Store.MarkReady()

	perks, err := src.Fetch(ctx)
	if err != nil {
		s.Log.Error("failed to load perks from seed",
			zap.String("source", src.String()),
			zap.Error(err),
		)
		return LoadResult{}, fmt.Errorf("%w: %s: %v", ErrSeedUnavailable, src, err)
	}

	res, err := s.Store.Load(ctx, perks)
	if err != nil {
		return res, err
	}

	for _, sk := range res.Skipped {
		s.Log.Warn("seed perk missing id, skipping",
			zap.Int("index", sk.Index),
			zap.String("name", sk.Name),
		)
	}
	s.Metrics.seedSkipped(len(res.Skipped))

	s.Log.Info("loaded perks",
		zap.Int("loaded", res.Loaded),
		zap.String("source", src.String()),
	)
	return res, nil
}
