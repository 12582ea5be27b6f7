package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"pinnacle_metals/internal/common"
	"pinnacle_metals/internal/domain/model"
	"pinnacle_metals/internal/domain/repository"
	"pinnacle_metals/internal/platform/pricefeed"
)

// PriceFeed is the live quote source.
type PriceFeed interface {
	FetchLiveCopperPrice(ctx context.Context) (pricefeed.Quote, error)
}

type PricingConfig struct {
	ReferencePrice float64
	Jitter         float64
	Materials      []model.Material
}

// PricingService resolves the base copper price: a manual override wins,
// then the live feed, then a simulated price around ReferencePrice.
// ResolveBasePrice never fails.
type PricingService struct {
	repo   repository.PricingRepository
	feed   PriceFeed
	cfg    PricingConfig
	logger *slog.Logger
	now    Clock
	// rand returns a value in [0, 1).
	rand func() float64
}

func NewPricingService(repo repository.PricingRepository, feed PriceFeed, cfg PricingConfig, logger *slog.Logger) *PricingService {
	return &PricingService{
		repo:   repo,
		feed:   feed,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		rand:   rand.Float64,
	}
}

type CopperPrices struct {
	Commodity   string                `json:"commodity"`
	Currency    string                `json:"currency"`
	Unit        string                `json:"unit"`
	Price       float64               `json:"price"`
	Source      model.PriceSource     `json:"source"`
	LastUpdated time.Time             `json:"lastUpdated"`
	Materials   []model.MaterialPrice `json:"materials"`
}

type SetOverrideRequest struct {
	// BaseCopperPrice nil or 0 clears the override.
	BaseCopperPrice *float64 `json:"baseCopperPrice"`
}

func (s *PricingService) ResolveBasePrice(ctx context.Context) model.ResolvedPrice {
	cfg, err := s.repo.Get(ctx)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		s.logger.Warn("failed to read pricing config, ignoring override", "error", err)
	}
	if price, ok := cfg.ActiveOverride(); ok {
		return model.ResolvedPrice{Price: price, Source: model.PriceSourceManual, UpdatedAt: cfg.UpdatedAt}
	}

	quote, err := s.feed.FetchLiveCopperPrice(ctx)
	if err == nil {
		return model.ResolvedPrice{Price: quote.PricePerTonne, Source: model.PriceSourceLive, UpdatedAt: s.now()}
	}
	s.logger.Warn("live copper price unavailable, using simulated price", "error", err)

	jitter := (s.rand()*2 - 1) * s.cfg.Jitter
	return model.ResolvedPrice{
		Price:     model.Round2(s.cfg.ReferencePrice + jitter),
		Source:    model.PriceSourceFallback,
		UpdatedAt: s.now(),
	}
}

// CopperPrices resolves the base once and derives every material from it.
func (s *PricingService) CopperPrices(ctx context.Context) *CopperPrices {
	base := s.ResolveBasePrice(ctx)

	materials := make([]model.MaterialPrice, 0, len(s.cfg.Materials))
	for _, m := range s.cfg.Materials {
		mult := m.Multiplier()
		materials = append(materials, model.MaterialPrice{
			Key:        m.Key,
			Label:      m.Label,
			Multiplier: model.Round2(mult),
			Price:      model.Round2(base.Price * mult),
		})
	}

	return &CopperPrices{
		Commodity:   "Copper (LME Grade A)",
		Currency:    "GBP",
		Unit:        "per Tonne",
		Price:       base.Price,
		Source:      base.Source,
		LastUpdated: base.UpdatedAt,
		Materials:   materials,
	}
}

// GetConfig returns the stored override, or an unset one if none was ever written.
func (s *PricingService) GetConfig(ctx context.Context) (*model.PricingConfig, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return &model.PricingConfig{UpdatedAt: s.now()}, nil
		}
		return nil, err
	}
	return cfg, nil
}

func (s *PricingService) SetOverride(ctx context.Context, req SetOverrideRequest) (*model.PricingConfig, error) {
	price := 0.0
	if req.BaseCopperPrice != nil {
		price = *req.BaseCopperPrice
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return nil, common.NewValidationError("baseCopperPrice", "must be greater than or equal to 0")
	}
	return s.repo.Upsert(ctx, price > 0, price, s.now())
}
