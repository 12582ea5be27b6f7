package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pinnacle_metals/internal/common"
	"pinnacle_metals/internal/domain/model"
)

// PricingRepository stores the single pricing_config row (id = 1).
type PricingRepository interface {
	// Get returns ErrNotFound when the row has never been written.
	Get(ctx context.Context) (*model.PricingConfig, error)
	Upsert(ctx context.Context, overrideSet bool, price float64, updatedAt time.Time) (*model.PricingConfig, error)
}

type pgPricingRepository struct {
	db *sql.DB
}

func NewPgPricingRepository(db *sql.DB) PricingRepository {
	return &pgPricingRepository{db: db}
}

func (r *pgPricingRepository) Get(ctx context.Context) (*model.PricingConfig, error) {
	cfg := &model.PricingConfig{}
	err := r.db.QueryRowContext(ctx,
		`SELECT override_set, base_copper_price, updated_at FROM pricing_config WHERE id = 1`,
	).Scan(&cfg.OverrideSet, &cfg.BaseCopperPrice, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPricingRepository.Get: %w", err)
	}
	return cfg, nil
}

func (r *pgPricingRepository) Upsert(ctx context.Context, overrideSet bool, price float64, updatedAt time.Time) (*model.PricingConfig, error) {
	cfg := &model.PricingConfig{}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO pricing_config (id, override_set, base_copper_price, updated_at)
		 VALUES (1, $1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET
		     override_set = EXCLUDED.override_set,
		     base_copper_price = EXCLUDED.base_copper_price,
		     updated_at = EXCLUDED.updated_at
		 RETURNING override_set, base_copper_price, updated_at`,
		overrideSet, price, updatedAt,
	).Scan(&cfg.OverrideSet, &cfg.BaseCopperPrice, &cfg.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("pgPricingRepository.Upsert: %w", err)
	}
	return cfg, nil
}
