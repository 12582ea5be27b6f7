package model

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gosimple/slug"
)

type PriceSource string

const (
	PriceSourceManual   PriceSource = "Manual"
	PriceSourceLive     PriceSource = "Live"
	PriceSourceFallback PriceSource = "Fallback"
)

// PricingConfig is the singleton admin override. OverrideSet is the explicit
// "manual price present" flag; BaseCopperPrice is meaningless when it is false.
type PricingConfig struct {
	OverrideSet     bool      `json:"overrideSet"`
	BaseCopperPrice float64   `json:"baseCopperPrice"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ActiveOverride returns the manual price if one is set and positive.
func (c *PricingConfig) ActiveOverride() (float64, bool) {
	if c == nil || !c.OverrideSet || c.BaseCopperPrice <= 0 {
		return 0, false
	}
	return c.BaseCopperPrice, true
}

type ResolvedPrice struct {
	Price     float64     `json:"price"`
	Source    PriceSource `json:"source"`
	UpdatedAt time.Time   `json:"lastUpdated"`
}

type Material struct {
	Key                 string  `json:"key"`
	Label               string  `json:"label"`
	RecoveryRate        float64 `json:"recoveryRate"`
	ProcessingDeduction float64 `json:"processingDeduction"`
}

func (m Material) Multiplier() float64 {
	return m.RecoveryRate - m.ProcessingDeduction
}

type MaterialPrice struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Multiplier float64 `json:"multiplier"`
	Price      float64 `json:"price"`
}

// DefaultMaterials are the copper grades quoted when no PRICING_MATERIALS override is configured.
func DefaultMaterials() []Material {
	materials, _ := NormalizeMaterials([]Material{
		{Label: "Bare Bright Copper", RecoveryRate: 0.97, ProcessingDeduction: 0.05},
		{Label: "No 1 Copper", RecoveryRate: 0.95, ProcessingDeduction: 0.07},
		{Label: "No 2 Copper", RecoveryRate: 0.90, ProcessingDeduction: 0.09},
		{Label: "Insulated Copper Cable", RecoveryRate: 0.60, ProcessingDeduction: 0.12},
		{Label: "Brass", RecoveryRate: 0.62, ProcessingDeduction: 0.08},
	})
	return materials
}

// NormalizeMaterials fills missing keys from labels and rejects unusable entries.
func NormalizeMaterials(in []Material) ([]Material, error) {
	out := make([]Material, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for i, m := range in {
		if m.Label == "" {
			return nil, fmt.Errorf("material %d: label is required", i)
		}
		if m.Key == "" {
			m.Key = slug.Make(m.Label)
		}
		if _, dup := seen[m.Key]; dup {
			return nil, fmt.Errorf("material %q: duplicate key", m.Key)
		}
		if m.RecoveryRate < 0 || m.ProcessingDeduction < 0 {
			return nil, errors.New("material rates must not be negative")
		}
		seen[m.Key] = struct{}{}
		out = append(out, m)
	}
	return out, nil
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
