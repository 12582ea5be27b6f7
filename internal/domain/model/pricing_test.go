package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingConfig_ActiveOverride(t *testing.T) {
	var missing *PricingConfig
	_, ok := missing.ActiveOverride()
	assert.False(t, ok)

	_, ok = (&PricingConfig{OverrideSet: false, BaseCopperPrice: 7000}).ActiveOverride()
	assert.False(t, ok)

	_, ok = (&PricingConfig{OverrideSet: true, BaseCopperPrice: 0}).ActiveOverride()
	assert.False(t, ok)

	price, ok := (&PricingConfig{OverrideSet: true, BaseCopperPrice: 7125.4}).ActiveOverride()
	assert.True(t, ok)
	assert.Equal(t, 7125.4, price)
}

func TestDefaultMaterials(t *testing.T) {
	materials := DefaultMaterials()
	require.Len(t, materials, 5)
	assert.Equal(t, "bare-bright-copper", materials[0].Key)
	assert.InDelta(t, 0.92, materials[0].Multiplier(), 1e-9)
	assert.Equal(t, "brass", materials[4].Key)
}

func TestNormalizeMaterials(t *testing.T) {
	_, err := NormalizeMaterials([]Material{{Label: "A"}, {Key: "a", Label: "Other"}})
	assert.ErrorContains(t, err, "duplicate key")

	_, err = NormalizeMaterials([]Material{{RecoveryRate: 1}})
	assert.ErrorContains(t, err, "label is required")

	_, err = NormalizeMaterials([]Material{{Label: "Lead", RecoveryRate: -0.1}})
	assert.Error(t, err)

	out, err := NormalizeMaterials([]Material{{Key: "custom", Label: "Heavy Melt"}})
	require.NoError(t, err)
	assert.Equal(t, "custom", out[0].Key)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 6966.7, Round2(6966.6976))
	assert.Equal(t, 1.01, Round2(1.005000001))
	assert.Equal(t, -2.35, Round2(-2.345000001))
}
