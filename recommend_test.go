package vram_planner

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendGPUsMultiGPU(t *testing.T) {
	gc := &GPUCatalog{
		Devices: []GPUDevice{
			{ID: "small", Name: "GeForce RTX 4060", Vendor: "NVIDIA", VRAMGB: 8},
		},
		Source: CatalogSourceBuiltin,
	}
	e := MemoryUsageEstimate{
		VRAMMinimumGB:     24,
		VRAMRecommendedGB: 30,
	}

	rs := RecommendGPUs(gc, e)
	require.NotNil(t, rs.Performance)

	t.Log("\n", spew.Sdump(rs), "\n")

	// Covering 30 GiB on 8 GiB cards takes four of them.
	assert.Equal(t, 4, rs.Performance.Count)
	assert.Equal(t, 32.0, float64(rs.Performance.TotalVRAMGB))
	assert.True(t, rs.Performance.MeetsRecommended)

	// The three-of picks exist as a minimum-only tier,
	// but every ranking prefers the configuration that meets the recommendation.
	require.NotNil(t, rs.Optimal)
	require.NotNil(t, rs.Budget)
	assert.True(t, rs.Optimal.MeetsRecommended)
	assert.True(t, rs.Budget.MeetsRecommended)
}

func TestRecommendGPUsNoneCompatible(t *testing.T) {
	e := MemoryUsageEstimate{
		VRAMMinimumGB:     2000,
		VRAMRecommendedGB: 2400,
	}

	// Nothing in the catalog can host a 2 TiB requirement,
	// the empty result is a normal outcome, not an error.
	rs := RecommendGPUs(BuiltinCatalog(), e)
	assert.Nil(t, rs.Optimal)
	assert.Nil(t, rs.Performance)
	assert.Nil(t, rs.Budget)
	assert.Equal(t, DefaultScoringProfile.Version, rs.ProfileVersion)

	rs = RecommendGPUs(nil, e)
	assert.Nil(t, rs.Optimal)

	rs = RecommendGPUs(&GPUCatalog{}, e)
	assert.Nil(t, rs.Optimal)
}

func TestRecommendGPUsUnified(t *testing.T) {
	gc := &GPUCatalog{
		Devices: []GPUDevice{
			{ID: "m2u", Name: "M2 Ultra", Vendor: "Apple", VRAMGB: 192, UnifiedMemory: true},
			{ID: "m4p", Name: "M4 Pro", Vendor: "Apple", VRAMGB: 48, UnifiedMemory: true},
			{ID: "m2", Name: "M2", Vendor: "Apple", VRAMGB: 16, UnifiedMemory: true},
			{ID: "4090", Name: "GeForce RTX 4090", Vendor: "NVIDIA", VRAMGB: 24},
		},
		Source: CatalogSourceBuiltin,
	}
	e := MemoryUsageEstimate{
		UnifiedMemory:     true,
		VRAMMinimumGB:     20,
		VRAMRecommendedGB: 30,
	}

	rs := RecommendGPUs(gc, e)
	require.NotNil(t, rs.Performance)

	// Unified estimates only ever match single unified-memory devices,
	// discrete cards and undersized pools are out.
	for _, r := range []*GPURecommendation{rs.Optimal, rs.Performance, rs.Budget} {
		require.NotNil(t, r)
		assert.True(t, r.Device.UnifiedMemory)
		assert.Equal(t, 1, r.Count)
		assert.GreaterOrEqual(t, r.Device.VRAMGB, 20.0)
	}

	assert.Equal(t, "M2 Ultra", rs.Performance.Device.Name)
	// The 48 GiB pool covers the recommendation with far less waste.
	assert.Equal(t, "M4 Pro", rs.Budget.Device.Name)
}

func TestRecommendGPUsSingleCard(t *testing.T) {
	e := MemoryUsageEstimate{
		VRAMMinimumGB:     14.54,
		VRAMRecommendedGB: 18.15,
	}

	rs := RecommendGPUs(BuiltinCatalog(), e)
	for _, r := range []*GPURecommendation{rs.Optimal, rs.Performance, rs.Budget} {
		require.NotNil(t, r)
		assert.True(t, r.MeetsRecommended)
		assert.GreaterOrEqual(t, float64(r.TotalVRAMGB), 18.15)
	}

	// Plenty of single cards fit, no ranking should resort to a pair.
	assert.Equal(t, 1, rs.Performance.Count)
	assert.Equal(t, 1, rs.Budget.Count)
	assert.Equal(t, 80.0, rs.Performance.Device.VRAMGB)
}

func TestRecommendGPUsDeterministic(t *testing.T) {
	e := MemoryUsageEstimate{
		VRAMMinimumGB:     40,
		VRAMRecommendedGB: 52,
	}

	gc := BuiltinCatalog()
	first := RecommendGPUs(gc, e)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, RecommendGPUs(gc, e))
	}
}
