package vram_planner

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelConfigValidate(t *testing.T) {
	cases := []struct {
		name     string
		given    ModelConfig
		expected error
	}{
		{
			name:     "valid",
			given:    ModelConfig{ParametersBillions: 7, WeightQuantization: QuantizationFP16, ContextLength: 2048, BatchSize: 1},
			expected: nil,
		},
		{
			name:     "zero parameters",
			given:    ModelConfig{ContextLength: 2048, BatchSize: 1},
			expected: ErrInvalidParameterCount,
		},
		{
			name:     "negative parameters",
			given:    ModelConfig{ParametersBillions: -7, ContextLength: 2048, BatchSize: 1},
			expected: ErrInvalidParameterCount,
		},
		{
			name:     "zero context",
			given:    ModelConfig{ParametersBillions: 7, BatchSize: 1},
			expected: ErrInvalidContextLength,
		},
		{
			name:     "zero batch",
			given:    ModelConfig{ParametersBillions: 7, ContextLength: 2048},
			expected: ErrInvalidBatchSize,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.given.Validate()
			if tc.expected == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestEstimateMemoryUsage(t *testing.T) {
	// 7B at FP16 with a 2048-token window is the reference scenario,
	// the weights alone land at 13.04 GiB.
	e, err := EstimateMemoryUsage(ModelConfig{
		ParametersBillions: 7,
		WeightQuantization: QuantizationFP16,
		ContextLength:      2048,
		BatchSize:          1,
	})
	require.NoError(t, err)

	t.Log("\n", spew.Sdump(e), "\n")

	assert.Equal(t, 13.04, e.ModelSizeGB.Round2())
	assert.Equal(t, 1.0, e.KVCacheGB.Round2())
	assert.Equal(t, 2.61, e.ActivationGB.Round2())
	assert.Equal(t, 14.54, e.VRAMMinimumGB.Round2())
	assert.Equal(t, 18.15, e.VRAMRecommendedGB.Round2())
	assert.Equal(t, 17.04, e.RAMMinimumGB.Round2())
	assert.Equal(t, 20.45, e.RAMRecommendedGB.Round2())
	assert.Equal(t, 1, e.GPUCount)
	assert.False(t, e.UnifiedMemory)
}

func TestEstimateMemoryUsageQuantized(t *testing.T) {
	cases := []struct {
		given               QuantizationFormat
		expectedModelSizeGB float64
	}{
		{QuantizationFP32, 26.08},
		{QuantizationFP16, 13.04},
		{QuantizationINT8, 6.52},
		{QuantizationINT4, 3.26},
		{QuantizationGGUFQ4_KM, 3.95},
	}
	for _, tc := range cases {
		t.Run(string(tc.given), func(t *testing.T) {
			e, err := EstimateMemoryUsage(ModelConfig{
				ParametersBillions: 7,
				WeightQuantization: tc.given,
				ContextLength:      2048,
				BatchSize:          1,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.expectedModelSizeGB, e.ModelSizeGB.Round2())
		})
	}
}

func TestEstimateMemoryUsageKVCache(t *testing.T) {
	base := ModelConfig{
		ParametersBillions: 7,
		WeightQuantization: QuantizationFP16,
		ContextLength:      2048,
		BatchSize:          1,
	}

	e, err := EstimateMemoryUsage(base)
	require.NoError(t, err)

	// KV cache grows linearly with the context window and the batch.
	longer := base
	longer.ContextLength = 8192
	le, err := EstimateMemoryUsage(longer)
	require.NoError(t, err)
	assert.Equal(t, 4*e.KVCacheGB.Round2(), le.KVCacheGB.Round2())

	batched := base
	batched.BatchSize = 4
	be, err := EstimateMemoryUsage(batched)
	require.NoError(t, err)
	assert.Equal(t, 4*e.KVCacheGB.Round2(), be.KVCacheGB.Round2())

	// A quantized KV cache shrinks the cache without touching the weights.
	quantized := base
	quantized.KVCacheQuantization = QuantizationINT8
	qe, err := EstimateMemoryUsage(quantized)
	require.NoError(t, err)
	assert.Equal(t, e.ModelSizeGB, qe.ModelSizeGB)
	assert.Equal(t, 0.5, qe.KVCacheGB.Round2())
}

func TestEstimateMemoryUsageMultiGPU(t *testing.T) {
	e, err := EstimateMemoryUsage(ModelConfig{
		ParametersBillions: 70,
		WeightQuantization: QuantizationFP16,
		ContextLength:      4096,
		BatchSize:          1,
	}, WithGPUCount(4))
	require.NoError(t, err)

	assert.Equal(t, 4, e.GPUCount)
	assert.Equal(t, e.VRAMMinimumGB.Round2(), GigaBytesScalar(4*float64(e.VRAMPerGPUMinimumGB)).Round2())
	assert.Equal(t, e.VRAMRecommendedGB.Round2(), GigaBytesScalar(4*float64(e.VRAMPerGPURecommendedGB)).Round2())
}

func TestEstimateMemoryUsageUnified(t *testing.T) {
	e, err := EstimateMemoryUsage(ModelConfig{
		ParametersBillions: 7,
		WeightQuantization: QuantizationFP16,
		ContextLength:      2048,
		BatchSize:          1,
	}, WithUnifiedMemory())
	require.NoError(t, err)

	assert.True(t, e.UnifiedMemory)
	assert.Equal(t, 1, e.GPUCount)
	// One pool, one set of figures.
	assert.Equal(t, 18.54, e.VRAMMinimumGB.Round2())
	assert.Equal(t, 22.15, e.VRAMRecommendedGB.Round2())
	assert.Equal(t, e.VRAMMinimumGB, e.RAMMinimumGB)
	assert.Equal(t, e.VRAMRecommendedGB, e.RAMRecommendedGB)
	assert.False(t, e.MinimumExceedsLimit)
	assert.False(t, e.RecommendedExceedsLimit)
}

func TestEstimateMemoryUsageUnifiedCapped(t *testing.T) {
	e, err := EstimateMemoryUsage(ModelConfig{
		ParametersBillions: 405,
		WeightQuantization: QuantizationFP16,
		ContextLength:      8192,
		BatchSize:          1,
	}, WithUnifiedMemory())
	require.NoError(t, err)

	assert.True(t, e.MinimumExceedsLimit)
	assert.True(t, e.RecommendedExceedsLimit)
	assert.Equal(t, 512.0, e.VRAMMinimumGB.Round2())
	assert.Equal(t, 512.0, e.VRAMRecommendedGB.Round2())
	assert.Greater(t, float64(e.OriginalUnifiedMinimumGB), 512.0)
	assert.Greater(t, float64(e.OriginalUnifiedRecommendedGB), float64(e.OriginalUnifiedMinimumGB))
}

func TestEstimateMemoryUsageOptions(t *testing.T) {
	cfg := ModelConfig{
		ParametersBillions: 7,
		WeightQuantization: QuantizationFP16,
		ContextLength:      2048,
		BatchSize:          1,
	}

	e, err := EstimateMemoryUsage(cfg,
		WithActivationFactor(0),
		WithFrameworkOverhead(0),
		WithOSOverhead(0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, e.ActivationGB.Round2())
	assert.Equal(t, e.ModelSizeGB, e.VRAMMinimumGB)
	assert.Equal(t, e.ModelSizeGB.Round2(), e.RAMMinimumGB.Round2())

	// Out-of-range overrides are ignored, not clamped.
	e, err = EstimateMemoryUsage(cfg,
		WithActivationFactor(-1),
		WithGPUCount(0))
	require.NoError(t, err)
	assert.Equal(t, 2.61, e.ActivationGB.Round2())
	assert.Equal(t, 1, e.GPUCount)

	e, err = EstimateMemoryUsage(cfg, WithUnifiedMemory(), WithUnifiedMemoryMax(16))
	require.NoError(t, err)
	assert.True(t, e.MinimumExceedsLimit)
	assert.Equal(t, 16.0, e.VRAMMinimumGB.Round2())
}

func TestEstimateMemoryUsageRecommendedNotBelowMinimum(t *testing.T) {
	for _, q := range []QuantizationFormat{
		QuantizationFP32, QuantizationFP16, QuantizationINT4, QuantizationGGUFQ8_0,
	} {
		for _, b := range []float64{0.5, 3, 7, 13, 70, 180} {
			e, err := EstimateMemoryUsage(ModelConfig{
				ParametersBillions: b,
				WeightQuantization: q,
				ContextLength:      4096,
				BatchSize:          1,
			})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, float64(e.VRAMRecommendedGB), float64(e.VRAMMinimumGB))
			assert.GreaterOrEqual(t, float64(e.RAMRecommendedGB), float64(e.RAMMinimumGB))
		}
	}
}
