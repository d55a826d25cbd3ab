package vram_planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantizationFormatBytesPerParameter(t *testing.T) {
	cases := []struct {
		given    QuantizationFormat
		expected float64
	}{
		{QuantizationFP32, 4},
		{QuantizationFP16, 2},
		{QuantizationBF16, 2},
		{QuantizationINT8, 1},
		{QuantizationINT4, 0.5},
		{QuantizationINT2, 0.25},
		{QuantizationNF4, 0.5},
		{QuantizationGPTQ4, 0.5},
		{QuantizationGGUFQ4_0, 4.55 / 8},
		{QuantizationGGUFQ4_KM, 4.85 / 8},
		{QuantizationGGUFQ8_0, 8.5 / 8},
		{QuantizationFormat("Q4_MYSTERY"), DefaultBytesPerParameter},
		{QuantizationFormat(""), DefaultBytesPerParameter},
	}
	for _, tc := range cases {
		t.Run(string(tc.given), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.given.BytesPerParameter())
		})
	}
}

func TestQuantizationFormatKnown(t *testing.T) {
	assert.True(t, QuantizationGGUFQ5_KM.Known())
	assert.True(t, QuantizationAWQ4.Known())
	assert.False(t, QuantizationFormat("FP8").Known())
	assert.False(t, QuantizationFormat("").Known())
}
