package vram_planner

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateModelArchitecture(t *testing.T) {
	cases := []struct {
		given    float64
		expected ModelArchitectureEstimate
	}{
		{0.1, ModelArchitectureEstimate{Layers: 12, HiddenDimension: 768}},
		{1, ModelArchitectureEstimate{Layers: 12, HiddenDimension: 768}},
		{1.1, ModelArchitectureEstimate{Layers: 32, HiddenDimension: 4096}},
		{7, ModelArchitectureEstimate{Layers: 32, HiddenDimension: 4096}},
		{8, ModelArchitectureEstimate{Layers: 40, HiddenDimension: 5120}},
		{13, ModelArchitectureEstimate{Layers: 40, HiddenDimension: 5120}},
		{30, ModelArchitectureEstimate{Layers: 80, HiddenDimension: 8192}},
		{70, ModelArchitectureEstimate{Layers: 80, HiddenDimension: 8192}},
		{405, ModelArchitectureEstimate{Layers: 96, HiddenDimension: 12288}},
	}
	for _, tc := range cases {
		t.Run(strconv.FormatFloat(tc.given, 'f', -1, 64)+"B", func(t *testing.T) {
			assert.Equal(t, tc.expected, EstimateModelArchitecture(tc.given))
		})
	}
}
