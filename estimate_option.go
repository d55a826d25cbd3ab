package vram_planner

import (
	"github.com/gpuplan/vram-planner-go/util/ptr"
)

type (
	_MemoryEstimateOptions struct {
		UnifiedMemory bool
		GPUCount      *int

		// Tunable constants.
		ActivationFactor    *float64
		FrameworkOverheadGB *float64
		OSOverheadGB        *float64
		UnifiedMemoryMaxGB  *float64
	}

	// MemoryEstimateOption is the options for the estimate.
	MemoryEstimateOption func(*_MemoryEstimateOptions)
)

// WithUnifiedMemory estimates for a system where GPU and CPU
// share one physical memory pool.
func WithUnifiedMemory() MemoryEstimateOption {
	return func(o *_MemoryEstimateOptions) {
		o.UnifiedMemory = true
	}
}

// WithGPUCount spreads the VRAM requirement over the given number of
// discrete devices.
//
// Ignored on the unified-memory path.
func WithGPUCount(count int) MemoryEstimateOption {
	return func(o *_MemoryEstimateOptions) {
		if count < 1 {
			return
		}
		o.GPUCount = ptr.To(count)
	}
}

// WithActivationFactor overrides the activation-memory proxy factor.
func WithActivationFactor(factor float64) MemoryEstimateOption {
	return func(o *_MemoryEstimateOptions) {
		if factor < 0 {
			return
		}
		o.ActivationFactor = ptr.To(factor)
	}
}

// WithFrameworkOverhead overrides the fixed framework/driver overhead, in GiB.
func WithFrameworkOverhead(gb float64) MemoryEstimateOption {
	return func(o *_MemoryEstimateOptions) {
		if gb < 0 {
			return
		}
		o.FrameworkOverheadGB = ptr.To(gb)
	}
}

// WithOSOverhead overrides the fixed RAM-side OS overhead, in GiB.
func WithOSOverhead(gb float64) MemoryEstimateOption {
	return func(o *_MemoryEstimateOptions) {
		if gb < 0 {
			return
		}
		o.OSOverheadGB = ptr.To(gb)
	}
}

// WithUnifiedMemoryMax overrides the unified-memory cap, in GiB.
func WithUnifiedMemoryMax(gb float64) MemoryEstimateOption {
	return func(o *_MemoryEstimateOptions) {
		if gb <= 0 {
			return
		}
		o.UnifiedMemoryMaxGB = ptr.To(gb)
	}
}
