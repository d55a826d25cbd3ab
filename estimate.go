package vram_planner

import (
	"errors"
	"fmt"

	"github.com/gpuplan/vram-planner-go/util/ptr"
)

// Tunable estimation defaults.
//
// The activation factor and the fixed overheads are assumption-driven
// placeholders rather than measured truths,
// every one of them can be overridden per estimate via options.
const (
	// DefaultActivationFactor approximates transient forward-pass memory
	// as a fraction of the weight size.
	DefaultActivationFactor = 0.2
	// DefaultFrameworkOverheadGB covers the inference framework and driver context.
	DefaultFrameworkOverheadGB = 1.5
	// DefaultOSOverheadGB covers the RAM the operating system keeps for itself.
	DefaultOSOverheadGB = 4.0
	// DefaultRAMHeadroomFactor scales the minimum RAM into the recommended RAM.
	DefaultRAMHeadroomFactor = 1.2
	// DefaultUnifiedMemoryMaxGB caps unified-memory estimates,
	// no shipping unified-memory system exceeds it today.
	DefaultUnifiedMemoryMaxGB = 512.0
)

var (
	ErrInvalidParameterCount = errors.New("invalid parameter count")
	ErrInvalidContextLength  = errors.New("invalid context length")
	ErrInvalidBatchSize      = errors.New("invalid batch size")
)

// ModelConfig describes the model and the inference settings to estimate for.
//
// A ModelConfig is created fresh per calculation request and carries no identity.
type ModelConfig struct {
	// ParametersBillions is the total parameter count, in billions.
	ParametersBillions float64 `json:"parametersBillions"`
	// WeightQuantization is the quantization format of the model weights.
	WeightQuantization QuantizationFormat `json:"weightQuantization"`
	// KVCacheQuantization is the quantization format of the KV cache,
	// defaults to WeightQuantization when empty.
	KVCacheQuantization QuantizationFormat `json:"kvCacheQuantization,omitempty"`
	// ContextLength is the token window the KV cache must hold.
	ContextLength int `json:"contextLength"`
	// BatchSize is the number of sequences processed together.
	BatchSize int `json:"batchSize"`
}

// Validate rejects configs the estimator must not see.
func (c ModelConfig) Validate() error {
	if c.ParametersBillions <= 0 {
		return fmt.Errorf("%w: %g billions", ErrInvalidParameterCount, c.ParametersBillions)
	}
	if c.ContextLength <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidContextLength, c.ContextLength)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidBatchSize, c.BatchSize)
	}
	return nil
}

// MemoryUsageEstimate is the estimated memory requirement of running a model.
//
// Recomputed in full on every input change,
// never partially mutated.
type MemoryUsageEstimate struct {
	// ModelSizeGB is the memory usage of the weights.
	ModelSizeGB GigaBytesScalar `json:"modelSizeGB"`
	// KVCacheGB is the memory usage of caching previous KV.
	KVCacheGB GigaBytesScalar `json:"kvCacheGB"`
	// ActivationGB is the transient memory usage of the forward pass.
	ActivationGB GigaBytesScalar `json:"activationGB"`
	// OverheadGB is the fixed framework and driver-context overhead.
	OverheadGB GigaBytesScalar `json:"overheadGB"`

	// VRAMMinimumGB is the least VRAM that loads the weights at all.
	VRAMMinimumGB GigaBytesScalar `json:"vramMinimumGB"`
	// VRAMRecommendedGB additionally accounts for the KV cache and activations.
	VRAMRecommendedGB GigaBytesScalar `json:"vramRecommendedGB"`
	// RAMMinimumGB is the least system RAM to host the model.
	RAMMinimumGB GigaBytesScalar `json:"ramMinimumGB"`
	// RAMRecommendedGB adds headroom on top of RAMMinimumGB.
	RAMRecommendedGB GigaBytesScalar `json:"ramRecommendedGB"`

	// GPUCount is the number of discrete devices the VRAM totals are spread over.
	GPUCount int `json:"gpuCount"`
	// VRAMPerGPUMinimumGB is VRAMMinimumGB divided evenly per device.
	VRAMPerGPUMinimumGB GigaBytesScalar `json:"vramPerGPUMinimumGB"`
	// VRAMPerGPURecommendedGB is VRAMRecommendedGB divided evenly per device.
	VRAMPerGPURecommendedGB GigaBytesScalar `json:"vramPerGPURecommendedGB"`

	// UnifiedMemory indicates GPU and CPU share one physical pool,
	// in which case the VRAM and RAM figures coincide.
	UnifiedMemory bool `json:"unifiedMemory"`
	// UnifiedMemoryMaxGB is the cap applied to unified-memory estimates.
	UnifiedMemoryMaxGB GigaBytesScalar `json:"unifiedMemoryMaxGB,omitempty"`
	// MinimumExceedsLimit records whether the minimum was capped.
	MinimumExceedsLimit bool `json:"minimumExceedsLimit,omitempty"`
	// RecommendedExceedsLimit records whether the recommendation was capped.
	RecommendedExceedsLimit bool `json:"recommendedExceedsLimit,omitempty"`
	// OriginalUnifiedMinimumGB is the pre-cap minimum.
	OriginalUnifiedMinimumGB GigaBytesScalar `json:"originalUnifiedMinimumGB,omitempty"`
	// OriginalUnifiedRecommendedGB is the pre-cap recommendation.
	OriginalUnifiedRecommendedGB GigaBytesScalar `json:"originalUnifiedRecommendedGB,omitempty"`
}

const _GiB = 1 << 30

// EstimateMemoryUsage returns the memory requirement of running the given model.
//
// The computation keeps full float precision throughout,
// display rounding is left to GigaBytesScalar.
func EstimateMemoryUsage(cfg ModelConfig, opts ...MemoryEstimateOption) (e MemoryUsageEstimate, err error) {
	if err = cfg.Validate(); err != nil {
		return e, err
	}

	var o _MemoryEstimateOptions
	for _, opt := range opts {
		opt(&o)
	}

	var (
		activationFactor = ptr.Deref(o.ActivationFactor, DefaultActivationFactor)
		frameworkGB      = ptr.Deref(o.FrameworkOverheadGB, DefaultFrameworkOverheadGB)
		osGB             = ptr.Deref(o.OSOverheadGB, DefaultOSOverheadGB)
		unifiedMaxGB     = ptr.Deref(o.UnifiedMemoryMaxGB, DefaultUnifiedMemoryMaxGB)
		gpuCount         = ptr.Deref(o.GPUCount, 1)
	)

	// Weights.
	modelSize := cfg.ParametersBillions * 1e9 * cfg.WeightQuantization.BytesPerParameter() / _GiB

	// KV cache,
	// the factor 2 accounts for separate key and value tensors per layer.
	a := EstimateModelArchitecture(cfg.ParametersBillions)
	kvq := cfg.KVCacheQuantization
	if kvq == "" {
		kvq = cfg.WeightQuantization
	}
	kvCache := 2 * float64(a.Layers) * float64(a.HiddenDimension) *
		float64(cfg.ContextLength) * float64(cfg.BatchSize) * kvq.BytesPerParameter() / _GiB

	activation := modelSize * activationFactor

	e.ModelSizeGB = GigaBytesScalar(modelSize)
	e.KVCacheGB = GigaBytesScalar(kvCache)
	e.ActivationGB = GigaBytesScalar(activation)
	e.OverheadGB = GigaBytesScalar(frameworkGB)
	e.GPUCount = gpuCount

	if o.UnifiedMemory {
		// RAM and VRAM share one pool,
		// so both overheads apply once, combined.
		origMin := modelSize + frameworkGB + osGB
		origRec := modelSize + kvCache + activation + frameworkGB + osGB

		e.UnifiedMemory = true
		e.GPUCount = 1
		e.UnifiedMemoryMaxGB = GigaBytesScalar(unifiedMaxGB)
		e.OriginalUnifiedMinimumGB = GigaBytesScalar(origMin)
		e.OriginalUnifiedRecommendedGB = GigaBytesScalar(origRec)

		cappedMin, cappedRec := origMin, origRec
		if cappedMin > unifiedMaxGB {
			cappedMin = unifiedMaxGB
			e.MinimumExceedsLimit = true
		}
		if cappedRec > unifiedMaxGB {
			cappedRec = unifiedMaxGB
			e.RecommendedExceedsLimit = true
		}

		e.VRAMMinimumGB = GigaBytesScalar(cappedMin)
		e.VRAMRecommendedGB = GigaBytesScalar(cappedRec)
		e.RAMMinimumGB = e.VRAMMinimumGB
		e.RAMRecommendedGB = e.VRAMRecommendedGB
		e.VRAMPerGPUMinimumGB = e.VRAMMinimumGB
		e.VRAMPerGPURecommendedGB = e.VRAMRecommendedGB
		return e, nil
	}

	vramMin := modelSize + frameworkGB
	vramRec := modelSize + kvCache + activation + frameworkGB
	ramMin := modelSize + osGB

	e.VRAMMinimumGB = GigaBytesScalar(vramMin)
	e.VRAMRecommendedGB = GigaBytesScalar(vramRec)
	e.RAMMinimumGB = GigaBytesScalar(ramMin)
	e.RAMRecommendedGB = GigaBytesScalar(ramMin * DefaultRAMHeadroomFactor)

	// VRAM splits evenly across devices,
	// the returned minimum and recommendation stay totals.
	e.VRAMPerGPUMinimumGB = GigaBytesScalar(vramMin / float64(gpuCount))
	e.VRAMPerGPURecommendedGB = GigaBytesScalar(vramRec / float64(gpuCount))
	return e, nil
}
