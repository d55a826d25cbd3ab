package vram_planner

// QuantizationFormat represents a reduced-precision encoding of model weights,
// or of the KV cache.
type QuantizationFormat string

const (
	QuantizationFP32 QuantizationFormat = "FP32"
	QuantizationFP16 QuantizationFormat = "FP16"
	QuantizationBF16 QuantizationFormat = "BF16"
	QuantizationINT8 QuantizationFormat = "INT8"
	QuantizationINT6 QuantizationFormat = "INT6"
	QuantizationINT5 QuantizationFormat = "INT5"
	QuantizationINT4 QuantizationFormat = "INT4"
	QuantizationINT3 QuantizationFormat = "INT3"
	QuantizationINT2 QuantizationFormat = "INT2"
	QuantizationNF4  QuantizationFormat = "NF4"

	QuantizationGPTQ4 QuantizationFormat = "GPTQ4"
	QuantizationAWQ4  QuantizationFormat = "AWQ4"

	QuantizationGGUFQ4_0  QuantizationFormat = "GGUF_Q4_0"
	QuantizationGGUFQ4_KM QuantizationFormat = "GGUF_Q4_K_M"
	QuantizationGGUFQ5_0  QuantizationFormat = "GGUF_Q5_0"
	QuantizationGGUFQ5_KM QuantizationFormat = "GGUF_Q5_K_M"
	QuantizationGGUFQ6_K  QuantizationFormat = "GGUF_Q6_K"
	QuantizationGGUFQ8_0  QuantizationFormat = "GGUF_Q8_0"
)

// DefaultBytesPerParameter is the fallback width for unrecognized formats,
// equivalent to FP16.
const DefaultBytesPerParameter = 2.0

// _QuantizationBitsPerWeight maps a quantization format to its effective bits per weight.
//
// GGUF entries carry the block overhead of the corresponding GGML types,
// which is why Q4_0 is 4.55 bits rather than 4.
// Never mutated after definition.
var _QuantizationBitsPerWeight = map[QuantizationFormat]float64{
	QuantizationFP32: 32,
	QuantizationFP16: 16,
	QuantizationBF16: 16,
	QuantizationINT8: 8,
	QuantizationINT6: 6,
	QuantizationINT5: 5,
	QuantizationINT4: 4,
	QuantizationINT3: 3,
	QuantizationINT2: 2,
	QuantizationNF4:  4,

	QuantizationGPTQ4: 4,
	QuantizationAWQ4:  4,

	QuantizationGGUFQ4_0:  4.55,
	QuantizationGGUFQ4_KM: 4.85,
	QuantizationGGUFQ5_0:  5.54,
	QuantizationGGUFQ5_KM: 5.69,
	QuantizationGGUFQ6_K:  6.59,
	QuantizationGGUFQ8_0:  8.5,
}

// BytesPerParameter returns the number of bytes one parameter occupies
// under the given quantization format.
//
// BytesPerParameter is total,
// unrecognized formats fall back to DefaultBytesPerParameter.
// The fallback indicates a data or config mismatch upstream,
// so it is logged rather than silently absorbed.
func (f QuantizationFormat) BytesPerParameter() float64 {
	if bits, ok := _QuantizationBitsPerWeight[f]; ok {
		return bits / 8
	}
	zlog.Debug().Str("format", string(f)).Msg("unrecognized quantization format, assuming FP16 width")
	return DefaultBytesPerParameter
}

// Known reports whether the format has a defined bits-per-weight entry.
func (f QuantizationFormat) Known() bool {
	_, ok := _QuantizationBitsPerWeight[f]
	return ok
}
