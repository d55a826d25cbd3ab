package vram_planner

// ModelArchitectureEstimate is a coarse (layer count, hidden dimension) shape
// derived from the total parameter count alone.
//
// Real architectures vary,
// this is a documented proxy used when the actual model metadata is unavailable.
type ModelArchitectureEstimate struct {
	// Layers is the number of transformer blocks.
	Layers uint64 `json:"layers"`
	// HiddenDimension is the embedding length.
	HiddenDimension uint64 `json:"hiddenDimension"`
}

// _ArchitectureBreakpoints maps a parameter-count ceiling (in billions) to a
// representative model shape, smallest ceiling first.
//
// The table is deliberately data-driven so the breakpoints stay tunable
// without touching call sites.
var _ArchitectureBreakpoints = []struct {
	MaxParametersBillions float64
	Layers                uint64
	HiddenDimension       uint64
}{
	{1, 12, 768},
	{7, 32, 4096},
	{13, 40, 5120},
	{70, 80, 8192},
}

// _ArchitectureOverflow is the shape assumed above the last breakpoint.
var _ArchitectureOverflow = ModelArchitectureEstimate{
	Layers:          96,
	HiddenDimension: 12288,
}

// EstimateModelArchitecture returns the approximate architecture of a model
// with the given parameter count.
//
// EstimateModelArchitecture is a deterministic step function with no failure modes.
func EstimateModelArchitecture(parametersBillions float64) ModelArchitectureEstimate {
	for i := range _ArchitectureBreakpoints {
		if parametersBillions <= _ArchitectureBreakpoints[i].MaxParametersBillions {
			return ModelArchitectureEstimate{
				Layers:          _ArchitectureBreakpoints[i].Layers,
				HiddenDimension: _ArchitectureBreakpoints[i].HiddenDimension,
			}
		}
	}
	return _ArchitectureOverflow
}
