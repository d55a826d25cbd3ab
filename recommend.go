package vram_planner

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// MaxGPUCount caps the multi-GPU configurations the recommender will propose.
const MaxGPUCount = 16

// GPURecommendation is one concrete device configuration able to host an estimate.
type GPURecommendation struct {
	Device GPUDevice `json:"device"`
	// Count is the number of identical devices in the configuration.
	Count int `json:"count"`
	// TotalVRAMGB is Count times the per-device VRAM.
	TotalVRAMGB GigaBytesScalar `json:"totalVRAMGB"`
	// PerformanceScore rates raw capability,
	// multi-GPU configurations scale sublinearly.
	PerformanceScore float64 `json:"performanceScore"`
	// EfficiencyScore rates fit against the requirement.
	EfficiencyScore float64 `json:"efficiencyScore"`
	// MeetsRecommended reports whether the configuration covers the
	// recommended VRAM, not merely the minimum.
	MeetsRecommended bool `json:"meetsRecommended"`
}

// RecommendationSet is the three-way answer to "what GPU should I buy".
//
// Any field may be nil when no catalog device can host the estimate,
// that is a normal outcome for very large models, not an error.
type RecommendationSet struct {
	// Optimal balances performance and efficiency.
	Optimal *GPURecommendation `json:"optimal,omitempty"`
	// Performance maximizes raw capability.
	Performance *GPURecommendation `json:"performance,omitempty"`
	// Budget minimizes overprovisioning.
	Budget *GPURecommendation `json:"budget,omitempty"`
	// ProfileVersion names the scoring constants used.
	ProfileVersion string `json:"profileVersion"`
}

// RecommendGPUs proposes device configurations from the catalog that host
// the estimate, ranked three ways by the default scoring profile.
func RecommendGPUs(gc *GPUCatalog, e MemoryUsageEstimate) RecommendationSet {
	return RecommendGPUsWithProfile(gc, e, DefaultScoringProfile)
}

// RecommendGPUsWithProfile is RecommendGPUs against an explicit scoring profile.
func RecommendGPUsWithProfile(gc *GPUCatalog, e MemoryUsageEstimate, p ScoringProfile) RecommendationSet {
	rs := RecommendationSet{
		ProfileVersion: p.Version,
	}
	if gc == nil || len(gc.Devices) == 0 {
		return rs
	}

	var cs []GPURecommendation
	if e.UnifiedMemory {
		cs = unifiedCandidates(gc.Devices, e, p)
	} else {
		cs = discreteCandidates(gc.Devices, e, p)
	}
	if len(cs) == 0 {
		zlog.Debug().
			Float64("vramMinimumGB", float64(e.VRAMMinimumGB)).
			Msg("no catalog device can host the estimate")
		return rs
	}

	sortCandidatesCanonical(cs)

	perfs := make([]float64, len(cs))
	effs := make([]float64, len(cs))
	for i := range cs {
		perfs[i] = cs[i].PerformanceScore
		effs[i] = cs[i].EfficiencyScore
	}

	rs.Optimal = pickBest(cs, blendScores(perfs, effs))
	rs.Performance = pickBest(cs, perfs)
	rs.Budget = pickBest(cs, effs)
	return rs
}

// unifiedCandidates admits single unified-memory devices only,
// unified pools do not aggregate across sockets.
func unifiedCandidates(ds []GPUDevice, e MemoryUsageEstimate, p ScoringProfile) []GPURecommendation {
	var (
		vramMin = float64(e.VRAMMinimumGB)
		vramRec = float64(e.VRAMRecommendedGB)
	)

	cs := make([]GPURecommendation, 0, len(ds))
	for i := range ds {
		d := ds[i]
		if !d.UnifiedMemory || d.VRAMGB < vramMin {
			continue
		}
		cs = append(cs, GPURecommendation{
			Device:           d,
			Count:            1,
			TotalVRAMGB:      GigaBytesScalar(d.VRAMGB),
			PerformanceScore: p.PerformanceScore(d),
			EfficiencyScore:  p.EfficiencyScore(d, vramRec),
			MeetsRecommended: d.VRAMGB >= vramRec,
		})
	}
	return cs
}

// discreteCandidates proposes per-device counts,
// one configuration sized for the recommendation and,
// when cheaper, one sized for the bare minimum.
func discreteCandidates(ds []GPUDevice, e MemoryUsageEstimate, p ScoringProfile) []GPURecommendation {
	var (
		vramMin = float64(e.VRAMMinimumGB)
		vramRec = float64(e.VRAMRecommendedGB)
	)

	var cs []GPURecommendation
	for i := range ds {
		d := ds[i]
		if d.UnifiedMemory || d.VRAMGB <= 0 {
			continue
		}

		minCount := int(math.Ceil(vramMin / d.VRAMGB))
		if minCount > MaxGPUCount {
			continue
		}

		recCount := int(math.Ceil(vramRec / d.VRAMGB))
		if recCount <= MaxGPUCount {
			cs = append(cs, newDiscreteCandidate(d, recCount, vramRec, p, true))
			if minCount < recCount {
				cs = append(cs, newDiscreteCandidate(d, minCount, vramRec, p, false))
			}
			continue
		}

		// The recommendation is out of reach even maxed out,
		// offer the minimum-viable configuration instead.
		cs = append(cs, newDiscreteCandidate(d, minCount, vramRec, p, false))
	}
	return cs
}

func newDiscreteCandidate(d GPUDevice, count int, vramRec float64, p ScoringProfile, meetsRec bool) GPURecommendation {
	total := d.VRAMGB * float64(count)
	return GPURecommendation{
		Device:      d,
		Count:       count,
		TotalVRAMGB: GigaBytesScalar(total),
		// Interconnect overhead keeps multi-GPU scaling sublinear.
		PerformanceScore: p.PerformanceScore(d) * math.Sqrt(float64(count)),
		EfficiencyScore:  p.EfficiencyScore(d, vramRec/float64(count)),
		MeetsRecommended: meetsRec,
	}
}

// sortCandidatesCanonical fixes the iteration order so that equal-scoring
// candidates resolve identically on every run.
func sortCandidatesCanonical(cs []GPURecommendation) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Count != cs[j].Count {
			return cs[i].Count < cs[j].Count
		}
		return cs[i].Device.Name < cs[j].Device.Name
	})
}

// pickBest selects by meets-recommended first, then the given scores,
// ties fall to fewer devices and then name, per the canonical order.
func pickBest(cs []GPURecommendation, scores []float64) *GPURecommendation {
	best := -1
	for i := range cs {
		if best < 0 || candidateLess(&cs[best], &cs[i], scores[best], scores[i]) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	r := cs[best]
	return &r
}

// candidateLess reports whether b beats a.
func candidateLess(a, b *GPURecommendation, scoreA, scoreB float64) bool {
	if a.MeetsRecommended != b.MeetsRecommended {
		return b.MeetsRecommended
	}
	if scoreA != scoreB {
		return scoreB > scoreA
	}
	if a.Count != b.Count {
		return b.Count < a.Count
	}
	return b.Device.Name < a.Device.Name
}

// blendScores mixes min-max normalized performance and efficiency 50/50.
func blendScores(perfs, effs []float64) []float64 {
	var (
		perfMin, perfMax = floats.Min(perfs), floats.Max(perfs)
		effMin, effMax   = floats.Min(effs), floats.Max(effs)
	)
	normalize := func(v, lo, hi float64) float64 {
		if hi <= lo {
			return 1
		}
		return (v - lo) / (hi - lo)
	}

	blended := make([]float64, len(perfs))
	for i := range blended {
		blended[i] = 0.5*normalize(perfs[i], perfMin, perfMax) +
			0.5*normalize(effs[i], effMin, effMax)
	}
	return blended
}
