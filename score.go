package vram_planner

import (
	"strings"
)

type _KeywordBonus struct {
	Keyword string
	Bonus   float64
}

// ScoringProfile is a versioned set of scoring constants.
//
// The constants encode a relative-capability opinion as of the profile
// version, revising them means cutting a new version,
// never editing a shipped one.
type ScoringProfile struct {
	Version string

	// Performance.
	VRAMPointsPerGB    float64
	GenerationBonuses  []_KeywordBonus
	WorkstationMarkers []string
	WorkstationBonus   float64
	FlagshipBonuses    []_KeywordBonus
	AppleBonuses       []_KeywordBonus

	// Efficiency.
	EfficiencyBase       float64
	ConsumerBonus        float64
	UnifiedBonus         float64
	EfficientGenerations []_KeywordBonus
}

// DefaultScoringProfile ranks devices available through 2025.
var DefaultScoringProfile = ScoringProfile{
	Version: "2025.1",

	VRAMPointsPerGB: 10,
	GenerationBonuses: []_KeywordBonus{
		{"rtx 50", 300},
		{"rtx 40", 200},
		{"rtx 30", 100},
		{"rx 7", 150},
		{"rx 6", 80},
	},
	WorkstationMarkers: []string{
		"h200", "h100", "a100", "l40", "a6000", "quadro", "tesla", "instinct",
	},
	WorkstationBonus: 400,
	FlagshipBonuses: []_KeywordBonus{
		{"5090", 180},
		{"4090", 150},
		{"3090", 100},
		{"7900 xtx", 100},
	},
	AppleBonuses: []_KeywordBonus{
		{"m4", 120},
		{"m3", 100},
		{"m2", 80},
		{"m1", 50},
	},

	EfficiencyBase: 100,
	ConsumerBonus:  25,
	UnifiedBonus:   30,
	EfficientGenerations: []_KeywordBonus{
		{"rtx 50", 30},
		{"rtx 40", 25},
		{"rx 7", 15},
	},
}

// PerformanceScore rates the raw capability of a single device,
// VRAM capacity dominates, generation and product-tier bonuses refine.
func (p ScoringProfile) PerformanceScore(d GPUDevice) float64 {
	lower := strings.ToLower(d.Name)

	s := d.VRAMGB * p.VRAMPointsPerGB

	for i := range p.GenerationBonuses {
		if strings.Contains(lower, p.GenerationBonuses[i].Keyword) {
			s += p.GenerationBonuses[i].Bonus
			break
		}
	}

	if p.isWorkstation(lower) {
		s += p.WorkstationBonus
	}

	for i := range p.FlagshipBonuses {
		if strings.Contains(lower, p.FlagshipBonuses[i].Keyword) {
			s += p.FlagshipBonuses[i].Bonus
			break
		}
	}

	// Apple generation bonuses gate on the vendor,
	// the bare m-tokens are too short to match on alone.
	if strings.EqualFold(d.Vendor, "Apple") {
		for i := range p.AppleBonuses {
			if strings.Contains(lower, p.AppleBonuses[i].Keyword) {
				s += p.AppleBonuses[i].Bonus
				break
			}
		}
	}

	return s
}

// EfficiencyScore rates how well a device fits a requirement,
// a tightly utilized consumer card outranks an oversized workstation part.
func (p ScoringProfile) EfficiencyScore(d GPUDevice, requiredGB float64) float64 {
	if d.VRAMGB <= 0 {
		return 0
	}

	utilization := requiredGB / d.VRAMGB
	if utilization > 1 {
		utilization = 1
	}
	s := p.EfficiencyBase * utilization

	lower := strings.ToLower(d.Name)
	if !p.isWorkstation(lower) {
		s += p.ConsumerBonus
	}
	if d.UnifiedMemory {
		s += p.UnifiedBonus
	}
	for i := range p.EfficientGenerations {
		if strings.Contains(lower, p.EfficientGenerations[i].Keyword) {
			s += p.EfficientGenerations[i].Bonus
			break
		}
	}

	return s
}

func (p ScoringProfile) isWorkstation(lowerName string) bool {
	for i := range p.WorkstationMarkers {
		if strings.Contains(lowerName, p.WorkstationMarkers[i]) {
			return true
		}
	}
	return false
}
