package vram_planner

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gpuplan/vram-planner-go/util/anyx"
)

// RawCatalog is the heterogeneously formatted device catalog as fetched,
// keyed by opaque record IDs.
type RawCatalog map[string]map[string]any

// Prioritized raw field names, first hit wins.
var (
	_ModelNameFields = []string{
		"Model", "Model Name", "Name", "Product",
		"model", "model_name", "name", "product",
	}
	_MemoryFields = []string{
		"Memory Size (GB)", "Memory Size", "VRAM (GB)", "VRAM", "Memory",
		"memory_size_gb", "memory_size", "vram_gb", "vram", "memory",
	}
	_VendorFields = []string{
		"Vendor", "Manufacturer", "Brand",
		"vendor", "manufacturer", "brand",
	}
	_LaunchDateFields = []string{
		"Launch Date", "Launch", "Release Date",
		"launch_date", "launch", "release_date",
	}
)

// _KnownModelVRAM is the curated product-to-VRAM table used when no direct
// memory field parses, matched as substrings of the lowercased model name.
//
// Order matters, more specific entries come first.
// Products shipping multiple memory configurations carry the most common one,
// the RTX 3060 Ti is pinned at 8 GiB and the RTX 3060 at 12 GiB.
var _KnownModelVRAM = []struct {
	Pattern string
	VRAMGB  float64
}{
	{"h200", 141},
	{"h100", 80},
	{"a100", 80},
	{"l40", 48},
	{"a6000", 48},
	{"l4", 24},

	{"rtx 5090", 32},
	{"rtx 5080", 16},
	{"rtx 5070", 12},
	{"rtx 4090", 24},
	{"rtx 4080", 16},
	{"rtx 4070 ti", 12},
	{"rtx 4070", 12},
	{"rtx 4060 ti", 8},
	{"rtx 4060", 8},
	{"rtx 3090", 24},
	{"rtx 3080 ti", 12},
	{"rtx 3080", 10},
	{"rtx 3070", 8},
	{"rtx 3060 ti", 8},
	{"rtx 3060", 12},
	{"rtx 2080 ti", 11},
	{"rtx 2080", 8},
	{"rtx 2070", 8},
	{"rtx 2060", 6},

	{"rx 7900 xtx", 24},
	{"rx 7900 xt", 20},
	{"rx 7800 xt", 16},
	{"rx 7700 xt", 12},
	{"rx 7600", 8},
	{"rx 6900 xt", 16},
	{"rx 6800 xt", 16},
	{"rx 6700 xt", 12},
	{"rx 6600", 8},

	{"arc a770", 16},
	{"arc a750", 8},

	{"m4 max", 128},
	{"m3 ultra", 256},
	{"m3 max", 128},
	{"m3 pro", 36},
	{"m2 ultra", 192},
	{"m2 max", 96},
	{"m2 pro", 32},
	{"m1 ultra", 128},
	{"m1 max", 64},
}

// _GenerationDefaultVRAM is the best-guess fallback by product family prefix,
// consulted only when both direct extraction and the curated table miss.
var _GenerationDefaultVRAM = []struct {
	Prefix string
	VRAMGB float64
}{
	{"rtx 50", 16},
	{"rtx 40", 12},
	{"rtx 30", 8},
	{"rtx 20", 6},
	{"gtx 16", 6},
	{"gtx 10", 6},
	{"rx 7", 12},
	{"rx 6", 8},
	{"arc", 8},
	{"radeon", 8},
	{"geforce", 6},
}

// _FallbackVRAMGB is the absolute floor when nothing matches at all.
const _FallbackVRAMGB = 6

// _VendorKeywords infers a vendor from the model name when no vendor field is present.
var _VendorKeywords = []struct {
	Keyword string
	Vendor  string
}{
	{"nvidia", "NVIDIA"},
	{"geforce", "NVIDIA"},
	{"quadro", "NVIDIA"},
	{"tesla", "NVIDIA"},
	{"rtx", "NVIDIA"},
	{"gtx", "NVIDIA"},
	{"h200", "NVIDIA"},
	{"h100", "NVIDIA"},
	{"a100", "NVIDIA"},
	{"l40", "NVIDIA"},
	{"amd", "AMD"},
	{"radeon", "AMD"},
	{"instinct", "AMD"},
	{"rx ", "AMD"},
	{"apple", "Apple"},
	{"intel", "Intel"},
	{"arc ", "Intel"},
	{"iris", "Intel"},
	{"uhd", "Intel"},
	{"qualcomm", "Qualcomm"},
	{"snapdragon", "Qualcomm"},
	{"adreno", "Qualcomm"},
}

var (
	_MemoryValueRegex = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*(GIB|GB|G|MIB|MB|M)?\s*$`)
	_MemoryRangeRegex = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*-\s*([0-9]+(?:\.[0-9]+)?)\s*(GIB|GB|G|MIB|MB|M)?\s*$`)
	_NameEmbeddedVRAM = regexp.MustCompile(`(?i)\b([0-9]{1,3})\s*GB\b`)
	_AppleSiliconName = regexp.MustCompile(`(?i)\bm[1-4]\b`)
	_AMDMobileAPUName = regexp.MustCompile(`(?i)\b[0-9]{3}m\b`)
)

// NormalizeCatalog turns a raw catalog into the canonical device list.
//
// Records without a model name are skipped.
// VRAM extraction runs direct field parsing,
// then curated name inference,
// then the generational fallback, first success wins.
// NormalizeCatalog is idempotent,
// the same raw catalog always yields the same ordered output.
func NormalizeCatalog(raw RawCatalog) []GPUDevice {
	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	ds := make([]GPUDevice, 0, len(raw))
	for _, id := range ids {
		rec := raw[id]

		name := firstStringField(rec, _ModelNameFields)
		if name == "" {
			continue
		}

		vendor := firstStringField(rec, _VendorFields)
		if vendor == "" {
			vendor = inferVendor(name)
		}

		vram, ok := extractVRAMField(rec)
		if !ok {
			vram, ok = inferVRAMFromName(name)
		}
		if !ok {
			vram = generationDefaultVRAM(name)
			zlog.Debug().Str("device", name).Float64("vramGB", vram).
				Msg("no memory information found, used generational default")
		}

		ds = append(ds, GPUDevice{
			ID:            id,
			Name:          stripVendorPrefix(name, vendor),
			Vendor:        vendor,
			VRAMGB:        vram,
			UnifiedMemory: detectUnifiedMemory(name, vendor),
			LaunchDate:    firstStringField(rec, _LaunchDateFields),
		})
	}

	sortDevicesCanonical(ds)
	return ds
}

func firstStringField(rec map[string]any, fields []string) string {
	for _, f := range fields {
		if v, ok := rec[f]; ok {
			if s := strings.TrimSpace(anyx.String(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

// extractVRAMField scans the prioritized memory fields for a parsable value.
func extractVRAMField(rec map[string]any) (float64, bool) {
	for _, f := range _MemoryFields {
		v, ok := rec[f]
		if !ok {
			continue
		}
		if gb, ok := parseMemoryValue(v); ok && gb > 0 {
			return gb, true
		}
	}
	return 0, false
}

func parseMemoryValue(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		return parseMemoryString(s)
	}
	if anyx.IsNumber(v) {
		n := anyx.Number[float64](v)
		if n <= 0 {
			return 0, false
		}
		return scaleMemoryNumber(n), true
	}
	return 0, false
}

func parseMemoryString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Comma lists and slash alternatives carry multiple candidates, maximum wins.
	if strings.ContainsAny(s, ",/") {
		var (
			best  float64
			found bool
		)
		parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '/' })
		for _, p := range parts {
			if v, ok := parseMemoryString(p); ok && v > best {
				best, found = v, true
			}
		}
		return best, found
	}

	// Ranges like "8-16 GB" take the maximum.
	if m := _MemoryRangeRegex.FindStringSubmatch(s); m != nil {
		lo, _ := strconv.ParseFloat(m[1], 64)
		hi, _ := strconv.ParseFloat(m[2], 64)
		if hi < lo {
			hi = lo
		}
		return convertMemoryUnit(hi, m[3])
	}

	if m := _MemoryValueRegex.FindStringSubmatch(s); m != nil {
		n, _ := strconv.ParseFloat(m[1], 64)
		return convertMemoryUnit(n, m[2])
	}

	return 0, false
}

func convertMemoryUnit(n float64, unit string) (float64, bool) {
	if n <= 0 {
		return 0, false
	}
	switch strings.ToUpper(unit) {
	case "GB", "GIB", "G":
		return n, true
	case "MB", "MIB", "M":
		return n / 1024, true
	default:
		return scaleMemoryNumber(n), true
	}
}

// scaleMemoryNumber guards against mis-scaled unitless values,
// no consumer device carries more than 100 GiB-scale numbers,
// anything above is treated as MiB.
func scaleMemoryNumber(n float64) float64 {
	if n > 100 {
		return n / 1024
	}
	return n
}

// inferVRAMFromName resolves VRAM from the model string itself,
// either a directly embedded size like "3080 12GB" or the curated table.
func inferVRAMFromName(name string) (float64, bool) {
	if m := _NameEmbeddedVRAM.FindStringSubmatch(name); m != nil {
		if n, err := strconv.ParseFloat(m[1], 64); err == nil && n > 0 {
			return n, true
		}
	}

	lower := strings.ToLower(name)
	for i := range _KnownModelVRAM {
		if strings.Contains(lower, _KnownModelVRAM[i].Pattern) {
			return _KnownModelVRAM[i].VRAMGB, true
		}
	}
	return 0, false
}

func generationDefaultVRAM(name string) float64 {
	lower := strings.ToLower(name)
	for i := range _GenerationDefaultVRAM {
		if strings.Contains(lower, _GenerationDefaultVRAM[i].Prefix) {
			return _GenerationDefaultVRAM[i].VRAMGB
		}
	}
	return _FallbackVRAMGB
}

func inferVendor(name string) string {
	lower := strings.ToLower(name)
	for i := range _VendorKeywords {
		if strings.Contains(lower, _VendorKeywords[i].Keyword) {
			return _VendorKeywords[i].Vendor
		}
	}
	return ""
}

// stripVendorPrefix removes a duplicated leading vendor name from the model string.
func stripVendorPrefix(name, vendor string) string {
	if vendor == "" {
		return name
	}
	lower, lowerVendor := strings.ToLower(name), strings.ToLower(vendor)
	if strings.HasPrefix(lower, lowerVendor+" ") {
		return strings.TrimSpace(name[len(vendor)+1:])
	}
	return name
}

// detectUnifiedMemory classifies integrated/SoC designs sharing one memory
// pool with the CPU: Apple silicon, AMD mobile APUs, Intel integrated
// graphics families and Qualcomm Snapdragon parts.
func detectUnifiedMemory(name, vendor string) bool {
	lower := strings.ToLower(name + " " + vendor)

	switch {
	case strings.Contains(lower, "apple"), _AppleSiliconName.MatchString(name):
		return true
	case strings.Contains(lower, "snapdragon"), strings.Contains(lower, "adreno"):
		return true
	case strings.Contains(lower, "iris"),
		strings.Contains(lower, "uhd graphics"),
		strings.Contains(lower, "hd graphics"):
		return true
	case strings.Contains(lower, "radeon") && _AMDMobileAPUName.MatchString(name):
		return true
	case strings.Contains(lower, "integrated"):
		return true
	}
	return false
}
