package vram_planner

import (
	"sort"
	"time"
)

// GPUDevice is a normalized catalog entry.
//
// Devices are built once per catalog refresh and never individually mutated,
// a refresh replaces the whole list atomically.
type GPUDevice struct {
	// ID is derived from the raw catalog key,
	// it is not guaranteed stable across catalog refreshes.
	ID string `json:"id"`
	// Name is the product name with any duplicated vendor prefix stripped.
	Name string `json:"name"`
	// Vendor is the device vendor.
	Vendor string `json:"vendor"`
	// VRAMGB is the memory capacity in GiB,
	// zero means unknown and excludes the device from recommendations.
	VRAMGB float64 `json:"vramGB"`
	// UnifiedMemory indicates the device shares one pool with the CPU.
	UnifiedMemory bool `json:"unifiedMemory"`
	// LaunchDate is the launch date as found in the raw record, if any.
	LaunchDate string `json:"launchDate,omitempty"`
}

// CatalogSource tells where a catalog came from,
// so a degraded fallback stays distinguishable from a fresh fetch.
type CatalogSource string

const (
	CatalogSourceRemote  CatalogSource = "remote"
	CatalogSourceCached  CatalogSource = "cached"
	CatalogSourceBuiltin CatalogSource = "builtin"
)

// GPUCatalog is an immutable, canonically ordered device list.
type GPUCatalog struct {
	Devices   []GPUDevice   `json:"devices"`
	Source    CatalogSource `json:"source"`
	FetchedAt time.Time     `json:"fetchedAt"`
}

// sortDevicesCanonical orders by VRAM descending then name ascending,
// ties broken lexicographically for determinism.
func sortDevicesCanonical(ds []GPUDevice) {
	sort.SliceStable(ds, func(i, j int) bool {
		if ds[i].VRAMGB != ds[j].VRAMGB {
			return ds[i].VRAMGB > ds[j].VRAMGB
		}
		return ds[i].Name < ds[j].Name
	})
}

// _BuiltinDevices is the static degraded-mode device list used when the
// remote catalog cannot be fetched and no cached copy survives.
var _BuiltinDevices = []GPUDevice{
	{ID: "apple-m2-ultra", Name: "M2 Ultra", Vendor: "Apple", VRAMGB: 192, UnifiedMemory: true},
	{ID: "apple-m3-max", Name: "M3 Max", Vendor: "Apple", VRAMGB: 128, UnifiedMemory: true},
	{ID: "apple-m4-pro", Name: "M4 Pro", Vendor: "Apple", VRAMGB: 48, UnifiedMemory: true},
	{ID: "nvidia-h100-sxm", Name: "H100 SXM", Vendor: "NVIDIA", VRAMGB: 80},
	{ID: "nvidia-a100-80gb", Name: "A100 80GB", Vendor: "NVIDIA", VRAMGB: 80},
	{ID: "nvidia-l40s", Name: "L40S", Vendor: "NVIDIA", VRAMGB: 48},
	{ID: "nvidia-rtx-a6000", Name: "RTX A6000", Vendor: "NVIDIA", VRAMGB: 48},
	{ID: "nvidia-rtx-5090", Name: "GeForce RTX 5090", Vendor: "NVIDIA", VRAMGB: 32},
	{ID: "nvidia-rtx-4090", Name: "GeForce RTX 4090", Vendor: "NVIDIA", VRAMGB: 24},
	{ID: "nvidia-rtx-3090", Name: "GeForce RTX 3090", Vendor: "NVIDIA", VRAMGB: 24},
	{ID: "amd-rx-7900-xtx", Name: "Radeon RX 7900 XTX", Vendor: "AMD", VRAMGB: 24},
	{ID: "nvidia-rtx-4080", Name: "GeForce RTX 4080", Vendor: "NVIDIA", VRAMGB: 16},
	{ID: "amd-rx-7800-xt", Name: "Radeon RX 7800 XT", Vendor: "AMD", VRAMGB: 16},
	{ID: "intel-arc-a770", Name: "Arc A770", Vendor: "Intel", VRAMGB: 16},
	{ID: "nvidia-rtx-4070", Name: "GeForce RTX 4070", Vendor: "NVIDIA", VRAMGB: 12},
	{ID: "nvidia-rtx-3060", Name: "GeForce RTX 3060", Vendor: "NVIDIA", VRAMGB: 12},
	{ID: "nvidia-rtx-3080", Name: "GeForce RTX 3080", Vendor: "NVIDIA", VRAMGB: 10},
	{ID: "nvidia-rtx-4060", Name: "GeForce RTX 4060", Vendor: "NVIDIA", VRAMGB: 8},
	{ID: "amd-rx-7600", Name: "Radeon RX 7600", Vendor: "AMD", VRAMGB: 8},
}

// BuiltinCatalog returns a fresh copy of the static fallback catalog.
func BuiltinCatalog() *GPUCatalog {
	ds := make([]GPUDevice, len(_BuiltinDevices))
	copy(ds, _BuiltinDevices)
	sortDevicesCanonical(ds)
	return &GPUCatalog{
		Devices:   ds,
		Source:    CatalogSourceBuiltin,
		FetchedAt: time.Now(),
	}
}
