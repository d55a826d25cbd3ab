package vram_planner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gpuplan/vram-planner-go/util/json"
	"github.com/gpuplan/vram-planner-go/util/osx"
	"github.com/gpuplan/vram-planner-go/util/stringx"
)

var (
	ErrCatalogCacheDisabled  = errors.New("GPU catalog cache disabled")
	ErrCatalogCacheMissed    = errors.New("GPU catalog cache missed")
	ErrCatalogCacheCorrupted = errors.New("GPU catalog cache corrupted")
)

// CatalogCache is a disk-backed cache of normalized catalogs,
// rooted at the path it is constructed from.
// An empty path disables caching.
type CatalogCache string

func (c CatalogCache) getKeyPath(key string) string {
	k := stringx.SumByFNV64a(key)
	p := filepath.Join(string(c), k[:1], k)
	return p
}

// Get returns the cached catalog for the key if one exists within the
// expiration window, 0 disables the window check.
func (c CatalogCache) Get(key string, exp time.Duration) (*GPUCatalog, error) {
	if c == "" {
		return nil, ErrCatalogCacheDisabled
	}

	if key == "" {
		return nil, ErrCatalogCacheMissed
	}

	p := c.getKeyPath(key)
	if !osx.Exists(p, func(stat os.FileInfo) bool {
		if !stat.Mode().IsRegular() {
			return false
		}
		return exp == 0 || time.Since(stat.ModTime()) < exp
	}) {
		return nil, ErrCatalogCacheMissed
	}

	var gc GPUCatalog
	{
		bs, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("GPU catalog cache get: %w", err)
		}
		if err = json.Unmarshal(bs, &gc); err != nil {
			return nil, fmt.Errorf("GPU catalog cache get: %w", err)
		}
	}

	if len(gc.Devices) == 0 {
		_ = os.Remove(p)
		zlog.Warn().Str("key", key).Msg("purged corrupted GPU catalog cache entry")
		return nil, ErrCatalogCacheCorrupted
	}

	gc.Source = CatalogSourceCached
	return &gc, nil
}

// Put stores the catalog under the key.
func (c CatalogCache) Put(key string, gc *GPUCatalog) error {
	if c == "" {
		return ErrCatalogCacheDisabled
	}

	if key == "" || gc == nil {
		return nil
	}

	bs, err := json.Marshal(gc)
	if err != nil {
		return fmt.Errorf("GPU catalog cache put: %w", err)
	}

	p := c.getKeyPath(key)
	if err = osx.WriteFile(p, bs, 0o600); err != nil {
		return fmt.Errorf("GPU catalog cache put: %w", err)
	}
	return nil
}

// Delete removes the cached catalog for the key.
func (c CatalogCache) Delete(key string) error {
	if c == "" {
		return ErrCatalogCacheDisabled
	}

	if key == "" {
		return ErrCatalogCacheMissed
	}

	p := c.getKeyPath(key)
	if !osx.ExistsFile(p) {
		return ErrCatalogCacheMissed
	}

	if err := os.Remove(p); err != nil {
		return fmt.Errorf("GPU catalog cache delete: %w", err)
	}
	return nil
}
