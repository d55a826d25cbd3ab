package vram_planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCache(t *testing.T) {
	c := CatalogCache(t.TempDir())

	const key = "https://example.test/gpus.json"
	gc := &GPUCatalog{
		Devices: []GPUDevice{
			{ID: "x", Name: "GeForce RTX 4090", Vendor: "NVIDIA", VRAMGB: 24},
		},
		Source:    CatalogSourceRemote,
		FetchedAt: time.Now(),
	}

	_, err := c.Get(key, 0)
	assert.ErrorIs(t, err, ErrCatalogCacheMissed)

	require.NoError(t, c.Put(key, gc))

	got, err := c.Get(key, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, CatalogSourceCached, got.Source)
	assert.Equal(t, gc.Devices, got.Devices)

	// An aged entry misses within the expiration window,
	// but stays retrievable without one.
	time.Sleep(20 * time.Millisecond)
	_, err = c.Get(key, time.Millisecond)
	assert.ErrorIs(t, err, ErrCatalogCacheMissed)
	_, err = c.Get(key, 0)
	assert.NoError(t, err)

	require.NoError(t, c.Delete(key))
	assert.ErrorIs(t, c.Delete(key), ErrCatalogCacheMissed)
	_, err = c.Get(key, 0)
	assert.ErrorIs(t, err, ErrCatalogCacheMissed)
}

func TestCatalogCacheDisabled(t *testing.T) {
	c := CatalogCache("")

	_, err := c.Get("k", 0)
	assert.ErrorIs(t, err, ErrCatalogCacheDisabled)
	assert.ErrorIs(t, c.Put("k", &GPUCatalog{}), ErrCatalogCacheDisabled)
	assert.ErrorIs(t, c.Delete("k"), ErrCatalogCacheDisabled)
}

func TestCatalogCacheCorrupted(t *testing.T) {
	c := CatalogCache(t.TempDir())

	// A deviceless catalog is useless, Get purges it.
	require.NoError(t, c.Put("k", &GPUCatalog{Source: CatalogSourceRemote}))
	_, err := c.Get("k", 0)
	assert.ErrorIs(t, err, ErrCatalogCacheCorrupted)
	_, err = c.Get("k", 0)
	assert.ErrorIs(t, err, ErrCatalogCacheMissed)
}
