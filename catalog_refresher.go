package vram_planner

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultCatalogTTL is how long a loaded catalog is served before
// the refresher reloads it.
const DefaultCatalogTTL = 24 * time.Hour

// CatalogRefresher keeps one catalog resident and reloads it after the
// TTL lapses, concurrent callers during a reload share a single load.
//
// The zero value is not usable, construct with NewCatalogRefresher.
type CatalogRefresher struct {
	uri  string
	ttl  time.Duration
	opts []CatalogFetchOption

	group   singleflight.Group
	current atomic.Pointer[GPUCatalog]
}

func NewCatalogRefresher(uri string, ttl time.Duration, opts ...CatalogFetchOption) *CatalogRefresher {
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}
	return &CatalogRefresher{
		uri:  uri,
		ttl:  ttl,
		opts: opts,
	}
}

// Catalog returns the resident catalog, loading or reloading as needed.
//
// It never returns nil, a failed reload degrades per LoadCatalog.
func (r *CatalogRefresher) Catalog(ctx context.Context) *GPUCatalog {
	if gc := r.current.Load(); gc != nil && time.Since(gc.FetchedAt) < r.ttl {
		return gc
	}

	v, _, _ := r.group.Do(r.uri, func() (any, error) {
		gc := LoadCatalog(ctx, r.uri, r.opts...)
		r.current.Store(gc)
		return gc, nil
	})
	return v.(*GPUCatalog)
}

// Invalidate drops the resident catalog so the next Catalog call reloads.
func (r *CatalogRefresher) Invalidate() {
	r.current.Store(nil)
}
