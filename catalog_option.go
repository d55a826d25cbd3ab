package vram_planner

import (
	"net/url"
	"time"
)

type (
	_CatalogFetchOptions struct {
		Debug bool

		// Remote.
		BearerAuthToken     string
		ProxyURL            *url.URL
		SkipProxy           bool
		SkipTLSVerification bool
		SkipDNSCache        bool
		Timeout             time.Duration
		RetryAttempts       int
		RetryBackoff        time.Duration

		// Cache.
		CachePath       string
		CacheExpiration time.Duration
	}

	// CatalogFetchOption is the options for fetching the remote catalog.
	CatalogFetchOption func(o *_CatalogFetchOptions)
)

func defaultCatalogFetchOptions() _CatalogFetchOptions {
	return _CatalogFetchOptions{
		Timeout:         10 * time.Second,
		RetryAttempts:   3,
		RetryBackoff:    500 * time.Millisecond,
		CacheExpiration: 24 * time.Hour,
	}
}

// UseDebug dumps the catalog requests and responses.
func UseDebug() CatalogFetchOption {
	return func(o *_CatalogFetchOptions) {
		o.Debug = true
	}
}

// UseBearerAuth authenticates the catalog request with the given token.
func UseBearerAuth(token string) CatalogFetchOption {
	return func(o *_CatalogFetchOptions) {
		o.BearerAuthToken = token
	}
}

// UseProxy uses the given url as a proxy when fetching the catalog.
func UseProxy(u *url.URL) CatalogFetchOption {
	return func(o *_CatalogFetchOptions) {
		o.ProxyURL = u
	}
}

// SkipProxy skips the proxy when fetching the catalog.
func SkipProxy() CatalogFetchOption {
	return func(o *_CatalogFetchOptions) {
		o.SkipProxy = true
	}
}

// SkipTLSVerification skips the TLS verification when fetching the catalog.
func SkipTLSVerification() CatalogFetchOption {
	return func(o *_CatalogFetchOptions) {
		o.SkipTLSVerification = true
	}
}

// SkipDNSCache skips the DNS cache when fetching the catalog.
func SkipDNSCache() CatalogFetchOption {
	return func(o *_CatalogFetchOptions) {
		o.SkipDNSCache = true
	}
}

// UseTimeout aborts the catalog fetch after the given duration.
func UseTimeout(timeout time.Duration) CatalogFetchOption {
	return func(o *_CatalogFetchOptions) {
		if timeout < 0 {
			return
		}
		o.Timeout = timeout
	}
}

// UseRetry retries transient fetch failures up to attempts times,
// doubling the backoff between attempts from the given base.
func UseRetry(attempts int, backoff time.Duration) CatalogFetchOption {
	return func(o *_CatalogFetchOptions) {
		if attempts < 1 || backoff <= 0 {
			return
		}
		o.RetryAttempts = attempts
		o.RetryBackoff = backoff
	}
}

// UseCachePath stores fetched catalogs below the given directory.
func UseCachePath(path string) CatalogFetchOption {
	return func(o *_CatalogFetchOptions) {
		o.CachePath = path
	}
}

// UseCacheExpiration sets how long a cached catalog counts as fresh.
func UseCacheExpiration(exp time.Duration) CatalogFetchOption {
	return func(o *_CatalogFetchOptions) {
		if exp < 0 {
			return
		}
		o.CacheExpiration = exp
	}
}
