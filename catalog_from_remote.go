package vram_planner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gpuplan/vram-planner-go/util/httpx"
	"github.com/gpuplan/vram-planner-go/util/json"
)

var ErrCatalogFetchFailed = errors.New("GPU catalog fetch failed")

// FetchCatalogFromRemote fetches the raw catalog over HTTP(S) and
// normalizes it, without any fallback.
func FetchCatalogFromRemote(ctx context.Context, uri string, opts ...CatalogFetchOption) (*GPUCatalog, error) {
	var o _CatalogFetchOptions
	{
		o = defaultCatalogFetchOptions()
		for _, opt := range opts {
			opt(&o)
		}
	}

	if _, err := url.ParseRequestURI(uri); err != nil {
		return nil, fmt.Errorf("%w: parse url: %w", ErrCatalogFetchFailed, err)
	}

	cli := httpx.Client(httpx.ClientOptions().
		WithUserAgent("vram-planner-go").
		If(o.BearerAuthToken != "", func(x *httpx.ClientOption) *httpx.ClientOption {
			return x.WithBearerAuth(o.BearerAuthToken)
		}).
		WithTimeout(o.Timeout).
		If(o.Debug, func(x *httpx.ClientOption) *httpx.ClientOption {
			return x.WithDebug()
		}).
		WithExponentialRetry(o.RetryAttempts, o.RetryBackoff).
		WithTransport(httpx.TransportOptions().
			WithoutKeepalive().
			TimeoutForDial(5*time.Second).
			TimeoutForTLSHandshake(5*time.Second).
			TimeoutForResponseHeader(5*time.Second).
			If(o.SkipProxy, func(x *httpx.TransportOption) *httpx.TransportOption {
				return x.WithoutProxy()
			}).
			If(o.ProxyURL != nil, func(x *httpx.TransportOption) *httpx.TransportOption {
				return x.WithProxy(http.ProxyURL(o.ProxyURL))
			}).
			If(o.SkipTLSVerification, func(x *httpx.TransportOption) *httpx.TransportOption {
				return x.WithoutInsecureVerify()
			}).
			If(o.SkipDNSCache, func(x *httpx.TransportOption) *httpx.TransportOption {
				return x.WithoutDNSCache()
			})))

	req, err := httpx.NewGetRequestWithContext(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("%w: new request: %w", ErrCatalogFetchFailed, err)
	}

	var raw RawCatalog
	err = httpx.Do(cli, req, func(resp *http.Response) error {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status code %d", resp.StatusCode)
		}
		// Records with non-object values are tolerated and dropped.
		var body map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		raw = make(RawCatalog, len(body))
		for id, v := range body {
			if rec, ok := v.(map[string]any); ok {
				raw[id] = rec
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogFetchFailed, err)
	}

	return &GPUCatalog{
		Devices:   NormalizeCatalog(raw),
		Source:    CatalogSourceRemote,
		FetchedAt: time.Now(),
	}, nil
}

// LoadCatalog returns a usable catalog no matter what,
// degrading from fresh cache to remote fetch to stale cache to the
// builtin device list.
func LoadCatalog(ctx context.Context, uri string, opts ...CatalogFetchOption) *GPUCatalog {
	var o _CatalogFetchOptions
	{
		o = defaultCatalogFetchOptions()
		for _, opt := range opts {
			opt(&o)
		}
	}

	c := CatalogCache(o.CachePath)

	if gc, err := c.Get(uri, o.CacheExpiration); err == nil {
		return gc
	}

	gc, err := FetchCatalogFromRemote(ctx, uri, opts...)
	if err == nil {
		if cerr := c.Put(uri, gc); cerr != nil && !errors.Is(cerr, ErrCatalogCacheDisabled) {
			zlog.Warn().Err(cerr).Msg("failed to cache GPU catalog")
		}
		return gc
	}
	zlog.Warn().Err(err).Str("url", uri).Msg("failed to fetch GPU catalog")

	if gc, cerr := c.Get(uri, 0); cerr == nil {
		zlog.Warn().Str("url", uri).Msg("serving stale cached GPU catalog")
		return gc
	}

	zlog.Warn().Msg("falling back to builtin GPU catalog")
	return BuiltinCatalog()
}
