package httpx

import (
	"context"
	"net"
	"time"

	"github.com/rs/dnscache"
)

var defaultResolver = &dnscache.Resolver{}

func init() {
	go func() {
		t := time.NewTicker(5 * time.Minute)
		defer t.Stop()
		for range t.C {
			defaultResolver.Refresh(true)
		}
	}()
}

// DNSCacheDialContext wraps the given dialer with a process-wide DNS cache.
func DNSCacheDialContext(dialer *net.Dialer) func(context.Context, string, string) (net.Conn, error) {
	return func(ctx context.Context, nw, addr string) (conn net.Conn, err error) {
		h, p, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}

		ips, err := defaultResolver.LookupHost(ctx, h)
		if err != nil {
			return nil, err
		}

		// Try to connect to each IP address in order.
		for _, ip := range ips {
			conn, err = dialer.DialContext(ctx, nw, net.JoinHostPort(ip, p))
			if err == nil {
				break
			}
		}
		return conn, err
	}
}
