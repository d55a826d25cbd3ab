package httpx

import (
	"net/http"
	"time"
)

type ClientOption struct {
	transport  http.RoundTripper
	timeout    time.Duration
	debug      bool
	roundTrips []func(req *http.Request) error

	retryIf      func(resp *http.Response, err error) bool
	retryBackoff func(attempt int, resp *http.Response) (time.Duration, bool)
}

func ClientOptions() *ClientOption {
	return &ClientOption{
		timeout: 30 * time.Second,
	}
}

// WithTransport sets the http.RoundTripper constructed by the TransportOption.
func (o *ClientOption) WithTransport(opt *TransportOption) *ClientOption {
	if o == nil || opt == nil {
		return o
	}
	o.transport = opt.transport
	return o
}

// WithTimeout sets the request timeout.
//
// This timeout controls the sum of [network dial], [tls handshake], [request],
// [response header reading] and [response body reading].
//
// Use 0 to disable timeout.
func (o *ClientOption) WithTimeout(timeout time.Duration) *ClientOption {
	if o == nil || timeout < 0 {
		return o
	}
	o.timeout = timeout
	return o
}

// WithDebug sets the debug mode.
func (o *ClientOption) WithDebug() *ClientOption {
	if o == nil {
		return o
	}
	o.debug = true
	return o
}

// WithRoundTrip sets the round trip function.
func (o *ClientOption) WithRoundTrip(rt func(req *http.Request) error) *ClientOption {
	if o == nil || rt == nil {
		return o
	}
	o.roundTrips = append(o.roundTrips, rt)
	return o
}

// WithUserAgent sets the user agent.
func (o *ClientOption) WithUserAgent(ua string) *ClientOption {
	return o.WithRoundTrip(func(req *http.Request) error {
		req.Header.Set("User-Agent", ua)
		return nil
	})
}

// WithBearerAuth sets the bearer token.
func (o *ClientOption) WithBearerAuth(token string) *ClientOption {
	return o.WithRoundTrip(func(req *http.Request) error {
		req.Header.Set("Authorization", "Bearer "+token)
		return nil
	})
}

// WithRetryIf sets the condition to retry a request.
func (o *ClientOption) WithRetryIf(retryIf func(resp *http.Response, err error) bool) *ClientOption {
	if o == nil || retryIf == nil {
		return o
	}
	o.retryIf = retryIf
	return o
}

// WithRetryBackoff sets the backoff strategy used between retries,
// the second return value reports whether another attempt is allowed.
func (o *ClientOption) WithRetryBackoff(backoff func(attempt int, resp *http.Response) (time.Duration, bool)) *ClientOption {
	if o == nil || backoff == nil {
		return o
	}
	o.retryBackoff = backoff
	return o
}

// WithExponentialRetry retries transient failures up to maxAttempts times,
// doubling the wait from the given base between attempts.
func (o *ClientOption) WithExponentialRetry(maxAttempts int, base time.Duration) *ClientOption {
	if o == nil || maxAttempts <= 0 || base <= 0 {
		return o
	}
	return o.
		WithRetryIf(func(resp *http.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp != nil && (resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError)
		}).
		WithRetryBackoff(func(attempt int, _ *http.Response) (time.Duration, bool) {
			if attempt >= maxAttempts {
				return 0, false
			}
			return base << uint(attempt-1), true
		})
}

// If is a conditional option,
// which receives a boolean condition to trigger the given function or not.
func (o *ClientOption) If(condition bool, then func(*ClientOption) *ClientOption) *ClientOption {
	if condition {
		return then(o)
	}
	return o
}
