package fetcher

import (
	"context"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// HTTPOptions configures the HTTP fetcher. Zero values pick sane
// defaults.
type HTTPOptions struct {
	UserAgent    string
	Timeout      time.Duration
	MaxRetries   int
	RateLimiters map[string]*rate.Limiter // per-host overrides
}

// HTTPFetcher downloads files over HTTP with per-host rate limiting and
// retried requests.
type HTTPFetcher struct {
	client   *http.Client
	opts     HTTPOptions
	fixed    map[string]*rate.Limiter
	adaptive map[string]*AdaptiveLimiter
}

// NewHTTPFetcher builds an HTTP fetcher. Hosts without a configured
// limiter get a permissive default; known reference-data hosts get
// adaptive limiters that tune themselves to the server's tolerance.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "alex-cli/1.0"
	}

	fixed := DefaultRateLimiters()
	for host, lim := range opts.RateLimiters {
		fixed[host] = lim
	}

	return &HTTPFetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				MaxConnsPerHost:     20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		opts:     opts,
		fixed:    fixed,
		adaptive: DefaultAdaptiveLimiters(),
	}
}

// DefaultRateLimiters returns the fixed per-host limits for the wage
// and spec table publishers we pull from.
func DefaultRateLimiters() map[string]*rate.Limiter {
	return map[string]*rate.Limiter{
		"download.bls.gov": rate.NewLimiter(10, 10),
		"www.bls.gov":      rate.NewLimiter(10, 10),
		"api.bls.gov":      rate.NewLimiter(10, 10),
		"ftp.bls.gov":      rate.NewLimiter(5, 5),
	}
}

// DefaultAdaptiveLimiters returns self-tuning limiters for the same
// hosts.
func DefaultAdaptiveLimiters() map[string]*AdaptiveLimiter {
	return map[string]*AdaptiveLimiter{
		"download.bls.gov": NewAdaptiveLimiter(10, 10),
		"www.bls.gov":      NewAdaptiveLimiter(10, 10),
		"api.bls.gov":      NewAdaptiveLimiter(10, 10),
		"ftp.bls.gov":      NewAdaptiveLimiter(5, 5),
	}
}

// Download fetches rawURL and returns the body for a 200 response.
func (f *HTTPFetcher) Download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := f.newRequest(ctx, http.MethodGet, rawURL)
	if err != nil {
		return nil, err
	}

	resp, err := f.fetchWithRetry(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "http: download")
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, eris.Errorf("http: unexpected status %d from %s", resp.StatusCode, rawURL)
	}
	return resp.Body, nil
}

// DownloadToFile fetches rawURL into path.
func (f *HTTPFetcher) DownloadToFile(ctx context.Context, rawURL, path string) (int64, error) {
	body, err := f.Download(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	defer body.Close() //nolint:errcheck

	file, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrap(err, "http: create file")
	}
	defer file.Close() //nolint:errcheck

	n, err := io.Copy(file, body)
	if err != nil {
		return n, eris.Wrap(err, "http: write file")
	}
	return n, nil
}

// HeadETag returns the ETag header from a HEAD request, empty when the
// server does not send one.
func (f *HTTPFetcher) HeadETag(ctx context.Context, rawURL string) (string, error) {
	req, err := f.newRequest(ctx, http.MethodHead, rawURL)
	if err != nil {
		return "", err
	}
	if err := f.waitFor(ctx, rawURL); err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "http: head")
	}
	defer resp.Body.Close() //nolint:errcheck

	return resp.Header.Get("ETag"), nil
}

// DownloadIfChanged fetches rawURL with If-None-Match. On 304 it
// returns (nil, etag, false, nil); otherwise the body, the new ETag,
// and changed=true.
func (f *HTTPFetcher) DownloadIfChanged(ctx context.Context, rawURL, etag string) (io.ReadCloser, string, bool, error) {
	req, err := f.newRequest(ctx, http.MethodGet, rawURL)
	if err != nil {
		return nil, "", false, err
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if err := f.waitFor(ctx, rawURL); err != nil {
		return nil, "", false, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", false, eris.Wrap(err, "http: conditional download")
	}

	switch resp.StatusCode {
	case http.StatusNotModified:
		_ = resp.Body.Close()
		return nil, etag, false, nil
	case http.StatusOK:
		return resp.Body, resp.Header.Get("ETag"), true, nil
	default:
		_ = resp.Body.Close()
		return nil, "", false, eris.Errorf("http: unexpected status %d from %s", resp.StatusCode, rawURL)
	}
}

func (f *HTTPFetcher) newRequest(ctx context.Context, method, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "http: build request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	return req, nil
}

// waitFor blocks on the fixed limiter for the URL's host.
func (f *HTTPFetcher) waitFor(ctx context.Context, rawURL string) error {
	if err := f.fixedLimiter(rawURL).Wait(ctx); err != nil {
		return eris.Wrap(err, "http: rate limiter wait")
	}
	return nil
}

func (f *HTTPFetcher) fixedLimiter(rawURL string) *rate.Limiter {
	if u, err := url.Parse(rawURL); err == nil {
		if lim, ok := f.fixed[u.Host]; ok {
			return lim
		}
	}
	return rate.NewLimiter(20, 20)
}

func (f *HTTPFetcher) adaptiveLimiter(rawURL string) *AdaptiveLimiter {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	return f.adaptive[u.Host]
}

// fetchWithRetry issues the request up to MaxRetries times, backing off
// exponentially on transport errors, 429s, and 5xx responses. A 429
// also slows the host's adaptive limiter; any success speeds it up.
func (f *HTTPFetcher) fetchWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	adaptive := f.adaptiveLimiter(req.URL.String())
	log := zap.L().With(zap.String("url", req.URL.String()))

	var lastErr error
	for attempt := range f.opts.MaxRetries {
		if adaptive != nil {
			if err := adaptive.Wait(ctx); err != nil {
				return nil, eris.Wrap(err, "http: rate limiter wait")
			}
		} else if err := f.waitFor(ctx, req.URL.String()); err != nil {
			return nil, err
		}

		resp, err := f.client.Do(req.Clone(ctx))
		if err != nil {
			lastErr = err
			log.Warn("http request failed, retrying", zap.Int("attempt", attempt+1), zap.Error(err))
			f.sleepBackoff(ctx, attempt)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			_ = resp.Body.Close()
			lastErr = eris.Errorf("http 429 from %s", req.URL.String())
			if adaptive != nil {
				adaptive.OnRateLimit()
			}
			log.Warn("rate limited, backing off", zap.Int("attempt", attempt+1))
			f.sleepBackoff(ctx, attempt)
		case resp.StatusCode >= 500:
			_ = resp.Body.Close()
			lastErr = eris.Errorf("http %d from %s", resp.StatusCode, req.URL.String())
			log.Warn("server error, retrying", zap.Int("status", resp.StatusCode), zap.Int("attempt", attempt+1))
			f.sleepBackoff(ctx, attempt)
		default:
			if adaptive != nil {
				adaptive.OnSuccess()
			}
			return resp, nil
		}
	}

	return nil, eris.Wrap(lastErr, "http: all retries exhausted")
}

// sleepBackoff sleeps 2^attempt seconds (capped at 30s) plus up to 50%
// jitter, or returns early when ctx is cancelled.
func (f *HTTPFetcher) sleepBackoff(ctx context.Context, attempt int) {
	d := time.Duration(float64(time.Second) * math.Pow(2, float64(attempt)))
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	d += time.Duration(rand.Int64N(int64(d) / 2))

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// AdaptiveLimiter is a rate limiter that tunes itself to the server:
// each success raises the limit 20% (capped at twice the initial),
// each 429 halves it (floored at a quarter of the initial).
type AdaptiveLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	current rate.Limit
	ceiling rate.Limit
	floor   rate.Limit
}

// NewAdaptiveLimiter builds an adaptive limiter starting at initial.
func NewAdaptiveLimiter(initial rate.Limit, burst int) *AdaptiveLimiter {
	return &AdaptiveLimiter{
		limiter: rate.NewLimiter(initial, burst),
		current: initial,
		ceiling: initial * 2,
		floor:   initial / 4,
	}
}

// Wait blocks until the limiter permits an event.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// OnSuccess raises the limit toward the ceiling.
func (a *AdaptiveLimiter) OnSuccess() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = min(a.current*1.2, a.ceiling)
	a.limiter.SetLimit(a.current)
}

// OnRateLimit halves the limit toward the floor.
func (a *AdaptiveLimiter) OnRateLimit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = max(a.current*0.5, a.floor)
	a.limiter.SetLimit(a.current)
	zap.L().Warn("adaptive limiter slowing down after 429",
		zap.Float64("rate", float64(a.current)),
	)
}

// Limit reports the current limit.
func (a *AdaptiveLimiter) Limit() rate.Limit {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}
