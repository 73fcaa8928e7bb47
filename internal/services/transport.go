package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/desertlark/listenlog/internal/shared"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const defaultTimeout = 30 * time.Second

// Transport issues authenticated API requests with the retry and pacing
// policy shared by all fetchers: 429 responses honor a Retry-After hint,
// 5xx responses get bounded exponential backoff, other 4xx responses are
// never retried. A token-bucket limiter paces sequential requests so chunked
// fetches stay under the provider's rate limit.
type Transport struct {
	client  *resty.Client
	limiter *rate.Limiter
}

// TransportOpts configures a Transport.
type TransportOpts struct {
	BaseURL    string
	MaxRetries int     // bounded retry count for 429/5xx (default 3)
	RateLimit  float64 // requests per second (default 5)
	HTTPClient *http.Client
}

// NewTransport creates a Transport for the given API base URL.
func NewTransport(opts TransportOpts) *Transport {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	client := resty.New()
	if opts.HTTPClient != nil {
		client = resty.NewWithClient(opts.HTTPClient)
	}

	client.
		SetBaseURL(opts.BaseURL).
		SetTimeout(defaultTimeout).
		SetRetryCount(opts.MaxRetries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(10 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil || r == nil {
				return false
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
		}).
		SetRetryAfter(func(c *resty.Client, r *resty.Response) (time.Duration, error) {
			if s := r.Header().Get("Retry-After"); s != "" {
				if secs, err := strconv.Atoi(s); err == nil {
					return time.Duration(secs) * time.Second, nil
				}
			}
			return 0, nil // zero falls back to the default backoff
		})

	return &Transport{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
	}
}

// Get issues an authenticated GET to endpoint and returns the verbatim
// response body. The credential must be valid; a non-2xx status yields a
// [shared.FetchError] after the retry policy is exhausted.
func (t *Transport) Get(ctx context.Context, endpoint string, cred Credential, params map[string]string) ([]byte, error) {
	if !cred.Valid() {
		return nil, fmt.Errorf("%w: empty access token", shared.ErrNotAuthenticated)
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	req := t.client.R().
		SetContext(ctx).
		SetAuthToken(cred.AccessToken).
		SetHeader("Content-Type", "application/json")
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &shared.FetchError{Status: resp.StatusCode(), Endpoint: endpoint}
	}

	return resp.Body(), nil
}
