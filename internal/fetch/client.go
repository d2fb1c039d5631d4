package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// DefaultUserAgent identifies as a desktop browser; the stats site rejects bare clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

const (
	DefaultDelay   = 3 * time.Second
	DefaultTimeout = 30 * time.Second
)

// Getter is the single operation the ingest pipeline needs from a fetcher.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// FetchError is returned for network failures and non-2xx responses.
// Status is 0 when no response was received.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type Options struct {
	UserAgent string
	Delay     time.Duration // minimum spacing between requests; 0 disables
	Timeout   time.Duration
	Logger    *logrus.Logger
}

// Client performs plain GETs with a fixed identifying header. Requests are
// spaced at least Delay apart; the first request is not delayed. There is no
// retry: a failed request is reported to the caller as is.
type Client struct {
	HTTP      *resty.Client
	UserAgent string
	Delay     time.Duration

	limiter *rate.Limiter
	log     *logrus.Logger
}

func NewClient(opt Options) *Client {
	if opt.UserAgent == "" {
		opt.UserAgent = DefaultUserAgent
	}
	if opt.Timeout <= 0 {
		opt.Timeout = DefaultTimeout
	}
	if opt.Delay < 0 {
		opt.Delay = 0
	}
	log := opt.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	hc := resty.New().
		SetTimeout(opt.Timeout).
		SetLogger(log).
		SetHeader("User-Agent", opt.UserAgent).
		SetHeader("Accept-Language", "en-US,en;q=0.9")

	return &Client{
		HTTP:      hc,
		UserAgent: opt.UserAgent,
		Delay:     opt.Delay,
		limiter:   rate.NewLimiter(rate.Every(opt.Delay), 1),
		log:       log,
	}
}

func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	c.log.WithField("url", url).Debug("fetch: GET")

	resp, err := c.HTTP.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &FetchError{
			URL:    url,
			Status: resp.StatusCode(),
			Err:    fmt.Errorf("body len=%d", len(resp.Body())),
		}
	}
	return resp.Body(), nil
}
