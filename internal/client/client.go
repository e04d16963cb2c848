package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/models"
	"github.com/Belphemur/ShowFinder/internal/parser"
)

// Client defines the interface for querying the TV catalog
type Client interface {
	// SearchShows returns one ShowSummary per search envelope, in catalog order.
	SearchShows(ctx context.Context, term string) ([]models.ShowSummary, error)
	// ListEpisodes returns every episode of the show, in catalog order.
	ListEpisodes(ctx context.Context, showID int) ([]models.Episode, error)

	// Close releases idle connections held by the client.
	Close() error
}

// Option customizes a client built by NewClient
type Option func(*options)

type options struct {
	transport       http.RoundTripper
	breakerListener BreakerListener
}

// WithTransport replaces the base transport (proxy settings are then ignored).
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithBreakerListener registers a callback for circuit breaker state changes.
func WithBreakerListener(l BreakerListener) Option {
	return func(o *options) { o.breakerListener = l }
}

// client implements the Client interface
type client struct {
	httpClient    *http.Client
	baseURL       string
	normalizeTerm bool
	showParser    parser.Parser[models.ShowSummary]
	episodeParser parser.Parser[models.Episode]
}

// NewClient creates a new client instance with proxy, rate limit and circuit breaker configuration
func NewClient(cfg *config.Config, opts ...Option) Client {
	logger := config.GetLogger()

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	timeout := config.ParseDuration(cfg.ClientTimeout, 30*time.Second)

	base := o.transport
	if base == nil {
		// Clone DefaultTransport to preserve all its settings (timeouts, connection pooling, HTTP/2, etc.)
		baseTransport := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.ProxyConnectionString != "" {
			proxyURL, err := url.Parse(cfg.ProxyConnectionString)
			if err != nil {
				// Log error but continue without proxy
				logger.Warn().Err(err).Str("proxy", cfg.ProxyConnectionString).Msg("Invalid proxy URL, continuing without proxy")
			} else {
				baseTransport.Proxy = http.ProxyURL(proxyURL)
			}
		}
		base = baseTransport
	}

	// Innermost first: rate limit, then breaker, then compression on the outside
	transport := newRateLimitTransport(base, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	if cfg.CircuitBreaker.Enabled {
		delay := config.ParseDuration(cfg.CircuitBreaker.Delay, 30*time.Second)
		transport = newBreakerTransport(transport, cfg.CircuitBreaker.FailureThreshold, delay, o.breakerListener)
	}

	baseURL := strings.TrimRight(cfg.CatalogBaseURL, "/")
	if baseURL == "" {
		baseURL = config.DefaultCatalogBaseURL
	}

	return &client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: newCompressionTransport(transport),
		},
		baseURL:       baseURL,
		normalizeTerm: cfg.NormalizeSearchTerm,
		showParser:    parser.NewShowParser(cfg.MissingImageURL),
		episodeParser: parser.NewEpisodeParser(),
	}
}

// Close releases idle connections held by the client.
func (c *client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
