package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/metrics"
	"github.com/Belphemur/ShowFinder/internal/parser"
)

// fetchList performs a single GET against the catalog and decodes the JSON array body with p.
// A 404 is reported through notFound when it is non-nil; no request is ever retried.
func fetchList[T any](ctx context.Context, c *client, operation, endpoint string, p parser.Parser[T], notFound func() error) (result []T, err error) {
	logger := config.GetLogger()
	start := time.Now()
	defer func() {
		metrics.CatalogRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		status := "success"
		if err != nil {
			status = apperrors.Kind(err)
		}
		metrics.CatalogRequestsTotal.WithLabelValues(operation, status).Inc()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", config.GetUserAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && notFound != nil {
		return nil, notFound()
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &apperrors.ErrUpstreamStatus{URL: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := parser.NewUTF8Reader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}

	result, err = p.Parse(body)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("operation", operation).
		Str("url", endpoint).
		Int("count", len(result)).
		Dur("elapsed", time.Since(start)).
		Msg("Catalog request completed")
	return result, nil
}
