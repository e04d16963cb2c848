package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/models"
)

// SearchShows queries the catalog search endpoint with term as the q parameter.
// The term is sent as typed unless normalize_search_term is enabled.
func (c *client) SearchShows(ctx context.Context, term string) ([]models.ShowSummary, error) {
	logger := config.GetLogger()

	query := term
	if c.normalizeTerm {
		query = normalizeTerm(term)
	}
	endpoint := fmt.Sprintf("%s/search/shows?%s", c.baseURL, url.Values{"q": {query}}.Encode())

	logger.Info().Str("term", query).Msg("Searching shows")

	shows, err := fetchList(ctx, c, "search", endpoint, c.showParser, nil)
	if err != nil {
		return nil, fmt.Errorf("search shows %q: %w", query, err)
	}

	logger.Info().Str("term", query).Int("count", len(shows)).Msg("Successfully searched shows")
	return shows, nil
}

// normalizeTerm trims surrounding whitespace and composes the term to NFC so
// visually identical input produces the same query.
func normalizeTerm(term string) string {
	return norm.NFC.String(strings.TrimSpace(term))
}
