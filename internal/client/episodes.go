package client

import (
	"context"
	"fmt"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/models"
)

// ListEpisodes fetches the full episode list of a show
func (c *client) ListEpisodes(ctx context.Context, showID int) ([]models.Episode, error) {
	logger := config.GetLogger()
	logger.Info().Int("showID", showID).Msg("Listing episodes")

	endpoint := fmt.Sprintf("%s/shows/%d/episodes", c.baseURL, showID)
	episodes, err := fetchList(ctx, c, "episodes", endpoint, c.episodeParser, func() error {
		return apperrors.NewShowNotFoundError(showID)
	})
	if err != nil {
		return nil, fmt.Errorf("list episodes of show %d: %w", showID, err)
	}

	logger.Info().Int("showID", showID).Int("count", len(episodes)).Msg("Successfully listed episodes")
	return episodes, nil
}
