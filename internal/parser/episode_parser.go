package parser

import (
	"fmt"
	"io"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/models"
)

const episodesPayload = "episodes"

// EpisodeParser implements the Parser interface for the per-show episodes endpoint
type EpisodeParser struct{}

// NewEpisodeParser creates a new episode parser instance
func NewEpisodeParser() *EpisodeParser {
	return &EpisodeParser{}
}

// Parse decodes a list of raw episodes and projects each one to an Episode, preserving order.
func (p *EpisodeParser) Parse(body io.Reader) ([]models.Episode, error) {
	logger := config.GetLogger()

	var raws []models.RawEpisode
	if err := decodeArray(episodesPayload, body, &raws); err != nil {
		logger.Error().Err(err).Msg("Failed to decode episodes payload")
		return nil, err
	}

	episodes := make([]models.Episode, 0, len(raws))
	for i, raw := range raws {
		episode, err := projectEpisode(i, raw)
		if err != nil {
			logger.Error().Err(err).Int("index", i).Msg("Rejected episode")
			return nil, err
		}
		episodes = append(episodes, episode)
	}

	logger.Debug().Int("count", len(episodes)).Msg("Parsed episodes payload")
	return episodes, nil
}

func projectEpisode(index int, raw models.RawEpisode) (models.Episode, error) {
	switch {
	case raw.ID == nil:
		return models.Episode{}, apperrors.NewShapeError(episodesPayload, index, "missing episode id")
	case raw.Season == nil || *raw.Season < 1:
		return models.Episode{}, apperrors.NewShapeError(episodesPayload, index, fmt.Sprintf("invalid season %s", describe(raw.Season)))
	case raw.Number == nil || *raw.Number < 1:
		return models.Episode{}, apperrors.NewShapeError(episodesPayload, index, fmt.Sprintf("invalid number %s", describe(raw.Number)))
	}

	return models.Episode{
		ID:     *raw.ID,
		Name:   raw.Name,
		Season: *raw.Season,
		Number: *raw.Number,
	}, nil
}

func describe(v *int) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%d", *v)
}
