package parser

import (
	"io"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/models"
)

const searchPayload = "search"

// ShowParser implements the Parser interface for the show search endpoint
type ShowParser struct {
	missingImageURL string
}

// NewShowParser creates a new show parser that substitutes missingImageURL for shows without artwork
func NewShowParser(missingImageURL string) *ShowParser {
	if missingImageURL == "" {
		missingImageURL = config.DefaultMissingImageURL
	}
	return &ShowParser{
		missingImageURL: missingImageURL,
	}
}

// Parse decodes a list of search envelopes and projects each nested show to a ShowSummary.
// Output order and length match the envelopes.
func (p *ShowParser) Parse(body io.Reader) ([]models.ShowSummary, error) {
	logger := config.GetLogger()

	var envelopes []models.SearchEnvelope
	if err := decodeArray(searchPayload, body, &envelopes); err != nil {
		logger.Error().Err(err).Msg("Failed to decode search payload")
		return nil, err
	}

	shows := make([]models.ShowSummary, 0, len(envelopes))
	for i, envelope := range envelopes {
		show, err := p.project(i, envelope)
		if err != nil {
			logger.Error().Err(err).Int("index", i).Msg("Rejected search envelope")
			return nil, err
		}
		shows = append(shows, show)
	}

	logger.Debug().Int("count", len(shows)).Msg("Parsed search payload")
	return shows, nil
}

func (p *ShowParser) project(index int, envelope models.SearchEnvelope) (models.ShowSummary, error) {
	raw := envelope.Show
	if raw == nil {
		return models.ShowSummary{}, apperrors.NewShapeError(searchPayload, index, "missing show")
	}
	if raw.ID == nil {
		return models.ShowSummary{}, apperrors.NewShapeError(searchPayload, index, "missing show id")
	}

	show := models.ShowSummary{
		ID:       *raw.ID,
		Name:     raw.Name,
		ImageURL: p.missingImageURL,
	}
	if raw.Summary != nil {
		show.Summary = *raw.Summary
	}
	if raw.Image != nil && raw.Image.Medium != "" {
		show.ImageURL = raw.Image.Medium
	}
	return show, nil
}
