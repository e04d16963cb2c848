package testutil

import (
	"encoding/json"
	"strconv"

	"github.com/Belphemur/ShowFinder/internal/models"
)

// IntPtr is a helper for creating *int values in tests
func IntPtr(v int) *int {
	return &v
}

// ShowOptions contains options for generating one search envelope
type ShowOptions struct {
	ID          int
	Name        string
	Summary     string
	ImageURL    string // Empty means "image": null
	EmptyMedium bool   // Emit an image object whose medium URL is empty
	Score       float64
}

type rawImage struct {
	Medium   string `json:"medium"`
	Original string `json:"original"`
}

type rawShow struct {
	ID       int       `json:"id"`
	URL      string    `json:"url"`
	Name     string    `json:"name"`
	Language string    `json:"language"`
	Summary  string    `json:"summary"`
	Image    *rawImage `json:"image"`
}

type rawEnvelope struct {
	Score float64 `json:"score"`
	Show  rawShow `json:"show"`
}

type rawEpisode struct {
	ID      int    `json:"id"`
	URL     string `json:"url"`
	Name    string `json:"name"`
	Season  int    `json:"season"`
	Number  int    `json:"number"`
	Type    string `json:"type"`
	Runtime int    `json:"runtime"`
}

// GenerateSearchJSON generates a search response body shaped like the TVmaze
// /search/shows endpoint, including the fields the client ignores.
func GenerateSearchJSON(shows []ShowOptions) string {
	envelopes := make([]rawEnvelope, 0, len(shows))
	for _, s := range shows {
		show := rawShow{
			ID:       s.ID,
			URL:      "https://www.tvmaze.com/shows/" + strconv.Itoa(s.ID),
			Name:     s.Name,
			Language: "English",
			Summary:  s.Summary,
		}
		switch {
		case s.EmptyMedium:
			show.Image = &rawImage{}
		case s.ImageURL != "":
			show.Image = &rawImage{Medium: s.ImageURL, Original: s.ImageURL}
		}
		score := s.Score
		if score == 0 {
			score = 0.5
		}
		envelopes = append(envelopes, rawEnvelope{Score: score, Show: show})
	}
	return mustMarshal(envelopes)
}

// GenerateEpisodesJSON generates an episodes response body shaped like the
// TVmaze /shows/{id}/episodes endpoint.
func GenerateEpisodesJSON(episodes []models.Episode) string {
	raws := make([]rawEpisode, 0, len(episodes))
	for _, e := range episodes {
		raws = append(raws, rawEpisode{
			ID:      e.ID,
			URL:     "https://www.tvmaze.com/episodes/" + strconv.Itoa(e.ID),
			Name:    e.Name,
			Season:  e.Season,
			Number:  e.Number,
			Type:    "regular",
			Runtime: 60,
		})
	}
	return mustMarshal(raws)
}

func mustMarshal(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
