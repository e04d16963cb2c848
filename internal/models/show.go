package models

// ShowSummary represents a TV show normalized for display
type ShowSummary struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Summary  string `json:"summary"`  // May contain inline markup from the catalog
	ImageURL string `json:"imageUrl"` // Always populated, falls back to the placeholder image
}

// SearchEnvelope is one entry of the catalog search response.
// Only Show is read; the relevance score is ignored.
type SearchEnvelope struct {
	Show *RawShow `json:"show"`
}

// RawShow is the catalog representation of a show
type RawShow struct {
	ID      *int      `json:"id"`
	Name    string    `json:"name"`
	Summary *string   `json:"summary"`
	Image   *RawImage `json:"image"`
}

// RawImage holds the artwork URLs of a show; only the medium size is used
type RawImage struct {
	Medium   string `json:"medium"`
	Original string `json:"original"`
}
