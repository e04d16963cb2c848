package models

import "fmt"

// Episode represents a single episode of a show normalized for display
type Episode struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Season int    `json:"season"`
	Number int    `json:"number"` // Episode index within the season
}

// Label formats the episode as "<name> (<season>, <number>)".
func (e Episode) Label() string {
	return fmt.Sprintf("%s (%d, %d)", e.Name, e.Season, e.Number)
}

// RawEpisode is the catalog representation of an episode
type RawEpisode struct {
	ID     *int   `json:"id"`
	Name   string `json:"name"`
	Season *int   `json:"season"`
	Number *int   `json:"number"`
}
