// Package render writes the HTML fragments that replace the shows and episodes
// containers of the page. Each function receives the container it fills as an
// io.Writer and writes its complete new content.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/Belphemur/ShowFinder/internal/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("render").
		Funcs(template.FuncMap{"sanitize": SanitizeSummary}).
		ParseFS(templateFS, "templates/*.tmpl"),
)

// PageData feeds the full page template
type PageData struct {
	Title string
	Term  string
	Shows []models.ShowSummary
}

// RenderShows writes one card per show, in input order.
func RenderShows(w io.Writer, shows []models.ShowSummary) error {
	if err := templates.ExecuteTemplate(w, "shows", shows); err != nil {
		return fmt.Errorf("render shows: %w", err)
	}
	return nil
}

// RenderEpisodes writes one list item per episode, in input order.
func RenderEpisodes(w io.Writer, episodes []models.Episode) error {
	if err := templates.ExecuteTemplate(w, "episodes", episodes); err != nil {
		return fmt.Errorf("render episodes: %w", err)
	}
	return nil
}

// RenderPage writes the whole document with the search form and both containers.
func RenderPage(w io.Writer, data PageData) error {
	if data.Title == "" {
		data.Title = "TV Show Search"
	}
	if err := templates.ExecuteTemplate(w, "page", data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
