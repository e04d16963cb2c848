package render

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/Belphemur/ShowFinder/internal/models"
	"github.com/Belphemur/ShowFinder/internal/testutil"
)

func TestRenderShows_CardsInOrder(t *testing.T) {
	shows := []models.ShowSummary{
		{ID: 1, Name: "First", Summary: "<p>One</p>", ImageURL: "https://static.tvmaze.com/1.jpg"},
		{ID: 2, Name: "Second", Summary: "Two", ImageURL: "https://tinyurl.com/tv-missing"},
	}

	var buf bytes.Buffer
	if err := RenderShows(&buf, shows); err != nil {
		t.Fatalf("RenderShows failed: %v", err)
	}

	doc := testutil.ParseFragment(t, buf.String())
	if ids := testutil.ShowCardIDs(doc); !reflect.DeepEqual(ids, []string{"1", "2"}) {
		t.Fatalf("Expected cards [1 2], got %v", ids)
	}

	second := doc.Find(`div.Show[data-show-id="2"]`)
	if got := strings.TrimSpace(second.Find("h5").Text()); got != "Second" {
		t.Errorf("Expected name 'Second', got %q", got)
	}
	if src, _ := second.Find("img").Attr("src"); src != "https://tinyurl.com/tv-missing" {
		t.Errorf("Expected image src, got %q", src)
	}
	if alt, _ := second.Find("img").Attr("alt"); alt != "Second" {
		t.Errorf("Expected alt text to be the show name, got %q", alt)
	}
	if doc.Find("button.Show-getEpisodes").Length() != 2 {
		t.Errorf("Expected an Episodes trigger per card")
	}
	if got := doc.Find(`div.Show[data-show-id="1"] small p`).Text(); got != "One" {
		t.Errorf("Expected summary paragraph to be kept, got %q", got)
	}
}

func TestRenderShows_NoDedupOrSorting(t *testing.T) {
	shows := []models.ShowSummary{
		{ID: 9, Name: "Z"},
		{ID: 3, Name: "A"},
		{ID: 9, Name: "Z"},
	}

	var buf bytes.Buffer
	if err := RenderShows(&buf, shows); err != nil {
		t.Fatalf("RenderShows failed: %v", err)
	}

	ids := testutil.ShowCardIDs(testutil.ParseFragment(t, buf.String()))
	if !reflect.DeepEqual(ids, []string{"9", "3", "9"}) {
		t.Errorf("Expected input order with duplicates, got %v", ids)
	}
}

func TestRenderShows_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderShows(&buf, nil); err != nil {
		t.Fatalf("RenderShows failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "" {
		t.Errorf("Expected empty fragment, got %q", buf.String())
	}
}

func TestRenderShows_EscapesCatalogText(t *testing.T) {
	shows := []models.ShowSummary{{
		ID:       4,
		Name:     `<script>alert("x")</script>`,
		Summary:  `<p onclick="steal()">Hi<script>alert(1)</script></p>`,
		ImageURL: "javascript:alert(1)",
	}}

	var buf bytes.Buffer
	if err := RenderShows(&buf, shows); err != nil {
		t.Fatalf("RenderShows failed: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "<script>") {
		t.Errorf("Expected no script element in output: %s", out)
	}
	if strings.Contains(out, "onclick") {
		t.Errorf("Expected attributes to be stripped from summary: %s", out)
	}
	if strings.Contains(out, `src="javascript:`) {
		t.Errorf("Expected unsafe image URL to be neutralized: %s", out)
	}
}

func TestRenderEpisodes(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderEpisodes(&buf, []models.Episode{{ID: 1, Name: "Pilot", Season: 1, Number: 1}}); err != nil {
		t.Fatalf("RenderEpisodes failed: %v", err)
	}

	lines := testutil.EpisodeLines(testutil.ParseFragment(t, buf.String()))
	if !reflect.DeepEqual(lines, []string{"Pilot (1, 1)"}) {
		t.Errorf("Expected one line 'Pilot (1, 1)', got %v", lines)
	}
}

func TestRenderEpisodes_Order(t *testing.T) {
	episodes := []models.Episode{
		{ID: 3, Name: "Finale", Season: 2, Number: 10},
		{ID: 1, Name: "Pilot", Season: 1, Number: 1},
		{ID: 2, Name: "Tom & Jerry", Season: 1, Number: 2},
	}

	var buf bytes.Buffer
	if err := RenderEpisodes(&buf, episodes); err != nil {
		t.Fatalf("RenderEpisodes failed: %v", err)
	}

	lines := testutil.EpisodeLines(testutil.ParseFragment(t, buf.String()))
	expected := []string{"Finale (2, 10)", "Pilot (1, 1)", "Tom & Jerry (1, 2)"}
	if !reflect.DeepEqual(lines, expected) {
		t.Errorf("Expected %v, got %v", expected, lines)
	}
	if !strings.Contains(buf.String(), "Tom &amp; Jerry") {
		t.Errorf("Expected episode names to be escaped: %s", buf.String())
	}
}

func TestRenderPage(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPage(&buf, PageData{Term: "girls", Shows: []models.ShowSummary{{ID: 139, Name: "Girls"}}})
	if err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}

	doc := testutil.ParseFragment(t, buf.String())
	if doc.Find("form#searchForm input#searchForm-term").Length() != 1 {
		t.Error("Expected search form with term input")
	}
	if val, _ := doc.Find("#searchForm-term").Attr("value"); val != "girls" {
		t.Errorf("Expected term to be prefilled, got %q", val)
	}
	if ids := testutil.ShowCardIDs(doc); !reflect.DeepEqual(ids, []string{"139"}) {
		t.Errorf("Expected prerendered show card, got %v", ids)
	}
	if style, _ := doc.Find("#episodesArea").Attr("style"); !strings.Contains(style, "display: none") {
		t.Errorf("Expected episodes area hidden initially, got style %q", style)
	}
	if doc.Find("#episodesArea ul#episodesList").Length() != 1 {
		t.Error("Expected episodes list inside episodes area")
	}
	if src, _ := doc.Find("script").Attr("src"); src != "/static/app.js" {
		t.Errorf("Expected browser binding script, got %q", src)
	}
	if got := doc.Find("title").Text(); got != "TV Show Search" {
		t.Errorf("Expected default title, got %q", got)
	}
}
