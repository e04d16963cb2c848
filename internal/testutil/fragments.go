package testutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// ParseFragment parses a rendered HTML fragment for assertions.
func ParseFragment(t *testing.T, fragment string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		t.Fatalf("parse fragment: %v", err)
	}
	return doc
}

// ShowCardIDs returns the data-show-id attribute of every show card, in document order.
func ShowCardIDs(doc *goquery.Document) []string {
	var ids []string
	doc.Find("div.Show").Each(func(_ int, card *goquery.Selection) {
		id, _ := card.Attr("data-show-id")
		ids = append(ids, id)
	})
	return ids
}

// EpisodeLines returns the trimmed text of every list item, in document order.
func EpisodeLines(doc *goquery.Document) []string {
	var lines []string
	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		lines = append(lines, strings.TrimSpace(li.Text()))
	})
	return lines
}
