package render

import (
	"html/template"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// allowedSummaryTags is the inline markup kept from catalog summaries
var allowedSummaryTags = map[atom.Atom]bool{
	atom.P:      true,
	atom.B:      true,
	atom.I:      true,
	atom.Em:     true,
	atom.Strong: true,
	atom.Br:     true,
}

// SanitizeSummary keeps the allowlisted tags of a catalog summary without any
// of their attributes. Other tags are dropped (their text is kept, escaped) and
// the content of script and style elements is removed entirely.
func SanitizeSummary(summary string) template.HTML {
	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(summary))
	skip := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			return template.HTML(sb.String())
		case html.TextToken:
			if skip == 0 {
				sb.WriteString(html.EscapeString(string(z.Text())))
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.DataAtom == atom.Script || tok.DataAtom == atom.Style {
				if tok.Type == html.StartTagToken {
					skip++
				}
				continue
			}
			if skip == 0 && allowedSummaryTags[tok.DataAtom] {
				sb.WriteString("<" + tok.Data + ">")
			}
		case html.EndTagToken:
			tok := z.Token()
			if tok.DataAtom == atom.Script || tok.DataAtom == atom.Style {
				if skip > 0 {
					skip--
				}
				continue
			}
			if skip == 0 && allowedSummaryTags[tok.DataAtom] && tok.DataAtom != atom.Br {
				sb.WriteString("</" + tok.Data + ">")
			}
		}
	}
}
