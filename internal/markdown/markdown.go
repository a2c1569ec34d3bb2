// Package markdown converts post HTML into Markdown.
package markdown

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultWidth is the paragraph wrap width used by Convert callers that do
// not pick one.
const DefaultWidth = 80

// ConvertDocument runs the full content pipeline: implicit paragraphs are
// made explicit, top-level inline runs are grouped into paragraphs, the
// tree is rendered and the output tidied. Paragraphs are not wrapped.
func ConvertDocument(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(Paragraphize(fragment)))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style").Remove()
	body := doc.Find("body")
	groupInlineRuns(body)

	r := &renderer{}
	return Postprocess(r.children(body.Get(0), renderContext{})), nil
}

// Convert renders an HTML fragment as is, without paragraph inference,
// wrapping paragraph text at width columns. A width of zero disables
// wrapping.
func Convert(fragment string, width int) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	body := doc.Find("body")
	if body.Length() == 0 {
		return "", nil
	}

	r := &renderer{wrapWidth: width}
	out := r.children(body.Get(0), renderContext{})
	out = strings.ReplaceAll(out, "\r\n", "\n")
	out = reWhitespaceLines.ReplaceAllString(out, "")
	out = reExcessNewlines.ReplaceAllString(out, "\n\n")
	return strings.Trim(out, "\n"), nil
}
