package markdown

import (
	"regexp"
	"strings"
)

var (
	reBlankLinesBetweenText = regexp.MustCompile(`([^\n>])\n{2,}([^\n<])`)
	reNewlineBetweenText    = regexp.MustCompile(`([^\n>])\n([^\n<])`)
	reBreakRun              = regexp.MustCompile(`(?i)(<br\s*/?>\s*){2,}`)
	reBreakThenNewline      = regexp.MustCompile(`(?i)<br\s*/?>\s*[\r\n]+`)
)

const paragraphBoundary = "</p><p>"

// Paragraphize turns the implicit paragraphs of editor HTML (text separated
// by newlines or repeated <br>) into explicit <p> elements and makes sure
// the fragment is wrapped in one.
func Paragraphize(fragment string) string {
	out := reBlankLinesBetweenText.ReplaceAllString(fragment, "${1}"+paragraphBoundary+"${2}")
	out = reNewlineBetweenText.ReplaceAllString(out, "${1}"+paragraphBoundary+"${2}")
	out = reBreakRun.ReplaceAllString(out, paragraphBoundary)
	out = reBreakThenNewline.ReplaceAllString(out, paragraphBoundary)

	out = strings.TrimSpace(out)
	lower := strings.ToLower(out)
	if !strings.HasPrefix(lower, "<p>") {
		out = "<p>" + out
	}
	if !strings.HasSuffix(lower, "</p>") {
		out += "</p>"
	}
	return out
}
