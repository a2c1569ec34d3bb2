package markdown

import (
	"regexp"
	"strings"
)

var (
	reBlockLine       = regexp.MustCompile(`(?m)([^\n])\n([#\->])`)
	reExcessNewlines  = regexp.MustCompile(`\n{3,}`)
	reWhitespaceLines = regexp.MustCompile(`(?m)^[ \t]+$`)
)

// Postprocess tidies rendered Markdown: headings, bullets and quotes get a
// blank line before them, line endings become LF, runs of blank lines
// collapse to one and the result is trimmed.
func Postprocess(md string) string {
	md = strings.ReplaceAll(md, "\r\n", "\n")
	md = strings.ReplaceAll(md, "\r", "\n")
	md = reWhitespaceLines.ReplaceAllString(md, "")
	md = reBlockLine.ReplaceAllString(md, "$1\n\n$2")
	md = reExcessNewlines.ReplaceAllString(md, "\n\n")
	return strings.TrimSpace(md)
}
