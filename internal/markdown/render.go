package markdown

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/net/html"
)

var reWhitespaceRun = regexp.MustCompile(`[\t\n\r\f ]+`)

type renderContext struct {
	// inline is set inside headings, where block markup collapses to text.
	inline    bool
	pre       bool
	listDepth int
}

// renderer converts a parsed HTML tree into Markdown. Only the element
// allowlist below produces markup; every other element contributes its
// text. Literal Markdown characters in text are not escaped.
type renderer struct {
	wrapWidth int
}

func (r *renderer) children(n *html.Node, ctx renderContext) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(r.node(c, ctx))
	}
	return b.String()
}

func (r *renderer) node(n *html.Node, ctx renderContext) string {
	switch n.Type {
	case html.TextNode:
		if ctx.pre {
			return n.Data
		}
		return reWhitespaceRun.ReplaceAllString(n.Data, " ")
	case html.ElementNode:
		return r.element(n, ctx)
	case html.DocumentNode:
		return r.children(n, ctx)
	default:
		return ""
	}
}

func (r *renderer) element(n *html.Node, ctx renderContext) string {
	switch n.Data {
	case "script", "style", "head", "template":
		return ""
	case "p":
		return r.paragraph(n, ctx)
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return r.heading(n, ctx)
	case "strong", "b":
		return emphasis(r.children(n, ctx), "**")
	case "em", "i":
		return emphasis(r.children(n, ctx), "*")
	case "code", "kbd", "samp":
		if ctx.pre {
			return r.children(n, ctx)
		}
		return emphasis(r.children(n, ctx), "`")
	case "pre":
		return r.preformatted(n, ctx)
	case "a":
		return r.link(n, ctx)
	case "img":
		return r.image(n, ctx)
	case "ul", "ol":
		return r.list(n, ctx)
	case "li":
		// A list item outside of any list.
		return "- " + strings.TrimSpace(r.children(n, ctx)) + "\n"
	case "blockquote":
		return r.blockquote(n, ctx)
	case "br":
		if ctx.inline {
			return ""
		}
		return "  \n"
	case "hr":
		return "\n\n---\n\n"
	default:
		return r.children(n, ctx)
	}
}

func (r *renderer) paragraph(n *html.Node, ctx renderContext) string {
	text := strings.TrimSpace(r.children(n, ctx))
	if ctx.inline {
		return text
	}
	if text == "" {
		return ""
	}
	if r.wrapWidth > 0 {
		text = ansi.Wordwrap(text, r.wrapWidth, "")
	}
	return "\n\n" + text + "\n\n"
}

func (r *renderer) heading(n *html.Node, ctx renderContext) string {
	inner := ctx
	inner.inline = true
	text := strings.TrimSpace(reWhitespaceRun.ReplaceAllString(r.children(n, inner), " "))
	if ctx.inline {
		return text
	}
	if text == "" {
		return ""
	}
	level, _ := strconv.Atoi(n.Data[1:])
	return "\n\n" + strings.Repeat("#", level) + " " + text + "\n\n"
}

func (r *renderer) preformatted(n *html.Node, ctx renderContext) string {
	inner := ctx
	inner.pre = true
	code := strings.Trim(r.children(n, inner), "\n")
	if code == "" {
		return ""
	}
	return "\n\n```\n" + code + "\n```\n\n"
}

func (r *renderer) link(n *html.Node, ctx renderContext) string {
	prefix, text, suffix := chomp(r.children(n, ctx))
	if text == "" {
		return ""
	}
	href, _ := attr(n, "href")
	if href == "" {
		return prefix + text + suffix
	}
	title, hasTitle := attr(n, "title")
	if text == href && !hasTitle {
		return prefix + "<" + href + ">" + suffix
	}
	if title == "" {
		title = href
	}
	return fmt.Sprintf("%s[%s](%s %q)%s", prefix, text, href, title, suffix)
}

func (r *renderer) image(n *html.Node, ctx renderContext) string {
	alt, _ := attr(n, "alt")
	if ctx.inline {
		return alt
	}
	src, _ := attr(n, "src")
	title, _ := attr(n, "title")
	if title == "" {
		title = alt
	}
	if title == "" {
		return "![" + alt + "](" + src + ")"
	}
	return fmt.Sprintf("![%s](%s %q)", alt, src, title)
}

func (r *renderer) list(n *html.Node, ctx renderContext) string {
	ordered := n.Data == "ol"
	number := 1
	if s, ok := attr(n, "start"); ok && ordered {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			number = v
		}
	}

	inner := ctx
	inner.listDepth++

	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			if text := strings.TrimSpace(r.node(c, inner)); text != "" {
				b.WriteString(text + "\n")
			}
			continue
		}
		bullet := "-"
		if ordered {
			bullet = strconv.Itoa(number) + "."
			number++
		}
		body := strings.TrimSpace(r.children(c, inner))
		b.WriteString(bullet + " " + indentContinuation(body, len(bullet)+1) + "\n")
	}

	if ctx.listDepth > 0 {
		return "\n" + b.String()
	}
	return "\n\n" + b.String() + "\n"
}

func (r *renderer) blockquote(n *html.Node, ctx renderContext) string {
	text := strings.TrimSpace(r.children(n, ctx))
	if text == "" {
		return ""
	}
	if ctx.inline {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ">"
			continue
		}
		lines[i] = "> " + line
	}
	return "\n\n" + strings.Join(lines, "\n") + "\n\n"
}

// emphasis wraps text in marker, keeping surrounding whitespace outside the
// markers.
func emphasis(s, marker string) string {
	prefix, text, suffix := chomp(s)
	if text == "" {
		return prefix + suffix
	}
	return prefix + marker + text + marker + suffix
}

func chomp(s string) (prefix, text, suffix string) {
	if s != "" && (s[0] == ' ' || s[0] == '\n') {
		prefix = " "
	}
	if s != "" && (s[len(s)-1] == ' ' || s[len(s)-1] == '\n') {
		suffix = " "
	}
	return prefix, strings.TrimSpace(s), suffix
}

func indentContinuation(s string, width int) string {
	pad := strings.Repeat(" ", width)
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = pad + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
