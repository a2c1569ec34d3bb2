package markdown

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockTags are the elements that end an inline run at the top level.
var blockTags = map[string]struct{}{
	"address": {}, "article": {}, "aside": {}, "blockquote": {}, "canvas": {},
	"dd": {}, "div": {}, "dl": {}, "dt": {}, "fieldset": {}, "figcaption": {},
	"figure": {}, "footer": {}, "form": {}, "h1": {}, "h2": {}, "h3": {},
	"h4": {}, "h5": {}, "h6": {}, "header": {}, "hr": {}, "li": {}, "main": {},
	"nav": {}, "noscript": {}, "ol": {}, "output": {}, "p": {}, "pre": {},
	"section": {}, "table": {}, "tfoot": {}, "ul": {}, "video": {},
}

func isBlock(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	_, ok := blockTags[n.Data]
	return ok
}

// groupInlineRuns wraps every maximal run of consecutive non-block
// children of body in a single <p>. Block children are kept in place.
func groupInlineRuns(body *goquery.Selection) {
	if body.Length() == 0 {
		return
	}
	root := body.Get(0)

	kids := body.Contents().Nodes
	for _, c := range kids {
		root.RemoveChild(c)
	}

	var run *html.Node
	for _, c := range kids {
		if isBlock(c) {
			run = nil
			root.AppendChild(c)
			continue
		}
		if run == nil {
			run = &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P}
			root.AppendChild(run)
		}
		run.AppendChild(c)
	}
}
