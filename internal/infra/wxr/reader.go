// Package wxr streams items out of a WordPress eXtended RSS export.
package wxr

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

const (
	wpNamespacePrefix = "http://wordpress.org/export/"
	contentNamespace  = "http://purl.org/rss/1.0/modules/content/"
)

type Category struct {
	Domain      string
	Nicename    string
	HasNicename bool
	Name        string
}

type Meta struct {
	Key      string
	Value    string
	HasValue bool
}

// Item holds the fields of one <item> element. Missing elements read as
// empty strings.
type Item struct {
	PostID     string
	Title      string
	PostName   string
	PostType   string
	PostDate   string
	Content    string
	Categories []Category
	Meta       []Meta
}

// DocumentError reports a problem with the document as a whole. It is
// fatal to a conversion run.
type DocumentError struct {
	Offset int64
	Err    error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("malformed export document near byte %d: %v", e.Offset, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

var errNoRoot = errors.New("no root element")

// Reader decodes one item at a time so memory stays proportional to a
// single item.
type Reader struct {
	dec      *xml.Decoder
	filter   *charFilter
	sawRoot  bool
	finished bool
}

func NewReader(r io.Reader) *Reader {
	filter := &charFilter{src: r}
	dec := xml.NewDecoder(filter)
	dec.Strict = true
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel
	return &Reader{dec: dec, filter: filter}
}

// OnIllegalChar registers fn to be told about every control character
// dropped from the input, with its byte offset in the original stream.
func (r *Reader) OnIllegalChar(fn func(offset int64, c byte)) {
	r.filter.onDrop = fn
}

// Offset is the number of input bytes consumed so far.
func (r *Reader) Offset() int64 { return r.dec.InputOffset() }

// Next returns the next item, or io.EOF once the document is exhausted.
func (r *Reader) Next() (Item, error) {
	if r.finished {
		return Item{}, io.EOF
	}
	for {
		tok, err := r.dec.Token()
		if err == io.EOF {
			r.finished = true
			if !r.sawRoot {
				return Item{}, &DocumentError{Offset: r.Offset(), Err: errNoRoot}
			}
			return Item{}, io.EOF
		}
		if err != nil {
			r.finished = true
			return Item{}, &DocumentError{Offset: r.Offset(), Err: err}
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		r.sawRoot = true
		if start.Name.Space != "" || start.Name.Local != "item" {
			continue
		}
		var n node
		if err := r.dec.DecodeElement(&n, &start); err != nil {
			r.finished = true
			return Item{}, &DocumentError{Offset: r.Offset(), Err: err}
		}
		return n.item(), nil
	}
}

// ReadItems calls fn for every item in document order. An error from fn
// stops the walk and is returned as is.
func ReadItems(src io.Reader, fn func(Item) error) error {
	r := NewReader(src)
	for {
		it, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(it); err != nil {
			return err
		}
	}
}

type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []node     `xml:",any"`
}

func (n node) attr(local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// child returns the first child element matching the namespace test and
// local name.
func (n node) child(inSpace func(string) bool, local string) (node, bool) {
	for _, c := range n.Children {
		if c.XMLName.Local == local && inSpace(c.XMLName.Space) {
			return c, true
		}
	}
	return node{}, false
}

func (n node) childText(inSpace func(string) bool, local string) string {
	c, ok := n.child(inSpace, local)
	if !ok {
		return ""
	}
	return c.Text
}

func (n node) item() Item {
	it := Item{
		PostID:   n.childText(isWPNamespace, "post_id"),
		Title:    n.childText(isNoNamespace, "title"),
		PostName: n.childText(isWPNamespace, "post_name"),
		PostType: n.childText(isWPNamespace, "post_type"),
		PostDate: n.childText(isWPNamespace, "post_date"),
		Content:  n.childText(isContentNamespace, "encoded"),
	}
	for _, c := range n.Children {
		switch {
		case c.XMLName.Local == "category" && c.XMLName.Space == "":
			domain, _ := c.attr("domain")
			nicename, hasNicename := c.attr("nicename")
			it.Categories = append(it.Categories, Category{
				Domain:      domain,
				Nicename:    nicename,
				HasNicename: hasNicename,
				Name:        c.Text,
			})
		case c.XMLName.Local == "postmeta" && isWPNamespace(c.XMLName.Space):
			var m Meta
			m.Key = c.childText(isWPNamespace, "meta_key")
			if v, ok := c.child(isWPNamespace, "meta_value"); ok {
				m.Value = v.Text
				m.HasValue = true
			}
			it.Meta = append(it.Meta, m)
		}
	}
	return it
}

func isNoNamespace(space string) bool { return space == "" }

func isContentNamespace(space string) bool { return space == contentNamespace }

// isWPNamespace accepts http://wordpress.org/export/<version>/ for any
// version, and nothing nested below it (such as the excerpt namespace).
func isWPNamespace(space string) bool {
	if !strings.HasPrefix(space, wpNamespacePrefix) {
		return false
	}
	version := strings.TrimSuffix(strings.TrimPrefix(space, wpNamespacePrefix), "/")
	return version != "" && !strings.Contains(version, "/")
}
