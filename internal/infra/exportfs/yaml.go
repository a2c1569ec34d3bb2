// Package exportfs writes conversion results to disk.
package exportfs

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sleroq/wordpress-to-yaml/internal/domain/wordpress"
)

// EncodeRecords writes records as one YAML sequence, keeping field order
// and rendering multi-line strings as literal blocks.
func EncodeRecords(w io.Writer, records []*wordpress.Record) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, r := range records {
		seq.Content = append(seq.Content, RecordNode(r, true))
	}
	return encode(w, flowAware(seq))
}

// EncodeValue writes a single value as a YAML document.
func EncodeValue(w io.Writer, v wordpress.Value) error {
	return encode(w, ValueNode(v))
}

func encode(w io.Writer, n *yaml.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return nil
}

// RecordNode builds the mapping for one record. Empty identity fields are
// null; content is omitted when withContent is false.
func RecordNode(r *wordpress.Record, withContent bool) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	add := func(key string, v *yaml.Node) {
		m.Content = append(m.Content, stringNode(key), v)
	}
	add("id", optionalString(r.ID))
	add("title", optionalString(r.Title))
	add("slug", optionalString(r.Slug))
	add("post_type", optionalString(r.PostType))
	add("post_date", optionalString(r.PostDate))
	if withContent {
		add("content", stringNode(r.Content))
	}
	add("taxonomies", taxonomiesNode(r.Taxonomies))
	add("custom_fields", ValueNode(r.CustomFields))
	return m
}

func taxonomiesNode(taxonomies []wordpress.Taxonomy) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, tax := range taxonomies {
		terms := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, term := range tax.Terms {
			terms.Content = append(terms.Content, &yaml.Node{
				Kind: yaml.MappingNode,
				Tag:  "!!map",
				Content: []*yaml.Node{
					stringNode("name"), optionalString(term.Name),
					stringNode("slug"), stringNode(term.Slug),
				},
			})
		}
		m.Content = append(m.Content, stringNode(tax.Domain), flowAware(terms))
	}
	return flowAware(m)
}

// ValueNode converts a normalized value into a YAML node.
func ValueNode(v wordpress.Value) *yaml.Node {
	switch t := v.(type) {
	case nil, wordpress.Null:
		return nullNode()
	case wordpress.Scalar:
		return scalarNode(t)
	case wordpress.Sequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range t {
			n.Content = append(n.Content, ValueNode(item))
		}
		return flowAware(n)
	case wordpress.Mapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range t {
			n.Content = append(n.Content, scalarNode(e.Key), ValueNode(e.Value))
		}
		return flowAware(n)
	default:
		panic(fmt.Sprintf("exportfs: unexpected value %T", v))
	}
}

func scalarNode(s wordpress.Scalar) *yaml.Node {
	switch s.Type {
	case wordpress.ScalarInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: s.Text}
	case wordpress.ScalarBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: s.Text}
	case wordpress.ScalarFloat:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: floatText(s.Text)}
	default:
		return stringNode(s.Text)
	}
}

func floatText(text string) string {
	switch text {
	case "INF":
		return ".inf"
	case "-INF":
		return "-.inf"
	case "NAN":
		return ".nan"
	}
	if _, err := strconv.ParseInt(text, 10, 64); err == nil {
		return text + ".0"
	}
	return text
}

// yaml11Bools are plain scalars that YAML 1.1 readers load as booleans.
// The encoder only resolves tags the YAML 1.2 way, so these need explicit
// quoting.
var yaml11Bools = map[string]struct{}{
	"y": {}, "Y": {}, "yes": {}, "Yes": {}, "YES": {},
	"n": {}, "N": {}, "no": {}, "No": {}, "NO": {},
	"on": {}, "On": {}, "ON": {},
	"off": {}, "Off": {}, "OFF": {},
}

func stringNode(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if strings.Contains(s, "\n") {
		n.Style = yaml.LiteralStyle
	} else if _, ok := yaml11Bools[s]; ok {
		n.Style = yaml.DoubleQuotedStyle
	}
	return n
}

func optionalString(s string) *yaml.Node {
	if s == "" {
		return nullNode()
	}
	return stringNode(s)
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

// flowAware renders empty collections inline as [] or {}.
func flowAware(n *yaml.Node) *yaml.Node {
	if len(n.Content) == 0 {
		n.Style = yaml.FlowStyle
	} else {
		n.Style = 0
	}
	return n
}
