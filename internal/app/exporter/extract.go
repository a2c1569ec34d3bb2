package exporter

import (
	"io"

	"github.com/sleroq/wordpress-to-yaml/internal/domain/wordpress"
	"github.com/sleroq/wordpress-to-yaml/internal/infra/phpserialize"
	"github.com/sleroq/wordpress-to-yaml/internal/infra/wxr"
	"github.com/sleroq/wordpress-to-yaml/internal/logging"
	"github.com/sleroq/wordpress-to-yaml/internal/markdown"
)

type extractor struct {
	fields   wordpress.FieldFilter
	markdown bool
	log      logging.Logger
	items    int
	warnings int
}

func newExtractor(fields wordpress.FieldFilter, convertToMarkdown bool, log logging.Logger) *extractor {
	return &extractor{fields: fields, markdown: convertToMarkdown, log: logging.OrNoOp(log)}
}

// extractAll reads every item, indexing attachments whether or not the
// type filter keeps them in the output.
func (x *extractor) extractAll(r *wxr.Reader, types wordpress.TypeFilter, bar *exportProgressBar) ([]*wordpress.Record, wordpress.AttachmentIndex, error) {
	var records []*wordpress.Record
	index := wordpress.AttachmentIndex{}
	for {
		it, err := r.Next()
		if err == io.EOF {
			return records, index, nil
		}
		if err != nil {
			return nil, nil, err
		}
		x.items++
		rec := x.record(it)
		index.Add(rec)
		if types.Includes(rec.PostType) {
			records = append(records, rec)
		}
		if bar != nil {
			bar.Advance(r.Offset(), "reading items")
		}
	}
}

func (x *extractor) record(it wxr.Item) *wordpress.Record {
	rec := &wordpress.Record{
		ID:       it.PostID,
		Title:    it.Title,
		Slug:     it.PostName,
		PostType: it.PostType,
		PostDate: it.PostDate,
		Content:  it.Content,
	}

	if x.markdown && rec.Content != "" {
		md, err := markdown.ConvertDocument(rec.Content)
		if err != nil {
			x.log.Warn("content kept as html", "post_id", rec.ID, "error", err)
		} else {
			rec.Content = md
		}
	}

	for _, c := range it.Categories {
		if c.Domain == "" || !c.HasNicename {
			continue
		}
		rec.AddTerm(c.Domain, wordpress.Term{Name: c.Name, Slug: c.Nicename})
	}

	for _, m := range it.Meta {
		if m.Key == "" || !m.HasValue {
			continue
		}
		if x.fields.Excludes(m.Key) {
			continue
		}
		v, err := decodeMeta(m.Value)
		if err != nil {
			x.warnings++
			x.log.Warn("custom field kept as raw text", "post_id", rec.ID, "meta_key", m.Key, "error", err)
		}
		rec.AddCustomField(m.Key, v)
	}
	return rec
}

// decodeMeta turns a raw meta value into a normalized value. Values that
// look serialized but fail to decode come back as the raw text together
// with the decode error.
func decodeMeta(raw string) (wordpress.Value, error) {
	if raw == "" {
		return wordpress.Null{}, nil
	}
	var (
		v   wordpress.Value = wordpress.String(raw)
		err error
	)
	if phpserialize.LooksSerialized(raw) {
		decoded, decodeErr := phpserialize.Decode(raw)
		if decodeErr != nil {
			err = decodeErr
		} else {
			v = decoded
		}
	}
	return wordpress.NormalizeSequential(v), err
}
