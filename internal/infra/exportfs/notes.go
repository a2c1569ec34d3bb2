package exportfs

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/sleroq/wordpress-to-yaml/internal/domain/wordpress"
)

// RenderNote returns a Markdown note for r: a front-matter block with every
// field except content, then the content as body.
func RenderNote(r *wordpress.Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	if err := encode(&buf, RecordNode(r, false)); err != nil {
		return nil, err
	}
	buf.WriteString("---\n")
	if body := strings.TrimSpace(r.Content); body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// WriteNote writes the note for r to path and stamps it with the record's
// post date.
func WriteNote(path string, r *wordpress.Record) error {
	data, err := RenderNote(r)
	if err != nil {
		return fmt.Errorf("render note %s: %w", r.ID, err)
	}
	if err := WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}); err != nil {
		return fmt.Errorf("write note %s: %w", r.ID, err)
	}
	if err := ApplyPostDateTimes(path, r.PostDate); err != nil {
		return fmt.Errorf("apply note timestamps %s: %w", r.ID, err)
	}
	return nil
}
