package wordpress

import "strings"

// ResolveReport counts what the resolver touched. Unresolved identifiers
// are kept raw in the records; the report only lists them.
type ResolveReport struct {
	Galleries  int
	Thumbnails int
	Resolved   int
	Unresolved []UnresolvedRef
}

type UnresolvedRef struct {
	RecordID string
	Field    string
	Ref      string
}

// ResolveReferences rewrites gallery and thumbnail identifiers in records
// to attachment file paths found in idx.
func ResolveReferences(records []*Record, idx AttachmentIndex) ResolveReport {
	var report ResolveReport
	for _, r := range records {
		if resolveGallery(r, idx, &report) {
			report.Galleries++
		}
		if resolveThumbnail(r, idx, &report) {
			report.Thumbnails++
		}
	}
	return report
}

func resolveGallery(r *Record, idx AttachmentIndex, report *ResolveReport) bool {
	raw, ok := r.CustomFields.Get(GalleryField)
	if !ok {
		return false
	}
	ids, ok := galleryIDs(NormalizeSequential(raw))
	if !ok {
		return false
	}
	out := make(Sequence, 0, len(ids))
	for _, id := range ids {
		out = append(out, resolveRef(r, GalleryField, id, idx, report))
	}
	r.CustomFields.Set(GalleryField, out)
	return true
}

func galleryIDs(v Value) (Sequence, bool) {
	switch t := v.(type) {
	case Sequence:
		return t, true
	case Scalar:
		if t.Type != ScalarString {
			return nil, false
		}
		parts := strings.Split(t.Text, ",")
		out := make(Sequence, 0, len(parts))
		for _, p := range parts {
			out = append(out, String(strings.TrimSpace(p)))
		}
		return out, true
	default:
		return nil, false
	}
}

func resolveThumbnail(r *Record, idx AttachmentIndex, report *ResolveReport) bool {
	raw, ok := r.CustomFields.Get(ThumbnailIDField)
	if !ok {
		return false
	}
	id := raw
	if seq, isSeq := raw.(Sequence); isSeq && len(seq) > 0 {
		id = seq[0]
	}
	r.CustomFields.Set(ThumbnailField, resolveRef(r, ThumbnailIDField, id, idx, report))
	r.CustomFields.Delete(ThumbnailIDField)
	return true
}

func resolveRef(r *Record, field string, id Value, idx AttachmentIndex, report *ResolveReport) Value {
	if file, ok := idx.ResolveFile(id); ok {
		report.Resolved++
		return file
	}
	ref, _ := ScalarText(id)
	report.Unresolved = append(report.Unresolved, UnresolvedRef{RecordID: r.ID, Field: field, Ref: ref})
	return id
}
