package wordpress

const (
	PostTypeAttachment = "attachment"

	GalleryField      = "galeria"
	ThumbnailIDField  = "_thumbnail_id"
	ThumbnailField    = "thumbnail"
	AttachedFileField = "_wp_attached_file"
)

type Term struct {
	Name string
	Slug string
}

// Taxonomy is one domain's terms in document order.
type Taxonomy struct {
	Domain string
	Terms  []Term
}

type Record struct {
	ID       string
	Title    string
	Slug     string
	PostType string
	PostDate string
	Content  string

	Taxonomies   []Taxonomy
	CustomFields Mapping
}

// AddTerm appends a term to the taxonomy for domain, creating it on first
// use so domains keep first-seen order.
func (r *Record) AddTerm(domain string, term Term) {
	for i := range r.Taxonomies {
		if r.Taxonomies[i].Domain == domain {
			r.Taxonomies[i].Terms = append(r.Taxonomies[i].Terms, term)
			return
		}
	}
	r.Taxonomies = append(r.Taxonomies, Taxonomy{Domain: domain, Terms: []Term{term}})
}

func (r *Record) Terms(domain string) []Term {
	for _, t := range r.Taxonomies {
		if t.Domain == domain {
			return t.Terms
		}
	}
	return nil
}

// AddCustomField stores v under key. A repeated key turns the stored value
// into a list and appends to it.
func (r *Record) AddCustomField(key string, v Value) {
	current, ok := r.CustomFields.Get(key)
	if !ok {
		r.CustomFields.Set(key, v)
		return
	}
	if seq, isSeq := current.(Sequence); isSeq {
		r.CustomFields.Set(key, append(seq, v))
		return
	}
	r.CustomFields.Set(key, Sequence{current, v})
}

func (r *Record) IsAttachment() bool { return r.PostType == PostTypeAttachment }

// AttachedFile returns the attachment's stored file path value.
func (r *Record) AttachedFile() (Value, bool) {
	return r.CustomFields.Get(AttachedFileField)
}

// AttachmentIndex maps attachment identifiers to their records. Records are
// shared with the output collection, not copied.
type AttachmentIndex map[string]*Record

// Add indexes r when it is an attachment with an identifier.
func (idx AttachmentIndex) Add(r *Record) bool {
	if r == nil || !r.IsAttachment() || r.ID == "" {
		return false
	}
	idx[r.ID] = r
	return true
}

// ResolveFile returns the attached file of the attachment whose identifier
// equals the text of id.
func (idx AttachmentIndex) ResolveFile(id Value) (Value, bool) {
	key, ok := ScalarText(id)
	if !ok {
		return nil, false
	}
	att, ok := idx[key]
	if !ok {
		return nil, false
	}
	return att.AttachedFile()
}
