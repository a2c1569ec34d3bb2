package wordpress

import (
	"testing"
)

func TestNormalizeSequentialRewritesIndexKeyedMapping(t *testing.T) {
	in := Mapping{
		{Key: IntKey(1), Value: String("two")},
		{Key: IntKey(0), Value: String("one")},
		{Key: IntKey(2), Value: String("three")},
	}
	got := NormalizeSequential(in)
	want := Sequence{String("one"), String("two"), String("three")}
	if !Equal(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

func TestNormalizeSequentialKeepsNonContiguousKeys(t *testing.T) {
	cases := []Mapping{
		{{Key: IntKey(1), Value: String("a")}, {Key: IntKey(3), Value: String("b")}},
		{{Key: String("bar"), Value: String("baz")}, {Key: String("foo"), Value: String("qux")}},
		{{Key: String("0"), Value: String("a")}, {Key: String("01"), Value: String("b")}},
		{{Key: IntKey(0), Value: String("a")}, {Key: IntKey(2), Value: String("b")}},
	}
	for _, in := range cases {
		got := NormalizeSequential(in)
		if !Equal(got, in) {
			t.Fatalf("expected mapping %#v to stay unchanged, got %#v", in, got)
		}
	}
}

func TestNormalizeSequentialEmptyMappingBecomesEmptySequence(t *testing.T) {
	got := NormalizeSequential(Mapping{})
	seq, ok := got.(Sequence)
	if !ok || len(seq) != 0 {
		t.Fatalf("expected empty sequence, got %#v", got)
	}
}

func TestNormalizeSequentialIsShallow(t *testing.T) {
	nested := Mapping{{Key: IntKey(0), Value: String("x")}}
	in := Mapping{{Key: String("inner"), Value: nested}}
	got := NormalizeSequential(in)
	m, ok := got.(Mapping)
	if !ok {
		t.Fatalf("expected mapping, got %#v", got)
	}
	inner, _ := m.Get("inner")
	if _, ok := inner.(Mapping); !ok {
		t.Fatalf("expected nested mapping to be left alone, got %#v", inner)
	}
}

func TestNormalizeSequentialIsIdempotent(t *testing.T) {
	inputs := []Value{
		Mapping{{Key: IntKey(0), Value: String("a")}, {Key: IntKey(1), Value: String("b")}},
		Mapping{{Key: String("k"), Value: String("v")}},
		String("plain"),
		Null{},
		Sequence{String("a")},
	}
	for _, in := range inputs {
		once := NormalizeSequential(in)
		twice := NormalizeSequential(once)
		if !Equal(once, twice) {
			t.Fatalf("expected idempotent result for %#v: %#v vs %#v", in, once, twice)
		}
	}
}

func TestAddCustomFieldAccumulatesRepeatedKeys(t *testing.T) {
	var r Record
	r.AddCustomField("color", String("red"))
	r.AddCustomField("size", String("L"))
	r.AddCustomField("color", String("blue"))
	r.AddCustomField("color", String("green"))

	got, _ := r.CustomFields.Get("color")
	want := Sequence{String("red"), String("blue"), String("green")}
	if !Equal(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
	if keys := r.CustomFields.Keys(); len(keys) != 2 || keys[0] != "color" || keys[1] != "size" {
		t.Fatalf("expected first-seen key order, got %v", keys)
	}
}

func TestAddTermKeepsDomainOrder(t *testing.T) {
	var r Record
	r.AddTerm("post_tag", Term{Name: "Go", Slug: "go"})
	r.AddTerm("category", Term{Name: "News", Slug: "news"})
	r.AddTerm("post_tag", Term{Name: "YAML", Slug: "yaml"})

	if len(r.Taxonomies) != 2 || r.Taxonomies[0].Domain != "post_tag" || r.Taxonomies[1].Domain != "category" {
		t.Fatalf("unexpected taxonomy order: %#v", r.Taxonomies)
	}
	tags := r.Terms("post_tag")
	if len(tags) != 2 || tags[1].Slug != "yaml" {
		t.Fatalf("unexpected tags: %#v", tags)
	}
}

func newAttachment(id, file string) *Record {
	r := &Record{ID: id, PostType: PostTypeAttachment}
	r.AddCustomField(AttachedFileField, String(file))
	return r
}

func TestResolveReferencesGalleryKeepsUnresolvedIDs(t *testing.T) {
	idx := AttachmentIndex{}
	idx.Add(newAttachment("5", "a.jpg"))

	post := &Record{ID: "1", PostType: "post"}
	post.AddCustomField(GalleryField, String("5,7"))

	report := ResolveReferences([]*Record{post}, idx)

	got, _ := post.CustomFields.Get(GalleryField)
	want := Sequence{String("a.jpg"), String("7")}
	if !Equal(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
	if report.Galleries != 1 || report.Resolved != 1 || len(report.Unresolved) != 1 || report.Unresolved[0].Ref != "7" {
		t.Fatalf("unexpected report: %#v", report)
	}
}

func TestResolveReferencesGalleryFromSequenceOfInts(t *testing.T) {
	idx := AttachmentIndex{}
	idx.Add(newAttachment("12", "2020/01/x.png"))

	post := &Record{ID: "1", PostType: "post"}
	post.AddCustomField(GalleryField, Sequence{Int(12), Int(13)})

	ResolveReferences([]*Record{post}, idx)

	got, _ := post.CustomFields.Get(GalleryField)
	want := Sequence{String("2020/01/x.png"), Int(13)}
	if !Equal(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

func TestResolveReferencesSkipsUnsupportedGalleryButStillResolvesThumbnail(t *testing.T) {
	idx := AttachmentIndex{}
	idx.Add(newAttachment("9", "b.png"))

	gallery := Mapping{{Key: String("x"), Value: String("5")}}
	post := &Record{ID: "1", PostType: "post"}
	post.AddCustomField(GalleryField, gallery)
	post.AddCustomField(ThumbnailIDField, String("9"))

	ResolveReferences([]*Record{post}, idx)

	got, _ := post.CustomFields.Get(GalleryField)
	if !Equal(got, gallery) {
		t.Fatalf("expected gallery mapping untouched, got %#v", got)
	}
	thumb, ok := post.CustomFields.Get(ThumbnailField)
	if !ok || !Equal(thumb, String("b.png")) {
		t.Fatalf("expected thumbnail b.png, got %#v", thumb)
	}
}

func TestResolveReferencesThumbnailTakesFirstListElement(t *testing.T) {
	idx := AttachmentIndex{}
	idx.Add(newAttachment("9", "b.png"))

	post := &Record{ID: "1", PostType: "post"}
	post.AddCustomField(ThumbnailIDField, Sequence{String("9")})
	post.AddCustomField("other", String("x"))

	ResolveReferences([]*Record{post}, idx)

	if post.CustomFields.Has(ThumbnailIDField) {
		t.Fatalf("expected %s to be removed", ThumbnailIDField)
	}
	thumb, _ := post.CustomFields.Get(ThumbnailField)
	if !Equal(thumb, String("b.png")) {
		t.Fatalf("expected thumbnail b.png, got %#v", thumb)
	}
	if keys := post.CustomFields.Keys(); keys[len(keys)-1] != ThumbnailField {
		t.Fatalf("expected thumbnail appended last, got %v", keys)
	}
}

func TestResolveReferencesThumbnailUnresolvedKeepsRawValue(t *testing.T) {
	post := &Record{ID: "1", PostType: "post"}
	post.AddCustomField(ThumbnailIDField, String("404"))

	ResolveReferences([]*Record{post}, AttachmentIndex{})

	thumb, _ := post.CustomFields.Get(ThumbnailField)
	if !Equal(thumb, String("404")) {
		t.Fatalf("expected raw thumbnail id, got %#v", thumb)
	}
}

func TestAttachmentIndexIgnoresNonAttachments(t *testing.T) {
	idx := AttachmentIndex{}
	if idx.Add(&Record{ID: "1", PostType: "post"}) {
		t.Fatalf("expected post to be rejected")
	}
	if idx.Add(&Record{PostType: PostTypeAttachment}) {
		t.Fatalf("expected attachment without id to be rejected")
	}
	if !idx.Add(newAttachment("2", "c.gif")) || len(idx) != 1 {
		t.Fatalf("expected attachment to be indexed, got %d entries", len(idx))
	}
}

func TestFieldFilterMatchesWholeKeyWithWildcards(t *testing.T) {
	f, err := NewFieldFilter([]string{"_edit_*", "_yoast_wpseo_?eta*", "exact"})
	if err != nil {
		t.Fatalf("new filter: %v", err)
	}
	cases := map[string]bool{
		"_edit_lock":             true,
		"_edit_last":             true,
		"x_edit_lock":            false,
		"_yoast_wpseo_metadesc":  true,
		"exact":                  true,
		"exactly":                false,
		"_wp_attached_file":      false,
		"_edit_lock/with/slashs": true,
	}
	for key, want := range cases {
		if got := f.Excludes(key); got != want {
			t.Fatalf("Excludes(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestFieldFilterUsesShellSyntax(t *testing.T) {
	f, err := NewFieldFilter([]string{"[abc", "{a,b}", `back\slash`, "[!_]opt*", "[]x]y"})
	if err != nil {
		t.Fatalf("new filter: %v", err)
	}
	cases := map[string]bool{
		"[abc":       true,
		"a":          false,
		"{a,b}":      true,
		`back\slash`: true,
		"backslash":  false,
		"xoption":    true,
		"_option":    false,
		"]y":         true,
		"xy":         true,
		"zy":         false,
	}
	for key, want := range cases {
		if got := f.Excludes(key); got != want {
			t.Fatalf("Excludes(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestFieldFilterRejectsBadPattern(t *testing.T) {
	if _, err := NewFieldFilter([]string{"[a-c0-9]x"}); err == nil {
		t.Fatalf("expected error for mixed range class")
	}
}

func TestTypeFilter(t *testing.T) {
	var all TypeFilter
	if !all.Includes("anything") {
		t.Fatalf("expected zero filter to include everything")
	}
	f := NewTypeFilter([]string{"post", " page "})
	if !f.Includes("page") || f.Includes("attachment") {
		t.Fatalf("unexpected filter behaviour")
	}
	if !NewTypeFilter(nil).Includes("post") {
		t.Fatalf("expected empty list to include everything")
	}
}
