package phpserialize

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/sleroq/wordpress-to-yaml/internal/domain/wordpress"
)

func mustDecode(t *testing.T, s string) wordpress.Value {
	t.Helper()
	v, err := Decode(s)
	if err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return v
}

func TestDecodeScalars(t *testing.T) {
	tests := []struct {
		input string
		want  wordpress.Value
	}{
		{`s:5:"hello";`, wordpress.String("hello")},
		{`s:0:"";`, wordpress.String("")},
		{`i:42;`, wordpress.Int(42)},
		{`i:-7;`, wordpress.Int(-7)},
		{`d:0.5;`, wordpress.Scalar{Text: "0.5", Type: wordpress.ScalarFloat}},
		{`b:1;`, wordpress.Bool(true)},
		{`b:0;`, wordpress.Bool(false)},
		{`N;`, wordpress.Null{}},
	}
	for _, tt := range tests {
		got := mustDecode(t, tt.input)
		if !wordpress.Equal(got, tt.want) {
			t.Errorf("Decode(%q) = %#v, want %#v", tt.input, got, tt.want)
		}
	}
}

func TestDecodeStringLengthCountsBytes(t *testing.T) {
	// "año" is 3 characters and 4 bytes.
	got := mustDecode(t, `s:4:"año";`)
	if !wordpress.Equal(got, wordpress.String("año")) {
		t.Fatalf("expected año, got %#v", got)
	}
	if _, err := Decode(`s:3:"año";`); err == nil {
		t.Fatalf("expected character-count prefix to be rejected")
	}
}

func TestDecodeStringMayContainDelimiters(t *testing.T) {
	got := mustDecode(t, `s:8:"a";b:{c}";`)
	if !wordpress.Equal(got, wordpress.String(`a";b:{c}`)) {
		t.Fatalf("unexpected string %#v", got)
	}
}

func TestDecodeListLikeArray(t *testing.T) {
	got := mustDecode(t, `a:3:{i:0;s:3:"one";i:1;s:3:"two";i:2;s:5:"three";}`)
	m, ok := got.(wordpress.Mapping)
	if !ok || m.Len() != 3 {
		t.Fatalf("expected raw 3-entry mapping, got %#v", got)
	}
	want := wordpress.Sequence{wordpress.String("one"), wordpress.String("two"), wordpress.String("three")}
	if norm := wordpress.NormalizeSequential(got); !wordpress.Equal(norm, want) {
		t.Fatalf("expected %#v after normalization, got %#v", want, norm)
	}
}

func TestDecodeAssociativeArray(t *testing.T) {
	got := wordpress.NormalizeSequential(mustDecode(t, `a:2:{s:3:"bar";s:3:"baz";s:3:"foo";s:3:"qux";}`))
	want := wordpress.Mapping{
		{Key: wordpress.String("bar"), Value: wordpress.String("baz")},
		{Key: wordpress.String("foo"), Value: wordpress.String("qux")},
	}
	if !wordpress.Equal(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

func TestDecodeSparseIntegerKeysStayMapping(t *testing.T) {
	got := wordpress.NormalizeSequential(mustDecode(t, `a:3:{i:1;s:1:"a";i:3;s:1:"b";i:5;s:1:"c";}`))
	m, ok := got.(wordpress.Mapping)
	if !ok {
		t.Fatalf("expected mapping, got %#v", got)
	}
	if keys := m.Keys(); len(keys) != 3 || keys[0] != "1" || keys[1] != "3" || keys[2] != "5" {
		t.Fatalf("unexpected keys %v", keys)
	}
	if m[0].Key.Type != wordpress.ScalarInt {
		t.Fatalf("expected integer key type, got %v", m[0].Key.Type)
	}
}

func TestDecodeNestedArraysAreNotNormalized(t *testing.T) {
	got := mustDecode(t, `a:2:{s:5:"sizes";a:2:{i:0;i:10;i:1;i:20;}s:4:"file";s:5:"x.jpg";}`)
	m := got.(wordpress.Mapping)
	sizes, _ := m.Get("sizes")
	if _, ok := sizes.(wordpress.Mapping); !ok {
		t.Fatalf("expected nested mapping, got %#v", sizes)
	}
}

func TestDecodeObjectIgnoresClassAndVisibility(t *testing.T) {
	got := mustDecode(t, "O:8:\"stdClass\":2:{s:4:\"name\";s:3:\"Ann\";s:6:\"\x00*\x00age\";i:30;}")
	want := wordpress.Mapping{
		{Key: wordpress.String("name"), Value: wordpress.String("Ann")},
		{Key: wordpress.String("age"), Value: wordpress.Int(30)},
	}
	if !wordpress.Equal(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

func TestDecodeDuplicateKeysReplaceInPlace(t *testing.T) {
	m, ok := mustDecode(t, `a:3:{s:1:"a";i:1;s:1:"b";i:2;s:1:"a";i:3;}`).(wordpress.Mapping)
	if !ok || m.Len() != 2 {
		t.Fatalf("expected two entries, got %#v", m)
	}
	if strings.Join(m.Keys(), ",") != "a,b" {
		t.Fatalf("expected first position kept, got %v", m.Keys())
	}
	if v, _ := m.Get("a"); !wordpress.Equal(v, wordpress.Int(3)) {
		t.Fatalf("expected last value to win, got %#v", v)
	}
}

func TestDecodeLargeArray(t *testing.T) {
	const n = 50000
	var b strings.Builder
	b.WriteString("a:" + strconv.Itoa(n) + ":{")
	for i := 0; i < n; i++ {
		key := "k" + strconv.Itoa(i)
		b.WriteString("s:" + strconv.Itoa(len(key)) + ":\"" + key + "\";i:" + strconv.Itoa(i) + ";")
	}
	b.WriteString("}")

	m, ok := mustDecode(t, b.String()).(wordpress.Mapping)
	if !ok || m.Len() != n {
		t.Fatalf("expected %d entries, got %d", n, m.Len())
	}
	if v, _ := m.Get("k49999"); !wordpress.Equal(v, wordpress.Int(n-1)) {
		t.Fatalf("unexpected last value %#v", v)
	}
}

func TestDecodeIgnoresTrailingData(t *testing.T) {
	got := mustDecode(t, `s:2:"ok";garbage`)
	if !wordpress.Equal(got, wordpress.String("ok")) {
		t.Fatalf("unexpected value %#v", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	inputs := []string{
		``,
		`s:x:"a";`,
		`s:10:"short";`,
		`s:5:"hello"`,
		`i:abc;`,
		`i:12`,
		`b:2;`,
		`x:1;`,
		`a:2:{i:0;s:1:"a";}`,
		`a:1:{i:0;s:1:"a";`,
		`a:1:{d:0.5;s:1:"a";}`,
		`a:-1:{}`,
		`O:3:"Foo":1:{s:1:"a";}`,
	}
	for _, in := range inputs {
		_, err := Decode(in)
		if err == nil {
			t.Errorf("expected error for %q", in)
			continue
		}
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Errorf("expected DecodeError for %q, got %T", in, err)
		}
	}
}

func TestLooksSerialized(t *testing.T) {
	tests := map[string]bool{
		`a:0:{}`:       true,
		`s:1:"x";`:     true,
		`O:1:"A":0:{}`: true,
		`i:1;`:         true,
		`N;`:           false,
		`b:`:           false,
		`hello`:        false,
		`x:1;`:         false,
		``:             false,
	}
	for in, want := range tests {
		if got := LooksSerialized(in); got != want {
			t.Errorf("LooksSerialized(%q) = %v, want %v", in, got, want)
		}
	}
}
