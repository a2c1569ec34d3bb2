package wordpress

import "strconv"

type Kind uint8

const (
	KindNull Kind = iota
	KindScalar
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "null"
	}
}

// Value is a normalized custom-field value. The set of implementations is
// closed: Scalar, Sequence, Mapping and Null.
type Value interface {
	Kind() Kind
	isValue()
}

// ScalarType is a presentation hint for writers. Identity comparisons
// always use Scalar.Text.
type ScalarType uint8

const (
	ScalarString ScalarType = iota
	ScalarInt
	ScalarFloat
	ScalarBool
)

type Scalar struct {
	Text string
	Type ScalarType
}

type Sequence []Value

type Entry struct {
	Key   Scalar
	Value Value
}

// Mapping keeps entries in insertion order. Keys are unique by text.
type Mapping []Entry

type Null struct{}

func (Scalar) Kind() Kind   { return KindScalar }
func (Sequence) Kind() Kind { return KindSequence }
func (Mapping) Kind() Kind  { return KindMapping }
func (Null) Kind() Kind     { return KindNull }

func (Scalar) isValue()   {}
func (Sequence) isValue() {}
func (Mapping) isValue()  {}
func (Null) isValue()     {}

func String(s string) Scalar { return Scalar{Text: s} }

func Int(i int64) Scalar { return Scalar{Text: strconv.FormatInt(i, 10), Type: ScalarInt} }

func Bool(b bool) Scalar {
	if b {
		return Scalar{Text: "true", Type: ScalarBool}
	}
	return Scalar{Text: "false", Type: ScalarBool}
}

// IntKey builds a mapping key that came from an integer array index.
func IntKey(i int64) Scalar { return Int(i) }

func (m Mapping) Len() int { return len(m) }

func (m Mapping) index(key string) int {
	for i, e := range m {
		if e.Key.Text == key {
			return i
		}
	}
	return -1
}

func (m Mapping) Get(key string) (Value, bool) {
	if i := m.index(key); i >= 0 {
		return m[i].Value, true
	}
	return nil, false
}

func (m Mapping) Has(key string) bool { return m.index(key) >= 0 }

// Set replaces the value of an existing key in place or appends a new
// string-keyed entry.
func (m *Mapping) Set(key string, v Value) {
	m.SetEntry(String(key), v)
}

func (m *Mapping) SetEntry(key Scalar, v Value) {
	if i := m.index(key.Text); i >= 0 {
		(*m)[i].Value = v
		return
	}
	*m = append(*m, Entry{Key: key, Value: v})
}

func (m *Mapping) Delete(key string) bool {
	i := m.index(key)
	if i < 0 {
		return false
	}
	*m = append((*m)[:i], (*m)[i+1:]...)
	return true
}

func (m Mapping) Keys() []string {
	out := make([]string, 0, len(m))
	for _, e := range m {
		out = append(out, e.Key.Text)
	}
	return out
}

// ScalarText returns the text of v when it is a scalar.
func ScalarText(v Value) (string, bool) {
	s, ok := v.(Scalar)
	if !ok {
		return "", false
	}
	return s.Text, true
}

// Equal reports deep structural equality, including scalar type hints.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Scalar:
		y, ok := b.(Scalar)
		return ok && x == y
	case Null:
		_, ok := b.(Null)
		return ok
	case Sequence:
		y, ok := b.(Sequence)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case Mapping:
		y, ok := b.(Mapping)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if x[i].Key != y[i].Key || !Equal(x[i].Value, y[i].Value) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}
