package wordpress

import "strconv"

// NormalizeSequential rewrites a Mapping whose keys are exactly 0..n-1
// into a Sequence ordered by key. Anything else is returned unchanged.
// Only the outermost level is inspected; nested mappings are kept as they
// are.
func NormalizeSequential(v Value) Value {
	m, ok := v.(Mapping)
	if !ok {
		return v
	}
	slots := make([]Value, len(m))
	for _, e := range m {
		idx, ok := sequenceIndex(e.Key.Text, len(m))
		if !ok || slots[idx] != nil {
			return v
		}
		slots[idx] = e.Value
	}
	return Sequence(slots)
}

// IsSequential reports whether NormalizeSequential would rewrite m.
func IsSequential(m Mapping) bool {
	_, ok := NormalizeSequential(m).(Sequence)
	return ok
}

// sequenceIndex accepts canonical non-negative decimal keys below n.
// "01" and "+1" are string keys, not indexes.
func sequenceIndex(key string, n int) (int, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(key)
	if err != nil || idx >= n {
		return 0, false
	}
	return idx, true
}
