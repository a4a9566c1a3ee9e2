package table

// TableSize is the size of the hash space: keys hash to a uint16.
const TableSize = 1 << 16

const (
	none = iota
	presentMarker // some key has a prefix hashing here
	elemMarker    // a complete key hashes here
)

// PrefixTable maps short byte keys to values and finds every stored key that
// is a prefix of a probe in a single pass over the probe.
//
// Each prefix of each key is hashed with h = h<<2 + b into a 64K marker
// array, so a walk can stop at the first byte that no stored key shares.
// Collisions only cost a map lookup: values are always confirmed against
// the full key.
type PrefixTable[T any] struct {
	table [TableSize]byte
	elems map[string]T
}

func New[T any]() *PrefixTable[T] {
	return &PrefixTable[T]{
		elems: make(map[string]T),
	}
}

// Insert stores v under key, replacing any previous value.
func (t *PrefixTable[T]) Insert(key []byte, v T) {
	var h uint16
	for _, b := range key {
		h = (h << 2) + uint16(b)
		t.table[h] = max(t.table[h], presentMarker)
	}
	t.table[h] = elemMarker
	t.elems[string(key)] = v
}

func (t *PrefixTable[T]) Get(key []byte) (T, bool) {
	v, found := t.elems[string(key)]
	return v, found
}

// Walk calls onMatch, shortest first, for each stored key that is a prefix of
// key. It stops when onMatch returns true or no longer prefix can match.
func (t *PrefixTable[T]) Walk(key []byte, onMatch func(T) bool) {
	var h uint16
	for i, b := range key {
		h = (h << 2) + uint16(b)

		switch t.table[h] {
		case none:
			return
		case elemMarker:
			if v, ok := t.elems[string(key[:i+1])]; ok && onMatch(v) {
				return
			}
		}
	}
}

func (t *PrefixTable[T]) Size() int {
	return len(t.elems)
}
