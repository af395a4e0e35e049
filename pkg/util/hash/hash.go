// Package hash provides a small, collision-tolerant hash-consing map used
// for operator common-subexpression elimination. It is written in the
// spirit of go-corset's pkg/util/collection/hash package (a Hasher[T]
// interface of Equals+Hash, backed by a bucketed map rather than assuming
// the hash uniquely identifies the value), generalized to the
// (opcode, inputs, params) keys this module's operator cache needs.
package hash

// Hasher is anything that can be hashed and compared for use as a
// hash-cons key. Equals must agree with Hash: equal values must hash
// equally (the converse need not hold — collisions are tolerated).
type Hasher[T any] interface {
	Equals(T) bool
	Hash() uint64
}

// Map is a hash map keyed by a Hasher[K], tolerant of hash collisions by
// keeping a bucket of (key, value) pairs per hash and resolving ties with
// Equals rather than assuming the hash alone identifies the key.
type Map[K Hasher[K], V any] struct {
	buckets map[uint64][]entry[K, V]
}

type entry[K Hasher[K], V any] struct {
	key K
	val V
}

// NewMap constructs an empty hash-cons map.
func NewMap[K Hasher[K], V any]() *Map[K, V] {
	return &Map[K, V]{buckets: make(map[uint64][]entry[K, V])}
}

// Get returns the value stored under a key equal to k, if any.
func (m *Map[K, V]) Get(k K) (V, bool) {
	var zero V

	for _, e := range m.buckets[k.Hash()] {
		if e.key.Equals(k) {
			return e.val, true
		}
	}

	return zero, false
}

// Put stores v under k, overwriting any existing equal key.
func (m *Map[K, V]) Put(k K, v V) {
	h := k.Hash()
	bucket := m.buckets[h]

	for i, e := range bucket {
		if e.key.Equals(k) {
			bucket[i].val = v
			return
		}
	}

	m.buckets[h] = append(bucket, entry[K, V]{k, v})
}

// Len returns the number of distinct keys stored.
func (m *Map[K, V]) Len() int {
	n := 0
	for _, bucket := range m.buckets {
		n += len(bucket)
	}

	return n
}
