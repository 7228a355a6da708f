package camera

// cacheKey identifies the inputs a derived quantity was computed from: the projection parameter
// counter and the world generation of the eye frame.
type cacheKey struct {
	params uint64
	eye    uint64
}

// memo holds one derived value together with the key it was computed for.
type memo[T any] struct {
	key   cacheKey
	value T
	valid bool
}

// get returns the memoized value, recomputing it when key differs from the stored one.
func (m *memo[T]) get(key cacheKey, compute func() T) T {
	if m.stale(key) {
		m.set(key, compute())
	}
	return m.value
}

func (m *memo[T]) set(key cacheKey, value T) {
	m.key = key
	m.value = value
	m.valid = true
}

func (m *memo[T]) stale(key cacheKey) bool {
	return !m.valid || m.key != key
}

func (m *memo[T]) reset() {
	var zero T
	m.value = zero
	m.valid = false
}
