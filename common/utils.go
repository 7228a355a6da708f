package common

// Coalesce picks the first argument that is not the zero value of T. Builder options use it
// to fall back to the value already configured when the caller passes nil or zero, e.g.
// common.Coalesce(logger, v.logger).
//
// Parameters:
//   - values: candidates in priority order
//
// Returns:
//   - T: the first non-zero candidate, or the zero value when every candidate is zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
