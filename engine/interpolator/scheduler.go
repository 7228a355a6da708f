package interpolator

import "time"

// Scheduler drives periodic callbacks. The engine tick loop implements it; tests can drive Update directly.
type Scheduler interface {
	// Schedule arranges for fn to be called every period until the returned cancel function runs.
	// Cancel must be safe to call more than once.
	//
	// Parameters:
	//   - period: the interval between calls
	//   - fn: the callback
	//
	// Returns:
	//   - func(): stops further calls
	Schedule(period time.Duration, fn func()) (cancel func())
}
