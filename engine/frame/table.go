package frame

import "sync"

// Handle identifies a frame registered in a Table. The zero Handle never resolves.
type Handle struct {
	index      uint32
	generation uint32
}

// IsZero reports whether the handle is the zero value.
//
// Returns:
//   - bool: true if the handle was never issued by a table
func (h Handle) IsZero() bool {
	return h.generation == 0
}

type tableSlot struct {
	frame      Frame
	generation uint32
}

type tableImpl struct {
	mu    *sync.Mutex
	slots []tableSlot
	free  []uint32
	count int
}

// Table is an arena of frames addressed by Handle. Consumers keep handles instead of frame pointers and
// poll the table, so a removed frame is observed as missing rather than kept alive.
// A slot is recycled after removal with a bumped generation, so stale handles never resolve to the new occupant.
type Table interface {
	// Register adds f to the table.
	//
	// Parameters:
	//   - f: the frame to register
	//
	// Returns:
	//   - Handle: the handle addressing f
	Register(f Frame) Handle

	// Lookup resolves a handle.
	//
	// Parameters:
	//   - h: the handle
	//
	// Returns:
	//   - Frame: the registered frame, or nil
	//   - bool: false if the handle is stale or was never issued
	Lookup(h Handle) (Frame, bool)

	// Remove unregisters the frame addressed by h.
	//
	// Parameters:
	//   - h: the handle
	//
	// Returns:
	//   - bool: false if the handle did not resolve
	Remove(h Handle) bool

	// Len returns the number of registered frames.
	//
	// Returns:
	//   - int: the number of frames
	Len() int
}

var _ Table = &tableImpl{}

// NewTable creates an empty frame table.
//
// Returns:
//   - Table: the new table
func NewTable() Table {
	return &tableImpl{mu: &sync.Mutex{}}
}

func (t *tableImpl) Register(f Frame) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count++
	if n := len(t.free); n > 0 {
		idx := t.free[n-1]
		t.free = t.free[:n-1]
		t.slots[idx].frame = f
		return Handle{index: idx, generation: t.slots[idx].generation}
	}
	t.slots = append(t.slots, tableSlot{frame: f, generation: 1})
	return Handle{index: uint32(len(t.slots) - 1), generation: 1}
}

func (t *tableImpl) Lookup(h Handle) (Frame, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	slot, ok := t.resolve(h)
	if !ok {
		return nil, false
	}
	return slot.frame, true
}

func (t *tableImpl) Remove(h Handle) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	slot, ok := t.resolve(h)
	if !ok {
		return false
	}
	slot.frame = nil
	slot.generation++
	t.free = append(t.free, h.index)
	t.count--
	return true
}

func (t *tableImpl) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// resolve returns the live slot addressed by h.
// Caller must hold the mutex.
func (t *tableImpl) resolve(h Handle) (*tableSlot, bool) {
	if h.IsZero() || int(h.index) >= len(t.slots) {
		return nil, false
	}
	slot := &t.slots[h.index]
	if slot.generation != h.generation || slot.frame == nil {
		return nil, false
	}
	return slot, true
}
