package frame

import "testing"

func TestTableRegisterLookupRemove(t *testing.T) {
	table := NewTable()
	f := NewFrame()
	h := table.Register(f)

	got, ok := table.Lookup(h)
	if !ok || got != f {
		t.Fatal("expected registered frame to resolve")
	}
	if table.Len() != 1 {
		t.Errorf("expected 1 frame, got %d", table.Len())
	}

	if !table.Remove(h) {
		t.Fatal("expected remove to succeed")
	}
	if _, ok := table.Lookup(h); ok {
		t.Error("expected removed handle to be stale")
	}
	if table.Remove(h) {
		t.Error("expected second remove to fail")
	}
}

func TestTableStaleHandleAfterReuse(t *testing.T) {
	table := NewTable()
	old := table.Register(NewFrame())
	table.Remove(old)

	replacement := NewFrame()
	h := table.Register(replacement)
	if _, ok := table.Lookup(old); ok {
		t.Error("expected stale handle not to resolve to the recycled slot")
	}
	if got, ok := table.Lookup(h); !ok || got != replacement {
		t.Error("expected new handle to resolve")
	}
}

func TestZeroHandle(t *testing.T) {
	table := NewTable()
	table.Register(NewFrame())
	var h Handle
	if !h.IsZero() {
		t.Error("expected zero handle")
	}
	if _, ok := table.Lookup(h); ok {
		t.Error("expected zero handle not to resolve")
	}
}
