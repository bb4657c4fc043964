package eventmem

import "testing"

func TestAppendUpToCapacity(t *testing.T) {
	m := New()
	for i := 0; i < Capacity; i++ {
		if err := m.Append(EventCode{Code: uint16(i)}); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}
	if err := m.Append(EventCode{Code: 99}); err != ErrFull {
		t.Fatalf("got %v, want ErrFull", err)
	}
	if m.Len() != Capacity {
		t.Fatalf("got Len %d, want %d", m.Len(), Capacity)
	}
}

func TestFreezeBlocksClear(t *testing.T) {
	m := New()
	m.Append(EventCode{Code: 1})
	m.SetReadableOnly(true)
	m.ClearAll()
	if m.Len() != 1 {
		t.Fatalf("ClearAll while frozen: got Len %d, want 1", m.Len())
	}
	m.SetReadableOnly(false)
	m.ClearAll()
	if m.Len() != 0 {
		t.Fatalf("ClearAll after unfreeze: got Len %d, want 0", m.Len())
	}
}

func TestGetIsSnapshot(t *testing.T) {
	m := New()
	m.Append(EventCode{Code: 1})
	snap := m.Get()
	m.Append(EventCode{Code: 2})
	if len(snap) != 1 {
		t.Fatalf("snapshot mutated: got len %d, want 1", len(snap))
	}
}
