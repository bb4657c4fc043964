package paramstore

import "testing"

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New([]EntrySpec{
		{Index: 0x20, SubindexLow: 0, SubindexHigh: 0, Length: 2, Access: ReadWrite, Default: []byte{0x01, 0x02}},
		{Index: 0x21, SubindexLow: 0, SubindexHigh: 0, Length: 1, Access: ReadOnly, Default: []byte{0xAA}},
		{Index: 0x22, SubindexLow: 0, SubindexHigh: 0, Length: 1, Access: WriteOnly},
		{Index: 0x30, SubindexLow: 1, SubindexHigh: 3, Length: 2, Access: ReadWrite},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestGetSetRoundTrip(t *testing.T) {
	s := testStore(t)
	if err := s.Set(0x20, 0, []byte{0x05, 0x06}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(0x20, 0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got[0] != 0x05 || got[1] != 0x06 {
		t.Fatalf("got %x, want 0506", got)
	}
}

func TestDefaultApplied(t *testing.T) {
	s := testStore(t)
	got, err := s.Get(0x21, 0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got[0] != 0xAA {
		t.Fatalf("got %x, want AA", got[0])
	}
}

func TestAccessClassEnforced(t *testing.T) {
	s := testStore(t)
	if _, err := s.Get(0x22, 0); !IsAccessDenied(err) {
		t.Fatalf("Get on WriteOnly: got %v, want AccessDenied", err)
	}
	if err := s.Set(0x21, 0, []byte{0x01}); !IsAccessDenied(err) {
		t.Fatalf("Set on ReadOnly: got %v, want AccessDenied", err)
	}
}

func TestNoSuchEntry(t *testing.T) {
	s := testStore(t)
	if _, err := s.Get(0x99, 0); !IsNoSuchEntry(err) {
		t.Fatalf("got %v, want NoSuchEntry", err)
	}
	if _, err := s.Get(0x20, 5); !IsNoSuchEntry(err) {
		t.Fatalf("out-of-range subindex: got %v, want NoSuchEntry", err)
	}
}

func TestWrongLength(t *testing.T) {
	s := testStore(t)
	if err := s.Set(0x20, 0, []byte{0x01}); !IsWrongLength(err) {
		t.Fatalf("got %v, want WrongLength", err)
	}
}

func TestReadWriteIndexMemoryArray(t *testing.T) {
	s := testStore(t)
	data := []byte{1, 2, 3, 4, 5, 6}
	if err := s.WriteIndexMemory(0x30, data); err != nil {
		t.Fatalf("WriteIndexMemory: %v", err)
	}
	got, err := s.ReadIndexMemory(0x30)
	if err != nil {
		t.Fatalf("ReadIndexMemory: %v", err)
	}
	if len(got) != len(data) {
		t.Fatalf("got len %d, want %d", len(got), len(data))
	}
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("byte %d: got %x, want %x", i, got[i], data[i])
		}
	}
}

func TestWriteIndexMemoryLengthMismatch(t *testing.T) {
	s := testStore(t)
	if err := s.WriteIndexMemory(0x30, []byte{1, 2, 3}); !IsWrongLength(err) {
		t.Fatalf("got %v, want WrongLength", err)
	}
}
