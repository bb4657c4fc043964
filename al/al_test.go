package al

import (
	"testing"

	"github.com/iolinke/iolinke-device/eventmem"
	"github.com/iolinke/iolinke-device/paramstore"
	"github.com/iolinke/iolinke-device/proto"
	"github.com/sirupsen/logrus"
)

func newTestLayer(t *testing.T) *Layer {
	t.Helper()
	store, err := paramstore.New([]paramstore.EntrySpec{
		{Index: 0x50, SubindexLow: 0, SubindexHigh: 0, Length: 2, Access: paramstore.ReadWrite, Default: []byte{0, 0}},
	})
	if err != nil {
		t.Fatalf("paramstore.New: %v", err)
	}
	lg := logrus.NewEntry(logrus.New())
	return New(store, nil, nil, nil, eventmem.New(), lg)
}

func TestHandleISDUReadWrite(t *testing.T) {
	l := newTestLayer(t)
	_, errCode := l.HandleISDU(proto.IsduMessage{Index: 0x50, Subindex: 0, Data: []byte{0x01, 0x02}, Direction: proto.IsduWrite})
	if errCode != nil {
		t.Fatalf("write failed: %v", errCode)
	}
	v, errCode := l.HandleISDU(proto.IsduMessage{Index: 0x50, Subindex: 0, Direction: proto.IsduRead})
	if errCode != nil {
		t.Fatalf("read failed: %v", errCode)
	}
	if v[0] != 0x01 || v[1] != 0x02 {
		t.Fatalf("got %x, want 0102", v)
	}
}

func TestHandleISDUUnknownIndex(t *testing.T) {
	l := newTestLayer(t)
	_, errCode := l.HandleISDU(proto.IsduMessage{Index: 0x99, Subindex: 0, Direction: proto.IsduRead})
	if errCode == nil {
		t.Fatal("expected error for unknown index")
	}
}

func TestPendingEventsEmptyWithoutSource(t *testing.T) {
	l := newTestLayer(t)
	if got := l.PendingEvents(6); len(got) != 0 {
		t.Fatalf("got %d events, want 0", len(got))
	}
}
