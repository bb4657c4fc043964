package sm

import (
	"testing"

	"github.com/iolinke/iolinke-device/proto"
	"github.com/sirupsen/logrus"
)

type fakeDL struct {
	mode     proto.DeviceMode
	requests []proto.DeviceMode
}

func (f *fakeDL) Mode() proto.DeviceMode { return f.mode }
func (f *fakeDL) RequestMode(target proto.DeviceMode) {
	f.requests = append(f.requests, target)
	f.mode = target
}

func TestCheckIdentity(t *testing.T) {
	id := Identity{VendorID: 1, DeviceID: 2, Revision: 1}
	m := New(&fakeDL{}, id, logrus.NewEntry(logrus.New()))
	if !m.CheckIdentity(id) {
		t.Fatal("expected identical identity to match")
	}
	if m.CheckIdentity(Identity{VendorID: 9}) {
		t.Fatal("expected mismatched identity to fail")
	}
}

func TestModeProgressionSequence(t *testing.T) {
	dl := &fakeDL{}
	m := New(dl, Identity{}, logrus.NewEntry(logrus.New()))
	m.EstablishCom()
	m.Startup()
	m.Preoperate()
	m.Operate()

	want := []proto.DeviceMode{proto.ModeEstablishCom, proto.ModeStartup, proto.ModePreoperate, proto.ModeOperate}
	if len(dl.requests) != len(want) {
		t.Fatalf("got %d requests, want %d", len(dl.requests), len(want))
	}
	for i := range want {
		if dl.requests[i] != want[i] {
			t.Fatalf("request %d: got %v, want %v", i, dl.requests[i], want[i])
		}
	}
}

func TestComLostFallsBackToInactive(t *testing.T) {
	dl := &fakeDL{mode: proto.ModeOperate}
	m := New(dl, Identity{}, logrus.NewEntry(logrus.New()))
	m.ComLost()
	if dl.mode != proto.ModeInactive {
		t.Fatalf("got mode %v, want Inactive", dl.mode)
	}
}
