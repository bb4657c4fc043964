package dl

import (
	"testing"

	"github.com/iolinke/iolinke-device/proto"
)

func TestModeHandlerAdvance(t *testing.T) {
	var m modeHandler
	if m.current != proto.ModeInactive {
		t.Fatalf("zero value should start Inactive, got %v", m.current)
	}
	m.request(proto.ModeEstablishCom)
	m.advance()
	if m.current != proto.ModeEstablishCom {
		t.Fatalf("got %v, want EstablishCom", m.current)
	}
}

func TestModeHandlerFallback(t *testing.T) {
	var m modeHandler
	m.request(proto.ModeOperate)
	m.advance()
	m.fallback()
	if m.current != proto.ModeInactive {
		t.Fatalf("got %v, want Inactive after fallback", m.current)
	}
}

func TestLegalSequenceTypesByMode(t *testing.T) {
	var m modeHandler
	m.current = proto.ModeOperate
	types := m.legalSequenceTypes()
	if len(types) == 0 {
		t.Fatal("expected non-empty legal sequence types in Operate")
	}
	for _, ty := range types {
		if ty == proto.MSeqType0 {
			t.Fatal("MSeqType0 should not be legal in Operate mode")
		}
	}
}
