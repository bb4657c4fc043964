package frame

import (
	"testing"

	"github.com/iolinke/iolinke-device/proto"
)

func TestMCRoundTrip(t *testing.T) {
	mc := NewMC(proto.Read, proto.ChannelPage, 0x0F)
	if mc.RW() != proto.Read {
		t.Fatalf("RW: got %v, want Read", mc.RW())
	}
	if mc.Channel() != proto.ChannelPage {
		t.Fatalf("Channel: got %v, want Page", mc.Channel())
	}
	if mc.Addr() != 0x0F {
		t.Fatalf("Addr: got %#x, want 0x0F", mc.Addr())
	}
}

func TestChecksumDeterministic(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	if Checksum(data) != Checksum(data) {
		t.Fatal("Checksum not deterministic")
	}
}

func TestVerifyChecksumRoundTrip(t *testing.T) {
	mc := byte(NewMC(proto.Write, proto.ChannelProcess, 0))
	frameWithZeroCkt := []byte{mc, 0x00, 0xAA}
	cks := Checksum(frameWithZeroCkt)
	ckt := NewCKT(proto.MSeqType0, cks)
	full := []byte{mc, byte(ckt), 0xAA}
	if !VerifyChecksum(full, 1, ckt.Checksum()) {
		t.Fatal("VerifyChecksum rejected a validly constructed frame")
	}
	full[2] = 0xAB
	if VerifyChecksum(full, 1, ckt.Checksum()) {
		t.Fatal("VerifyChecksum accepted a corrupted frame")
	}
}

func TestTxBufferCompileStartup(t *testing.T) {
	cfg := Config{ODLengthPreoperate: 2, ODLengthOperate: 2, PDOutLength: 0, PDInLength: 0}
	tx := NewTxBuffer(cfg)
	out, err := tx.Compile(proto.ModeStartup, []byte{0x55}, nil, false, PDValid)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got len %d, want 2 (OD+CKS, no header)", len(out))
	}
	if out[0] != 0x55 {
		t.Fatalf("OD byte: got %#x, want 0x55", out[0])
	}
	cks := CKS(out[1])
	want := Checksum([]byte{out[0], byte(cks.WithChecksumZeroed())})
	if cks.Checksum() != want {
		t.Fatalf("embedded checksum %#x does not match recomputed %#x", cks.Checksum(), want)
	}
}

func TestTxBufferCompileLengthMismatch(t *testing.T) {
	cfg := Config{ODLengthPreoperate: 2, ODLengthOperate: 2}
	tx := NewTxBuffer(cfg)
	if _, err := tx.Compile(proto.ModeStartup, []byte{0x01, 0x02}, nil, false, PDValid); err == nil {
		t.Fatal("expected error for OD length mismatch in STARTUP mode")
	}
}

func TestRxBufferPushCompletesAtExpectedLength(t *testing.T) {
	cfg := Config{ODLengthPreoperate: 2, ODLengthOperate: 2}
	rx := NewRxBuffer(cfg)
	rx.SetMode(proto.ModeStartup)

	mc := byte(NewMC(proto.Write, proto.ChannelPage, 0))
	complete, err := rx.Push(mc)
	if err != nil || complete {
		t.Fatalf("after MC: complete=%v err=%v", complete, err)
	}

	od := []byte{0xAA}
	cks := Checksum(append([]byte{mc, 0x00}, od...))
	ckt := NewCKT(proto.MSeqType0, cks)
	complete, err = rx.Push(byte(ckt))
	if err != nil || complete {
		t.Fatalf("after CKT: complete=%v err=%v", complete, err)
	}

	complete, err = rx.Push(od[0])
	if err != nil {
		t.Fatalf("Push od: %v", err)
	}
	if !complete {
		t.Fatal("expected frame complete after OD[1] in STARTUP mode")
	}

	pf, err := rx.Parse(proto.MSeqType0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(pf.OD) != 1 || pf.OD[0] != 0xAA {
		t.Fatalf("got OD %v, want [0xAA]", pf.OD)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"legal", Config{ODLengthPreoperate: 2, ODLengthOperate: 8, PDOutLength: 32, PDInLength: 32}, true},
		{"illegal od preoperate", Config{ODLengthPreoperate: 3, ODLengthOperate: 2}, false},
		{"pd too long", Config{ODLengthPreoperate: 1, ODLengthOperate: 1, PDOutLength: 33}, false},
	}
	for _, c := range cases {
		err := c.cfg.Validate()
		if (err == nil) != c.ok {
			t.Errorf("%s: got err=%v, want ok=%v", c.name, err, c.ok)
		}
	}
}
