package dl

import (
	"testing"

	"github.com/iolinke/iolinke-device/frame"
	"github.com/iolinke/iolinke-device/proto"
)

func TestIsduReassembleSingleChunk(t *testing.T) {
	h := newIsduHandler()
	// I-Service: ReadRequestIndexSubindex, length 0 (no write data to carry)
	iservice := frame.NewIService(frame.ISvcReadRequestIndexSubindex, 0)
	body := []byte{0x00, 0x20, 0x01} // index hi/lo, subindex
	checksum := frame.IsduChecksum(body)
	od := append([]byte{byte(iservice)}, append(body, checksum)...)
	done, msg := h.accept(uint8(frame.IsduFlowStart), od)
	if !done {
		t.Fatal("expected transaction to complete in a single chunk")
	}
	if msg.Index != 0x0020 || msg.Subindex != 0x01 {
		t.Fatalf("got index=%#x subindex=%#x", msg.Index, msg.Subindex)
	}
	if msg.Direction != proto.IsduRead {
		t.Fatalf("got direction %v, want Read", msg.Direction)
	}
}

func TestIsduReassembleBadChecksumRejected(t *testing.T) {
	h := newIsduHandler()
	iservice := frame.NewIService(frame.ISvcReadRequestIndexSubindex, 0)
	od := append([]byte{byte(iservice)}, 0x00, 0x20, 0x01, 0xFF) // wrong checksum
	done, _ := h.accept(uint8(frame.IsduFlowStart), od)
	if done {
		t.Fatal("expected checksum mismatch to reject the transaction")
	}
	if h.state != isduIdle {
		t.Fatalf("got state %v after bad checksum, want idle", h.state)
	}
}

func TestIsduReassembleMultiChunkWrite(t *testing.T) {
	h := newIsduHandler()
	data := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	iservice := frame.NewIService(frame.ISvcWriteRequestIndexSubindex, uint8(len(data)))
	whole := append([]byte{0x00, 0x21, 0x00}, data...)
	checksum := frame.IsduChecksum(whole)

	first := append([]byte{byte(iservice)}, 0x00, 0x21, 0x00, data[0], data[1])
	done, _ := h.accept(uint8(frame.IsduFlowStart), first)
	if done {
		t.Fatal("should not complete before all data arrives")
	}
	second := []byte{data[2], data[3], checksum}
	done, msg := h.accept(0x00, second)
	if !done {
		t.Fatal("expected completion after second chunk")
	}
	if len(msg.Data) != len(data) {
		t.Fatalf("got data len %d, want %d", len(msg.Data), len(data))
	}
	for i := range data {
		if msg.Data[i] != data[i] {
			t.Fatalf("byte %d: got %#x, want %#x", i, msg.Data[i], data[i])
		}
	}
}

func TestIsduAbortResetsState(t *testing.T) {
	h := newIsduHandler()
	iservice := frame.NewIService(frame.ISvcWriteRequestIndexSubindex, 4)
	first := append([]byte{byte(iservice)}, 0x00, 0x21, 0x00, 0x01, 0x02)
	h.accept(uint8(frame.IsduFlowStart), first)
	h.accept(uint8(frame.IsduFlowAbort), nil)
	if h.state != isduIdle {
		t.Fatalf("got state %v after abort, want idle", h.state)
	}
}

func TestIsduResponseSegmentation(t *testing.T) {
	h := newIsduHandler()
	h.beginResponse([]byte{1, 2, 3, 4, 5}, nil)
	if !h.responding() {
		t.Fatal("expected responding() true")
	}
	chunk1 := h.nextChunk(0x00, 3)
	if len(chunk1) != 3 {
		t.Fatalf("got chunk len %d, want 3 (1 opcode + 2 data)", len(chunk1))
	}
	counter := 1
	for h.responding() {
		h.nextChunk(uint8(counter), 4)
		counter = (counter + 1) & 0x0F
	}
}

func TestIsduResponseRetransmitResendsLastChunk(t *testing.T) {
	h := newIsduHandler()
	h.beginResponse([]byte{1, 2, 3, 4, 5}, nil)
	first := h.nextChunk(0x00, 3)
	repeat := h.nextChunk(0x00, 3)
	if len(first) != len(repeat) {
		t.Fatalf("got repeat len %d, want %d", len(repeat), len(first))
	}
	for i := range first {
		if first[i] != repeat[i] {
			t.Fatalf("byte %d: got %#x, want %#x (retransmit should resend unchanged)", i, repeat[i], first[i])
		}
	}
}
