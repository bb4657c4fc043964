package dl

import (
	"github.com/iolinke/iolinke-device/frame"
	"github.com/iolinke/iolinke-device/proto"
)

// isduState enumerates the ISDU handler's states (spec 4.8: DL ISDU
// handler, Inactive/Idle/ISDURequest/ISDUWait/ISDUResponse).
type isduState uint8

const (
	isduIdle isduState = iota
	isduRequest
	isduWait
	isduResponse
)

// isduHandler reassembles a segmented ISDU request across successive
// M-sequences on the ISDU channel, dispatches it once complete, and
// segments the response back out (spec 4.8). Each M-sequence on the
// ISDU channel carries MC.Addr() as an IsduFlowCtrl value: Start begins
// a new transaction, a count value (0x00-0x0F) continues it in
// sequence, Idle1/Idle2 are no-ops, and Abort cancels the transaction
// in progress.
type isduHandler struct {
	state isduState

	buf         []byte // accumulated request octets after the I-Service prefix
	expectedLen int     // length of buf once index+subindex+data+checksum are all in
	index       uint16
	subindex    uint8
	direction   proto.IsduDirection
	haveHeader  bool // index/subindex have been parsed out of buf

	resp      []byte // full reply buffer including its leading I-Service octet
	respSent  int
	counter   int    // last master-supplied read counter honored, -1 before the first
	lastChunk []byte // most recently emitted segment, resent verbatim on retransmit
}

func newIsduHandler() isduHandler { return isduHandler{counter: -1} }

// accept folds one ISDU-channel M-sequence into the in-progress
// transaction. It returns done=true once a full request has been
// reassembled, checksum-validated, and had its header parsed out, along
// with the IsduMessage ready to hand to the application layer. A
// checksum mismatch silently aborts the transaction back to Idle (spec
// 4.8: malformed ISDU -> IsduError -> Idle), matching Abort's handling
// rather than surfacing a reply, since the master itself is responsible
// for retrying a corrupted request.
func (h *isduHandler) accept(addr uint8, od []byte) (done bool, msg proto.IsduMessage) {
	ctrl := frame.IsduFlowCtrl(addr)

	switch {
	case ctrl == frame.IsduFlowAbort:
		h.reset()
		return false, proto.IsduMessage{}
	case ctrl == frame.IsduFlowIdle1 || ctrl == frame.IsduFlowIdle2:
		return false, proto.IsduMessage{}
	case ctrl == frame.IsduFlowStart:
		h.reset()
		h.state = isduRequest
		h.beginFromFirstChunk(od)
	case ctrl.IsCount():
		if h.state != isduRequest {
			return false, proto.IsduMessage{}
		}
		h.buf = append(h.buf, od...)
	default:
		return false, proto.IsduMessage{}
	}

	if !h.haveHeader && len(h.buf) >= 3 {
		h.index = uint16(h.buf[0])<<8 | uint16(h.buf[1])
		h.subindex = h.buf[2]
		h.haveHeader = true
	}

	if h.expectedLen > 0 && len(h.buf) >= h.expectedLen {
		whole := h.buf[:h.expectedLen]
		if frame.IsduChecksum(whole) != 0 {
			h.reset()
			return false, proto.IsduMessage{}
		}
		data := append([]byte(nil), h.buf[3:h.expectedLen-1]...)
		msg = proto.IsduMessage{Index: h.index, Subindex: h.subindex, Data: data, Direction: h.direction}
		h.state = isduWait
		return true, msg
	}
	return false, proto.IsduMessage{}
}

func (h *isduHandler) beginFromFirstChunk(od []byte) {
	if len(od) == 0 {
		return
	}
	iservice := frame.IService(od[0])
	rest := od[1:]

	length := int(iservice.Length())
	if uint8(length) == frame.LengthExtended {
		if len(rest) == 0 {
			return
		}
		length = int(rest[0])
		rest = rest[1:]
	}

	switch iservice.Code() {
	case frame.ISvcWriteRequestIndex, frame.ISvcWriteRequestIndexSubindex, frame.ISvcWriteRequestIndexIndexSubindex:
		h.direction = proto.IsduWrite
	default:
		h.direction = proto.IsduRead
	}
	// expectedLen counts octets in h.buf: 2 (index) + 1 (subindex) + data
	// length + 1 (trailing 8-bit XOR checksum octet).
	h.expectedLen = 3 + length + 1
	h.buf = append(h.buf, rest...)
}

func (h *isduHandler) reset() {
	h.state = isduIdle
	h.buf = nil
	h.expectedLen = 0
	h.haveHeader = false
	h.resp = nil
	h.respSent = 0
	h.counter = -1
	h.lastChunk = nil
}

// waiting reports whether a request has been handed to the application
// layer but no response has been queued for it yet (spec 4.8:
// ISDUWait) — any master read in this state must be answered with a
// busy reply rather than the eventual response.
func (h *isduHandler) waiting() bool { return h.state == isduWait }

// busyReply is the single-octet "busy" response (I-Service NoService,
// length 0) returned while ISDUWait, zero-padded to n octets.
func (h *isduHandler) busyReply(n int) []byte {
	out := make([]byte, n)
	if n > 0 {
		out[0] = byte(frame.NewIService(frame.ISvcNoService, 0))
	}
	return out
}

// beginResponse builds the full reply buffer (I-Service octet plus body)
// for resp/errCode — mutually exclusive — and arms response segmentation
// (spec 4.8: ISDUResponse).
func (h *isduHandler) beginResponse(resp []byte, errCode *proto.ErrorCode) {
	op := frame.ISvcReadSuccess
	body := resp
	if errCode != nil {
		op = frame.ISvcReadFailure
		body = []byte{errCode.ErrorType, errCode.AdditionalCode}
	}
	h.resp = append([]byte{byte(frame.NewIService(op, 0))}, body...)
	h.respSent = 0
	h.counter = -1
	h.state = isduResponse
}

// responding reports whether a response is queued and still being
// segmented out.
func (h *isduHandler) responding() bool { return h.state == isduResponse }

// nextChunk returns up to n octets of the pending response for the
// M-sequence whose flow-control address is addr. A repeated counter
// (the master retransmitting its read request) resends the
// previously-sent segment unchanged rather than advancing, honoring
// spec 4.8's retransmission requirement; any other non-monotone counter
// aborts the transaction back to Idle.
func (h *isduHandler) nextChunk(addr uint8, n int) []byte {
	counter := int(frame.IsduFlowCtrl(addr))
	if h.counter >= 0 {
		if counter == h.counter {
			return h.lastChunk
		}
		if counter != (h.counter+1)&0x0F {
			h.reset()
			return nil
		}
	}
	h.counter = counter

	out := h.nextSegment(n)
	h.lastChunk = out
	return out
}

func (h *isduHandler) nextSegment(n int) []byte {
	if n <= 0 {
		return nil
	}
	remaining := h.resp[h.respSent:]
	take := n
	if take > len(remaining) {
		take = len(remaining)
	}
	out := make([]byte, n)
	copy(out, remaining[:take])
	h.respSent += take
	if h.respSent >= len(h.resp) {
		h.state = isduIdle
	}
	return out
}
