package frame

import (
	"errors"

	"github.com/iolinke/iolinke-device/proto"
)

// HeaderSize is the MC+CKT header present only on the master->device
// request side of an M-sequence; the device's reply carries no header
// octet of its own (spec 4.1; confirmed against the original reference
// implementation, whose frame compiler never echoes MC/CKT).
const HeaderSize = 2

// Config carries the octet lengths negotiated for the current device
// configuration, used to compute the total length of a frame once MC
// and CKT have been seen (spec 4.1: "Frame classes").
type Config struct {
	// ODLengthPreoperate is K in {1, 2, 8, 32} for PREOPERATE frames.
	ODLengthPreoperate uint8
	// ODLengthOperate is K in {1, 2, 8, 32} for OPERATE frames.
	ODLengthOperate uint8
	// PDOutLength is the master->device process-data length (<=32).
	PDOutLength uint8
	// PDInLength is the device->master process-data length (<=32).
	PDInLength uint8
}

// ErrIllegalLength is returned when the configured lengths are outside
// the legal IO-Link range.
var ErrIllegalLength = errors.New("frame: illegal configured length")

// Validate enforces the boundary values named in spec 8.3.
func (c Config) Validate() error {
	legalOD := func(k uint8) bool {
		return k == 1 || k == 2 || k == 8 || k == 32
	}
	if !legalOD(c.ODLengthPreoperate) || !legalOD(c.ODLengthOperate) {
		return ErrIllegalLength
	}
	if c.PDOutLength > 32 || c.PDInLength > 32 {
		return ErrIllegalLength
	}
	return nil
}

// ODLength returns the configured OD octet count for mode.
func (c Config) ODLength(mode proto.DeviceMode) uint8 {
	switch mode {
	case proto.ModePreoperate:
		return c.ODLengthPreoperate
	case proto.ModeOperate:
		return c.ODLengthOperate
	default:
		return 1 // STARTUP: OD[1]
	}
}

// RequestLength returns the total octet length of a master->device frame
// in the given device mode: HeaderSize + OD + (PD_out in OPERATE mode).
func (c Config) RequestLength(mode proto.DeviceMode) (int, error) {
	switch mode {
	case proto.ModeStartup, proto.ModeEstablishCom, proto.ModeInactive:
		return HeaderSize + 1, nil
	case proto.ModePreoperate:
		return HeaderSize + int(c.ODLengthPreoperate), nil
	case proto.ModeOperate:
		return HeaderSize + int(c.ODLengthOperate) + int(c.PDOutLength), nil
	default:
		return 0, ErrIllegalLength
	}
}

// ReplyLength returns the total octet length of a device->master reply:
// OD + (PD_in in OPERATE mode) + 1 (CKS). There is no header octet.
func (c Config) ReplyLength(mode proto.DeviceMode) (int, error) {
	switch mode {
	case proto.ModeStartup, proto.ModeEstablishCom, proto.ModeInactive:
		return 1 + 1, nil
	case proto.ModePreoperate:
		return int(c.ODLengthPreoperate) + 1, nil
	case proto.ModeOperate:
		return int(c.ODLengthOperate) + int(c.PDInLength) + 1, nil
	default:
		return 0, ErrIllegalLength
	}
}

// ParsedFrame is a fully received and checksum-validated master request.
type ParsedFrame struct {
	MC        MC
	CKT       CKT
	OD        []byte
	PDOut     []byte // only populated for OPERATE-mode frames
	IsOPERATE bool
}

// RxBuffer accumulates bytes from the physical layer one at a time and
// reports completion once the expected frame length (computed from the
// current mode once the first two bytes arrive) has been reached. It
// mirrors the teacher's incremental APDU-header-then-body read, adapted
// from a blocking socket read into a push-per-byte state machine because
// the physical layer here delivers bytes from an interrupt, not a
// stream (spec 4.4: "DL message handler", reception algorithm).
type RxBuffer struct {
	cfg  Config
	mode proto.DeviceMode

	buf      [HeaderSize + 32 + 32]byte // MC CKT OD[<=32] PD[<=32]
	n        int
	expected int
}

// NewRxBuffer constructs an empty reception buffer for the given frame
// configuration.
func NewRxBuffer(cfg Config) *RxBuffer {
	return &RxBuffer{cfg: cfg}
}

// SetMode updates the device mode used to size the next frame, tracking
// dl_mode_ind (spec 4.4: "Services emitted ... dl_mode_ind").
func (r *RxBuffer) SetMode(mode proto.DeviceMode) { r.mode = mode }

// Reset clears the buffer to receive a new frame.
func (r *RxBuffer) Reset() {
	r.n = 0
	r.expected = 0
}

// Len reports the number of bytes received so far.
func (r *RxBuffer) Len() int { return r.n }

// Push appends one byte. It returns (true, nil) once the frame is
// complete and ready for Parse; once exactly two bytes have arrived it
// computes the expected total length from the current mode (spec 4.4
// step 2).
func (r *RxBuffer) Push(b byte) (complete bool, err error) {
	if r.n >= len(r.buf) {
		return false, errors.New("frame: rx buffer overflow")
	}
	r.buf[r.n] = b
	r.n++

	if r.n == HeaderSize {
		n, err := r.cfg.RequestLength(r.mode)
		if err != nil {
			return false, err
		}
		r.expected = n
	}
	if r.expected > 0 && r.n >= r.expected {
		return true, nil
	}
	return false, nil
}

// Bytes returns the raw frame bytes accumulated so far.
func (r *RxBuffer) Bytes() []byte { return r.buf[:r.n] }

// ErrChecksum and ErrMSequenceType are the two validation failures the
// DL message handler's CheckMessage state can encounter (spec 4.4).
var (
	ErrChecksum      = errors.New("frame: checksum mismatch")
	ErrMSequenceType = errors.New("frame: illegal m-sequence type for mode")
)

// Parse validates the checksum (computed over the whole request,
// including MC, per Annex A.1.6) and the M-sequence type, then splits
// the frame into MC/CKT/OD/PD. supportedTypes lists the M-sequence
// types legal in the current mode.
func (r *RxBuffer) Parse(supportedTypes ...proto.MSequenceType) (ParsedFrame, error) {
	data := r.Bytes()
	if len(data) < HeaderSize+1 {
		return ParsedFrame{}, errors.New("frame: short frame")
	}
	mc := MC(data[0])
	ckt := CKT(data[1])

	if !VerifyChecksum(data, 1, ckt.Checksum()) {
		return ParsedFrame{}, ErrChecksum
	}

	legal := false
	for _, t := range supportedTypes {
		if ckt.MSequenceType() == t {
			legal = true
			break
		}
	}
	if !legal {
		return ParsedFrame{}, ErrMSequenceType
	}

	odLen := int(r.cfg.ODLength(r.mode))
	pf := ParsedFrame{MC: mc, CKT: ckt}
	switch r.mode {
	case proto.ModeOperate:
		pf.OD = append([]byte(nil), data[HeaderSize:HeaderSize+odLen]...)
		pf.PDOut = append([]byte(nil), data[HeaderSize+odLen:HeaderSize+odLen+int(r.cfg.PDOutLength)]...)
		pf.IsOPERATE = true
	default:
		pf.OD = append([]byte(nil), data[HeaderSize:HeaderSize+odLen]...)
	}
	return pf, nil
}

// TxBuffer compiles a reply frame once the OD and (in OPERATE mode) PD
// payloads are ready, per spec 4.4's CreateMessage state. The reply
// carries no MC/CKT header: OD | [PD] | CKS.
type TxBuffer struct {
	cfg Config
}

func NewTxBuffer(cfg Config) *TxBuffer { return &TxBuffer{cfg: cfg} }

// Compile assembles OD | [PD] | CKS into a single reply frame. od must
// already be sized to cfg.ODLength(mode); pd must be sized to
// cfg.PDInLength when mode is OPERATE (nil otherwise).
func (t *TxBuffer) Compile(mode proto.DeviceMode, od []byte, pd []byte, eventFlag bool, pdStatus PDStatus) ([]byte, error) {
	odLen := int(t.cfg.ODLength(mode))
	if len(od) != odLen {
		return nil, errors.New("frame: od payload size mismatch")
	}

	total := odLen
	if mode == proto.ModeOperate {
		if len(pd) != int(t.cfg.PDInLength) {
			return nil, errors.New("frame: pd payload size mismatch")
		}
		total += len(pd)
	}
	total++ // CKS

	out := make([]byte, total)
	copy(out[:odLen], od)
	if mode == proto.ModeOperate {
		copy(out[odLen:odLen+len(pd)], pd)
	}

	cksIdx := total - 1
	out[cksIdx] = byte(NewCKS(eventFlag, pdStatus, 0))
	checksum := Checksum(out[:cksIdx+1])
	out[cksIdx] = byte(NewCKS(eventFlag, pdStatus, checksum))
	return out, nil
}
