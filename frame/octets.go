// Package frame implements the IO-Link wire codec: the four bit-field
// octets that open every M-sequence exchange (MC, CKT, CKS, I-Service),
// the reduced-XOR checksum, and the fixed-capacity reception/transmission
// buffers that assemble and compile whole frames. It is the lowest layer
// of the stack and imports nothing but proto and bitutil, matching the
// teacher's apci.go/asdu.go: bit-field structs with parse/Data pairs and
// no sub-package reach-back.
package frame

import (
	"github.com/iolinke/iolinke-device/internal/bitutil"
	"github.com/iolinke/iolinke-device/proto"
)

var (
	mcRW   = bitutil.NewField(7, 1)
	mcCh   = bitutil.NewField(5, 2)
	mcAddr = bitutil.NewField(0, 5)

	cktType = bitutil.NewField(6, 2)
	cktChk  = bitutil.NewField(0, 6)

	cksEvent  = bitutil.NewField(7, 1)
	cksStatus = bitutil.NewField(6, 1)
	cksChk    = bitutil.NewField(0, 6)

	iServiceOp  = bitutil.NewField(4, 4)
	iServiceLen = bitutil.NewField(0, 4)
)

/*
MC (M-sequence Control) is the first octet of every frame.

	| <-   8 bits    -> |
	| RW  | Ch  |  Addr/FlowCtrl |
	|  7  | 6 5 |  4 3 2 1 0     |

RW selects Write (master -> device, 0) or Read (device -> master, 1).
Ch selects the communication channel: Process(0), Page(1), Diagnosis(2),
ISDU(3). Addr/FlowCtrl is either a 5-bit OD address (Page/Diagnosis) or
the ISDU flow-control value (ISDU channel).
*/
type MC byte

func NewMC(rw proto.RwDirection, ch proto.Channel, addr uint8) MC {
	var b byte
	b = mcRW.Set(b, uint8(rw))
	b = mcCh.Set(b, uint8(ch))
	b = mcAddr.Set(b, addr)
	return MC(b)
}

func (mc MC) RW() proto.RwDirection  { return proto.RwDirection(mcRW.Get(byte(mc))) }
func (mc MC) Channel() proto.Channel { return proto.Channel(mcCh.Get(byte(mc))) }
func (mc MC) Addr() uint8      { return mcAddr.Get(byte(mc)) }

/*
CKT (Checksum/Type, request direction) carries the 2-bit M-sequence type
and the 6-bit reduced-XOR checksum.

	| MSeqType[7..6] | Checksum[5..0] |
*/
type CKT byte

func NewCKT(seqType proto.MSequenceType, checksum uint8) CKT {
	var b byte
	b = cktType.Set(b, uint8(seqType))
	b = cktChk.Set(b, checksum)
	return CKT(b)
}

func (c CKT) MSequenceType() proto.MSequenceType { return proto.MSequenceType(cktType.Get(byte(c))) }
func (c CKT) Checksum() uint8              { return cktChk.Get(byte(c)) }

// WithChecksumZeroed returns the octet with its checksum bits cleared,
// as required before recomputing the checksum over the frame (spec 4.1).
func (c CKT) WithChecksumZeroed() CKT { return CKT(cktChk.Set(byte(c), 0)) }

/*
CKS (Checksum/Status, reply direction) carries the event flag, the PD
validity status, and the 6-bit reduced-XOR checksum.

	| EventFlag[7] | PDStatus[6] | Checksum[5..0] |
*/
type CKS byte

func NewCKS(eventFlag bool, pdStatus PDStatus, checksum uint8) CKS {
	var b byte
	b = cksEvent.Set(b, boolBit(eventFlag))
	b = cksStatus.Set(b, uint8(pdStatus))
	b = cksChk.Set(b, checksum)
	return CKS(b)
}

func (c CKS) EventFlag() bool     { return cksEvent.Get(byte(c)) != 0 }
func (c CKS) PDStatus() PDStatus  { return PDStatus(cksStatus.Get(byte(c))) }
func (c CKS) Checksum() uint8     { return cksChk.Get(byte(c)) }
func (c CKS) WithChecksumZeroed() CKS { return CKS(cksChk.Set(byte(c), 0)) }

// PDStatus is the reply-direction process-data validity qualifier (3.3).
type PDStatus uint8

const (
	PDValid   PDStatus = 0
	PDInvalid PDStatus = 1
)

/*
IService is the ISDU prefix octet: a 4-bit opcode plus a 4-bit in-band
length (extended-length escape at code 0x1, spec 3.4 / Table A.17).

	| IService[7..4] | Length[3..0] |
*/
type IService byte

func NewIService(op IServiceCode, length uint8) IService {
	var b byte
	b = iServiceOp.Set(b, uint8(op))
	b = iServiceLen.Set(b, length)
	return IService(b)
}

func (s IService) Code() IServiceCode { return IServiceCode(iServiceOp.Get(byte(s))) }
func (s IService) Length() uint8      { return iServiceLen.Get(byte(s)) }

// IServiceCode enumerates the I-Service opcodes of Table A.16.
type IServiceCode uint8

const (
	ISvcNoService                      IServiceCode = 0x0
	ISvcWriteRequestIndex               IServiceCode = 0x1
	ISvcWriteRequestIndexSubindex       IServiceCode = 0x2
	ISvcWriteRequestIndexIndexSubindex  IServiceCode = 0x3
	ISvcWriteFailure                    IServiceCode = 0x4
	ISvcWriteSuccess                    IServiceCode = 0x5
	ISvcReadRequestIndex                IServiceCode = 0x9
	ISvcReadRequestIndexSubindex        IServiceCode = 0xA
	ISvcReadRequestIndexIndexSubindex   IServiceCode = 0xB
	ISvcReadFailure                     IServiceCode = 0xC
	ISvcReadSuccess                     IServiceCode = 0xD
)

// LengthExtended is the in-band length code that escapes to an extra
// length octet immediately following the I-Service octet (Table A.17).
const LengthExtended uint8 = 0x1

// IsduFlowCtrl is the value carried in MC's Addr/FlowCtrl field when the
// channel is ISDU (spec 4.1).
type IsduFlowCtrl uint8

const (
	IsduFlowStart IsduFlowCtrl = 0x10
	IsduFlowIdle1 IsduFlowCtrl = 0x11
	IsduFlowIdle2 IsduFlowCtrl = 0x12
	IsduFlowAbort IsduFlowCtrl = 0x1F
)

// IsCount reports whether v is an ISDU sequence counter (0x00..0x0F).
func (v IsduFlowCtrl) IsCount() bool { return v <= 0x0F }

// IsReserved reports whether v falls in the reserved 0x13..0x1E range.
func (v IsduFlowCtrl) IsReserved() bool { return v >= 0x13 && v <= 0x1E }

func boolBit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

