package dl

import "github.com/iolinke/iolinke-device/proto"

// modeHandler tracks the device's current communication mode and the
// legal M-sequence types for it (spec 4.2: "DL mode handler",
// Inactive -> EstablishCom -> Startup -> Preoperate -> Operate). The
// handler commits whichever mode was last requested; it does not itself
// check the order of modes, so a requested jump (e.g. Startup straight
// to Operate) or a step back is committed as requested.
type modeHandler struct {
	current proto.DeviceMode
	pending proto.DeviceMode // target of an in-flight request, or current if none
}

// request records target as the next mode to move to. The actual
// transition happens once the next successfully received message has
// been answered (advance), so that message and its reply still use the
// old mode's frame layout, mirroring the two-phase "decide now, act on
// next poll" pattern used throughout this stack.
func (m *modeHandler) request(target proto.DeviceMode) {
	m.pending = target
}

// advance commits a previously requested mode once the data-link layer
// has successfully completed a message cycle.
func (m *modeHandler) advance() {
	m.current = m.pending
}

// fallback drops straight to Inactive, as required on communication
// loss at any mode (spec 4.2).
func (m *modeHandler) fallback() {
	m.current = proto.ModeInactive
	m.pending = proto.ModeInactive
}

// legalSequenceTypes returns the M-sequence types the message handler
// should accept while in the current mode.
func (m *modeHandler) legalSequenceTypes() []proto.MSequenceType {
	switch m.current {
	case proto.ModeOperate:
		return []proto.MSequenceType{proto.MSeqType1, proto.MSeqType2}
	default:
		return []proto.MSequenceType{proto.MSeqType0}
	}
}
