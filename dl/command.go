package dl

import (
	"github.com/iolinke/iolinke-device/frame"
	"github.com/iolinke/iolinke-device/proto"
)

// SystemCommandAddr is the Page-channel OD address MasterCommand octets
// are written to (spec 4.6: "DL command handler"); a write landing on
// this address is decoded as a command by the data-link layer.
const SystemCommandAddr uint8 = 0x00

// commandHandler decodes a MasterCommand octet into the mode-handler
// transition and/or AL PD-validity control it triggers (spec 4.6:
// Inactive/Idle/CommandHandler, collapsed to one decode call since this
// stack processes each command synchronously within the same poll cycle
// it arrives on).
type commandHandler struct{}

// decode reports the mode transition (dl_control_req) and/or PD-validity
// control (al_control_ind) a MasterCommand carries. Either return may be
// absent: MasterIdent/DeviceIdent carry neither, since identification is
// served by ordinary Direct Parameter Page reads rather than a command.
func (commandHandler) decode(cmd proto.MasterCommand) (target proto.DeviceMode, hasMode bool, ctrl proto.ALControl, hasCtrl bool) {
	switch cmd {
	case proto.CmdDeviceStartup:
		return proto.ModeStartup, true, 0, false
	case proto.CmdDevicePreOperate:
		return proto.ModePreoperate, true, 0, false
	case proto.CmdDeviceOperate:
		return proto.ModeOperate, true, proto.ALControlPdOutValid, true
	case proto.CmdProcessDataOutputOperate:
		return 0, false, proto.ALControlPdOutValid, true
	case proto.CmdFallback:
		return proto.ModeInactive, true, proto.ALControlPdOutInvalid, true
	default:
		// CmdMasterIdent, CmdDeviceIdent and any unrecognized value: no
		// transition.
		return 0, false, 0, false
	}
}

// pdStatusFor maps an AL PD-validity control to the CKS PDStatus bit the
// message handler latches for the next reply (spec 4.6: pd_in_status_req).
func pdStatusFor(ctrl proto.ALControl) frame.PDStatus {
	if ctrl == proto.ALControlPdOutInvalid {
		return frame.PDInvalid
	}
	return frame.PDValid
}
