// Package dl implements the IO-Link data-link layer: the mode, message,
// command, OD, ISDU, PD and event handlers of spec 4, each a small
// cooperative state machine polled once per Device.Poll() call rather
// than run on its own goroutine (spec 9.1's single-threaded execution
// model, grounded on the teacher's single-goroutine read loop in
// client.go's handler, here generalized to a poll-driven rather than
// blocking-read-driven loop since the physical layer feeds bytes from
// an interrupt context instead of a socket).
//
// dl depends on frame, proto, eventmem and physical, and declares
// ApplicationLayer for the handful of calls it needs to make upward
// into al, letting al implement it directly and avoiding an import
// cycle between the two packages (spec 9.1).
package dl

import (
	"github.com/sirupsen/logrus"

	"github.com/iolinke/iolinke-device/eventmem"
	"github.com/iolinke/iolinke-device/frame"
	"github.com/iolinke/iolinke-device/physical"
	"github.com/iolinke/iolinke-device/proto"
)

// ApplicationLayer is the set of upcalls the data-link layer makes into
// the application layer: routing a completed ISDU to al's OD handler,
// asking for the next outgoing process data / event snapshot, and
// serving/confirming queued events over the diagnosis channel.
type ApplicationLayer interface {
	// HandleISDU services a reassembled ISDU request and returns the
	// response payload to segment back to the master.
	HandleISDU(msg proto.IsduMessage) (response []byte, errCode *proto.ErrorCode)

	// OutgoingProcessData returns the current PDIn bytes.
	OutgoingProcessData() []byte

	// IncomingProcessData delivers PDOut bytes just received.
	IncomingProcessData(pd []byte)

	// PendingEvents returns up to max queued events (instance, mode,
	// type, code tuples) to report via the CKS event flag / event
	// memory read.
	PendingEvents(max int) []eventmem.EventCode

	// EventBytes serves the queued event memory as consecutive octets
	// starting at the given byte offset, for a diagnosis-channel read
	// (spec 4.10 T4).
	EventBytes(offset uint8, length int) []byte

	// FreezeEvents marks event memory read-only once the event flag has
	// been latched for the master to read out (spec 4.10 T3).
	FreezeEvents()

	// ConfirmEvents clears queued events and unfreezes event memory in
	// response to an EventConf write on the diagnosis channel (spec 4.10
	// T5).
	ConfirmEvents()

	// ALControl notifies the AL of a PD-validity transition driven by a
	// MasterCommand (spec 4.6: al_control_ind).
	ALControl(ctrl proto.ALControl)
}

// Layer is the data-link layer instance for one device port.
type Layer struct {
	lg  *logrus.Entry
	cfg frame.Config
	al  ApplicationLayer
	pl  physical.Layer

	mode modeHandler
	msg  messageHandler
	isdu isduHandler
	od   odHandler
	pd   pdHandler
	ev   eventHandler
	cmd  commandHandler

	pdStatus frame.PDStatus
}

// New constructs a data-link layer. al and pl must be non-nil; al is
// typically an *al.Layer and pl the integrator's transceiver driver.
func New(cfg frame.Config, al ApplicationLayer, pl physical.Layer, lg *logrus.Entry) *Layer {
	l := &Layer{lg: lg, cfg: cfg, al: al, pl: pl}
	l.msg = newMessageHandler(cfg, pl)
	l.mode = modeHandler{}
	l.isdu = newIsduHandler()
	l.od = newODHandler()
	l.pd = newPDHandler()
	l.ev = newEventHandler()
	l.cmd = commandHandler{}
	l.pdStatus = frame.PDValid
	return l
}

// BindDirectPage attaches the Direct Parameter Page backing store the
// OD handler routes Page channel access against. The root
// Device calls this once after constructing its paramstore.Store.
func (l *Layer) BindDirectPage(page DirectPage) { l.od.bind(page) }

// TransferInd forwards a received octet from the physical layer into
// the message handler's reception buffer (pl_transfer_ind), arming the
// MaxUARTFrameTime/MaxCycleTime timers per the reception algorithm (spec
// 4.4 steps 1-3): both timers start on the first byte of a new frame,
// MaxUARTFrameTime restarts on every subsequent byte, and it stops once
// the frame is complete.
func (l *Layer) TransferInd(b byte) {
	l.msg.rx.SetMode(l.mode.current)

	if l.msg.rx.Len() == 0 {
		if err := l.pl.StartTimer(proto.TimerMaxUARTFrameTime, 0); err != nil {
			l.lg.WithError(err).Debug("dl: start MaxUARTFrameTime failed")
		}
		if err := l.pl.StartTimer(proto.TimerMaxCycleTime, 0); err != nil {
			l.lg.WithError(err).Debug("dl: start MaxCycleTime failed")
		}
	} else if err := l.pl.RestartTimer(proto.TimerMaxUARTFrameTime, 0); err != nil {
		l.lg.WithError(err).Debug("dl: restart MaxUARTFrameTime failed")
	}

	complete, err := l.msg.rx.Push(b)
	if err != nil {
		l.lg.WithError(err).Debug("dl: rx error, resetting")
		l.msg.rx.Reset()
		return
	}
	if complete {
		if err := l.pl.StopTimer(proto.TimerMaxUARTFrameTime); err != nil {
			l.lg.WithError(err).Debug("dl: stop MaxUARTFrameTime failed")
		}
		l.msg.pending = true
	}
}

// TimerElapsed handles expiry of a physical-layer timer armed by the
// message handler. MaxUARTFrameTime elapsing mid-reception abandons the
// in-progress frame and returns to Idle (spec 4.4 T9); MaxCycleTime is
// left for the caller (system management) to act on.
func (l *Layer) TimerElapsed(id proto.TimerID) {
	if id == proto.TimerMaxUARTFrameTime {
		l.lg.Debug("dl: MaxUARTFrameTime elapsed, abandoning reception")
		l.msg.rx.Reset()
		if err := l.pl.StopTimer(proto.TimerMaxCycleTime); err != nil {
			l.lg.WithError(err).Debug("dl: stop MaxCycleTime failed")
		}
	}
}

// Poll advances every data-link sub-handler by one step, matching the
// leaves-first walk order spec 9.1 calls for: a completed reception is
// parsed and routed before the mode handler is allowed to notice any
// mode-transition side effect it caused.
func (l *Layer) Poll() {
	if l.msg.pending {
		l.msg.pending = false
		l.handleMessage()
	}
}

func (l *Layer) handleMessage() {
	pf, err := l.msg.rx.Parse(l.mode.legalSequenceTypes()...)
	l.msg.rx.Reset()
	if err != nil {
		l.lg.WithError(err).Debug("dl: frame rejected")
		return
	}

	switch pf.MC.Channel() {
	case proto.ChannelISDU:
		l.routeISDU(pf)
	case proto.ChannelPage:
		pf.OD = l.routeOD(pf)
	case proto.ChannelDiagnosis:
		pf.OD = l.routeDiagnosis(pf)
	case proto.ChannelProcess:
		// process channel carries no OD address; fallthrough to PD handling
	}

	if pf.IsOPERATE {
		l.pd.activate()
		l.al.IncomingProcessData(pf.PDOut)
	} else {
		l.pd.deactivate()
	}

	l.reply(pf)
	l.mode.advance()
}

// routeOD serves the Direct Parameter Page channel (spec 4.7 OD-handler
// routing table: (Page, *, 0x00) -> command handler, (Page, *, 0x01..) ->
// parameter handler) and returns the OD bytes to echo back in the reply.
// A write landing on SystemCommandAddr is additionally decoded as a
// MasterCommand rather than merely stored, driving the mode and AL
// PD-validity transitions spec 4.6 describes.
func (l *Layer) routeOD(pf frame.ParsedFrame) []byte {
	if len(pf.OD) == 0 {
		return pf.OD
	}
	if pf.MC.RW() == proto.Write {
		l.od.write(pf.MC.Addr(), pf.OD)
		if pf.MC.Addr() == SystemCommandAddr {
			l.handleMasterCommand(proto.MasterCommand(pf.OD[0]))
		}
		return pf.OD
	}
	return l.od.read(pf.MC.Addr(), len(pf.OD))
}

// handleMasterCommand decodes cmd (spec 4.6) and applies whichever of a
// mode-handler transition and an AL PD-validity control it carries.
func (l *Layer) handleMasterCommand(cmd proto.MasterCommand) {
	target, hasMode, ctrl, hasCtrl := l.cmd.decode(cmd)
	if hasMode {
		l.mode.request(target)
	}
	if hasCtrl {
		l.al.ALControl(ctrl)
		l.pdStatus = pdStatusFor(ctrl)
	}
}

// routeDiagnosis serves the diagnosis channel (spec 4.7: (Diagnosis, *,
// *) -> event handler). Reads return queued event-memory octets starting
// at the M-sequence address (spec 4.10 T4); a write of status code
// EventConf (0x00) clears and unfreezes event memory, acknowledging
// receipt of the latched event (spec 4.10 T5).
func (l *Layer) routeDiagnosis(pf frame.ParsedFrame) []byte {
	if len(pf.OD) == 0 {
		return pf.OD
	}
	if pf.MC.RW() == proto.Write {
		if pf.OD[0] == eventConfStatus {
			l.al.ConfirmEvents()
			l.ev.unfreeze()
		}
		return pf.OD
	}
	return l.al.EventBytes(pf.MC.Addr(), len(pf.OD))
}

// routeISDU feeds a Write-direction ISDU M-sequence into request
// reassembly; a Read-direction cycle carries no new request data and is
// instead served entirely by reply()'s response-segment logic.
func (l *Layer) routeISDU(pf frame.ParsedFrame) {
	if pf.MC.RW() != proto.Write {
		return
	}
	done, msg := l.isdu.accept(pf.MC.Addr(), pf.OD)
	if !done {
		return
	}
	resp, errCode := l.al.HandleISDU(msg)
	l.isdu.beginResponse(resp, errCode)
}

func (l *Layer) reply(pf frame.ParsedFrame) {
	od := pf.OD
	if pf.MC.Channel() == proto.ChannelISDU && pf.MC.RW() == proto.Read {
		if l.isdu.waiting() {
			od = l.isdu.busyReply(len(od))
		} else if l.isdu.responding() {
			od = l.isdu.nextChunk(pf.MC.Addr(), len(od))
		}
	}

	pending := l.al.PendingEvents(eventmem.Capacity)
	l.ev.setPendingCount(len(pending))
	if l.ev.pending() && !l.ev.isFrozen() {
		l.al.FreezeEvents()
		l.ev.freeze()
	}

	var pd []byte
	eventFlag := l.ev.pending()
	status := l.pdStatus
	if pf.IsOPERATE {
		pd = l.al.OutgoingProcessData()
	}

	out, err := l.msg.tx.Compile(l.mode.current, od, pd, eventFlag, status)
	if err != nil {
		l.lg.WithError(err).Debug("dl: reply compile failed")
		return
	}
	if err := l.pl.Transfer(out); err != nil {
		l.lg.WithError(err).Debug("dl: transfer failed")
	}
}

// Mode reports the current device mode (dl_mode_ind consumers read
// this).
func (l *Layer) Mode() proto.DeviceMode { return l.mode.current }

// RequestMode records target as the mode to commit once the next
// message cycle completes successfully (sm_set_device_mode_req); it
// does not change Mode() immediately, matching the two-phase
// decide-then-commit pattern used throughout this stack.
func (l *Layer) RequestMode(target proto.DeviceMode) {
	l.mode.request(target)
}

// PDActive reports whether the most recently handled message was an
// OPERATE-mode process-data exchange.
func (l *Layer) PDActive() bool { return l.pd.isActive() }
