// Package physical declares the boundary between the protocol stack
// and the concrete transceiver hardware (spec 9.1's "integrator-facing
// interfaces" re-architecture: the C vtable of pl_* function pointers
// becomes a plain Go interface implemented by whatever UART/wake-up
// driver the integrator provides).
//
// Grounded on the teacher's net.Conn-based transport boundary (client.go
// dials a net.Conn and hands it to the APCI reader/writer); generalized
// from a TCP socket to a half-duplex UART plus a wake-up/timer surface,
// the IO-Link physical layer's actual shape.
package physical

import "github.com/iolinke/iolinke-device/proto"

// Layer is the set of requests the data-link layer issues downward to
// the physical layer (spec 4.3: pl_set_mode_req, pl_transfer_req,
// pl_*_timer_req).
type Layer interface {
	// SetMode configures the transceiver for the given physical mode
	// and transmission rate (pl_set_mode_req).
	SetMode(mode proto.PhysicalMode, rate proto.TransmissionRate) error

	// Transfer hands the device's compiled reply frame to the
	// transceiver for transmission to the master (pl_transfer_req).
	// Octets received from the master arrive separately through
	// Callbacks.TransferInd.
	Transfer(frame []byte) error

	// StartTimer, RestartTimer and StopTimer manage the named timer
	// (pl_start_timer_req / pl_restart_timer_req / pl_stop_timer_req).
	// durationMicros is ignored for timers with a fixed protocol
	// duration (e.g. TimerMaxUARTFrameTime).
	StartTimer(id proto.TimerID, durationMicros uint32) error
	RestartTimer(id proto.TimerID, durationMicros uint32) error
	StopTimer(id proto.TimerID) error
}

// Callbacks is the set of indications the physical layer driver
// delivers upward into the data-link layer (pl_transfer_ind,
// pl_wake_up_ind, successful_com, timer_elapsed). The integrator's
// driver holds a Callbacks and invokes it synchronously from whatever
// context receives the hardware event; nothing in this module assumes
// that context is a goroutine distinct from the Device.Poll() caller,
// per the cooperative single-threaded execution model (spec 9.1).
type Callbacks interface {
	// TransferInd delivers bytes received from the wire, one octet at a
	// time as they arrive (pl_transfer_ind).
	TransferInd(b byte)

	// WakeUpInd signals detection of a wake-up pulse (pl_wake_up_ind).
	WakeUpInd()

	// SuccessfulCom signals that a valid reply was received for the
	// most recent Transfer, independent of TransferInd's byte-by-byte
	// delivery (successful_com).
	SuccessfulCom()

	// TimerElapsed signals expiry of the named timer (timer_elapsed).
	TimerElapsed(id proto.TimerID)
}
