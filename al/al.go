// Package al implements the IO-Link application layer: the OD handler
// that answers ISDU parameter reads/writes, the data-storage index-list
// upload/download feature, and the event handler that feeds the bounded
// event memory (spec 5). al implements dl.ApplicationLayer directly
// (HandleISDU, OutgoingProcessData, IncomingProcessData, PendingEvents)
// so the root Device can wire a *Layer into dl.New without al ever
// importing dl (spec 9.1's import-cycle avoidance).
package al

import (
	"github.com/sirupsen/logrus"

	"github.com/iolinke/iolinke-device/app"
	"github.com/iolinke/iolinke-device/eventmem"
	"github.com/iolinke/iolinke-device/paramstore"
	"github.com/iolinke/iolinke-device/proto"
)

// Layer is the application layer instance for one device port.
type Layer struct {
	lg *logrus.Entry

	store   *paramstore.Store
	dynamic app.ParameterAccess // optional fallback for indices store doesn't own
	pds     app.ProcessDataSource
	events  app.EventSource
	mem     *eventmem.Memory

	od odHandler
	ds dataStorage
	ev eventHandler

	pdOutValid bool
}

// New constructs an application layer. store must be non-nil; pds,
// dynamic and events may be nil if the device exchanges no process data,
// has no indices requiring application-side logic, or has no events to
// report.
func New(store *paramstore.Store, pds app.ProcessDataSource, dynamic app.ParameterAccess, events app.EventSource, mem *eventmem.Memory, lg *logrus.Entry) *Layer {
	return &Layer{
		lg:      lg,
		store:   store,
		dynamic: dynamic,
		pds:     pds,
		events:  events,
		mem:     mem,
		od:         newODHandler(store, dynamic),
		ds:         newDataStorage(store),
		ev:         newEventHandler(mem),
		pdOutValid: true,
	}
}

// HandleISDU services one reassembled ISDU request, trying the
// data-storage index list first (spec 4.9 supplement), then the plain
// object-dictionary read/write path.
func (l *Layer) HandleISDU(msg proto.IsduMessage) ([]byte, *proto.ErrorCode) {
	if resp, handled, errCode := l.ds.handle(msg); handled {
		return resp, errCode
	}
	return l.od.handle(msg)
}

// OutgoingProcessData returns the application's current PDIn bytes.
func (l *Layer) OutgoingProcessData() []byte {
	if l.pds == nil {
		return nil
	}
	return l.pds.ProcessDataIn()
}

// IncomingProcessData forwards PDOut bytes to the application, unless a
// MasterCommand has marked output data invalid (spec 4.6 al_control_ind:
// PdOutInvalid), in which case the stale bytes are dropped rather than
// applied.
func (l *Layer) IncomingProcessData(pd []byte) {
	if l.pds != nil && l.pdOutValid {
		l.pds.ProcessDataOut(pd)
	}
}

// EventBytes serves queued event memory as consecutive octets for a
// diagnosis-channel read (spec 4.10 T4).
func (l *Layer) EventBytes(offset uint8, length int) []byte {
	return l.ev.serve(offset, length)
}

// FreezeEvents stops event memory from mutating mid-readout once the
// event flag has been latched (spec 4.10 T3).
func (l *Layer) FreezeEvents() {
	l.mem.SetReadableOnly(true)
}

// ConfirmEvents clears queued events and unfreezes event memory in
// response to an EventConf diagnosis write (spec 4.10 T5).
func (l *Layer) ConfirmEvents() {
	l.mem.SetReadableOnly(false)
	l.mem.ClearAll()
}

// ALControl applies a PD-validity transition driven by a MasterCommand
// (spec 4.6 al_control_ind).
func (l *Layer) ALControl(ctrl proto.ALControl) {
	switch ctrl {
	case proto.ALControlPdOutValid:
		l.pdOutValid = true
	case proto.ALControlPdOutInvalid:
		l.pdOutValid = false
	}
}

// PendingEvents returns up to max held events, oldest first, after
// pulling a fresh one from the application's EventSource into the
// bounded event memory. The returned events stay in event memory.
func (l *Layer) PendingEvents(max int) []eventmem.EventCode {
	l.ev.drainFromApp(l.events)
	all := l.mem.Get()
	if len(all) > max {
		all = all[:max]
	}
	return all
}

// Store exposes the backing object dictionary so the root Device can
// wire dl's OD handler (Direct Parameter Page access) to the same
// store instance used for ISDU traffic.
func (l *Layer) Store() *paramstore.Store { return l.store }
