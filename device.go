// Package iolinke wires the data-link, application and system
// management layers into one polled device instance and exposes the
// functional construction surface (DeviceOption) and physical-layer
// integration point a concrete transceiver driver plugs into.
//
// Grounded on the teacher's Client type (client.go): a root object that
// owns a transport, a protocol state machine, and user-registered
// callbacks, exposing a small Connect/Close-shaped lifecycle. Here the
// transport is the physical layer and the lifecycle is
// Poll()-driven rather than a background read-loop goroutine, per the
// cooperative single-threaded execution model (spec 9.1).
package iolinke

import (
	"github.com/sirupsen/logrus"

	"github.com/iolinke/iolinke-device/al"
	"github.com/iolinke/iolinke-device/dl"
	"github.com/iolinke/iolinke-device/eventmem"
	"github.com/iolinke/iolinke-device/paramstore"
	"github.com/iolinke/iolinke-device/physical"
	"github.com/iolinke/iolinke-device/proto"
	"github.com/iolinke/iolinke-device/sm"
)

// _lg is the package-level default logger, overridable with SetLogger,
// mirroring the teacher's define.go.
var _lg = logrus.New()

// SetLogger overrides the package-level default logger used by devices
// constructed without an explicit DeviceOption.SetLogger call.
func SetLogger(lg *logrus.Logger) {
	if lg != nil {
		_lg = lg
	}
}

// Device is one IO-Link device port: the data-link layer, application
// layer and system management manager wired together, plus the
// parameter store and event memory they share.
type Device struct {
	lg *logrus.Entry

	pl  physical.Layer
	dl  *dl.Layer
	al  *al.Layer
	sm  *sm.Manager
	mem *eventmem.Memory

	store *paramstore.Store
}

// NewDevice constructs a fully wired device from opt and pl (the
// integrator's transceiver driver). It returns an error for which
// IsErrConfig reports true if opt's frame lengths are illegal or its
// parameter schema is internally inconsistent, validated up front
// rather than on first ISDU access
// (grounded on tasks/configuration/src/config_struct.rs's eager
// validation).
func NewDevice(opt *DeviceOption, pl physical.Layer) (*Device, error) {
	if err := opt.frameCfg.Validate(); err != nil {
		return nil, errConfig{field: "frameCfg", reason: err.Error()}
	}

	lg := opt.lg
	if lg == nil {
		lg = logrus.NewEntry(_lg)
	}

	specs := paramstore.DefaultDirectParameterPage1()
	specs = append(specs, opt.vendorSpecs...)
	specs = append(specs, opt.extraSpecs...)
	store, err := paramstore.New(specs)
	if err != nil {
		return nil, errConfig{field: "parameterEntries", reason: err.Error()}
	}

	mem := eventmem.New()
	alLayer := al.New(store, opt.pds, opt.dynamic, opt.events, mem, lg.WithField("layer", "al"))
	dlLayer := dl.New(opt.frameCfg, alLayer, pl, lg.WithField("layer", "dl"))
	smManager := sm.New(dlLayer, opt.identity, lg.WithField("layer", "sm"))

	dlLayer.BindDirectPage(directPageAdapter{store: store})

	d := &Device{
		lg:    lg,
		pl:    pl,
		dl:    dlLayer,
		al:    alLayer,
		sm:    smManager,
		mem:   mem,
		store: store,
	}
	return d, nil
}

// TransferInd forwards one octet received from the physical layer into
// the data-link layer (pl_transfer_ind passthrough).
func (d *Device) TransferInd(b byte) { d.dl.TransferInd(b) }

// WakeUpInd signals a detected wake-up pulse, beginning communication
// establishment (pl_wake_up_ind -> sm_set_device_com_req).
func (d *Device) WakeUpInd() { d.sm.EstablishCom() }

// SuccessfulCom signals a completed reply cycle; unused directly by
// this implementation since handleMessage's reply path already confirms
// success synchronously, but exposed so a physical-layer driver that
// detects success out-of-band (e.g. via UART DMA completion) can report
// it.
func (d *Device) SuccessfulCom() {}

// TimerElapsed forwards a timer expiry into system management, falling
// back to Inactive on MaxCycleTime expiry per spec 6.2.
func (d *Device) TimerElapsed(id proto.TimerID) {
	d.dl.TimerElapsed(id)
	if id == proto.TimerMaxCycleTime {
		d.sm.ComLost()
	}
}

// Poll advances every layer by one cooperative step. It must be called
// frequently enough that MaxCycleTime and MaxUARTFrameTime timers (held
// by the physical layer) do not starve; this module places no
// scheduling requirement beyond that on the caller.
func (d *Device) Poll() {
	d.dl.Poll()
}

// Mode reports the device's current communication mode.
func (d *Device) Mode() proto.DeviceMode { return d.sm.CurrentMode() }

// Store exposes the backing parameter store to application code. Set
// refuses entries declared ReadOnly, which include the identification
// and vendor fields; their values come from the schema defaults.
func (d *Device) Store() *paramstore.Store { return d.store }

// EventMemory exposes the bounded event FIFO for diagnostics.
func (d *Device) EventMemory() *eventmem.Memory { return d.mem }

// directPageAdapter adapts paramstore.Store to dl.DirectPage so the
// data-link layer's OD handler can reach Direct Parameter Page entries
// by octet address without importing paramstore itself.
type directPageAdapter struct {
	store *paramstore.Store
}

func (a directPageAdapter) ReadOctet(addr uint8) byte {
	v, err := a.store.Get(uint16(addr), 0)
	if err != nil || len(v) == 0 {
		return 0
	}
	return v[0]
}

func (a directPageAdapter) WriteOctet(addr uint8, b byte) {
	_ = a.store.Set(uint16(addr), 0, []byte{b})
}
