package iolinke

import (
	"github.com/sirupsen/logrus"

	"github.com/iolinke/iolinke-device/app"
	"github.com/iolinke/iolinke-device/frame"
	"github.com/iolinke/iolinke-device/paramstore"
	"github.com/iolinke/iolinke-device/sm"
)

// Default process-data/OD lengths and identity fields, mirroring the
// teacher's DefaultConnectTimeout/DefaultReconnectRetries constants:
// sane defaults a caller rarely needs to override.
const (
	DefaultODLengthPreoperate uint8 = 2
	DefaultODLengthOperate    uint8 = 2
	DefaultPDOutLength        uint8 = 2
	DefaultPDInLength         uint8 = 2
)

// NewDeviceOption builds a DeviceOption from the mandatory identity
// fields, applying the library's defaults for everything else, the way
// NewClientOption seeds ClientOption from just a server string and
// handler.
func NewDeviceOption(identity sm.Identity) (*DeviceOption, error) {
	return &DeviceOption{
		identity: identity,
		frameCfg: frame.Config{
			ODLengthPreoperate: DefaultODLengthPreoperate,
			ODLengthOperate:    DefaultODLengthOperate,
			PDOutLength:        DefaultPDOutLength,
			PDInLength:         DefaultPDInLength,
		},
		vendorSpecs: paramstore.DefaultVendorBlock(),
	}, nil
}

// DeviceOption collects everything NewDevice needs beyond the physical
// layer: frame sizing, identity, the parameter schema, the logger, and
// the application callbacks, following the teacher's chainable-Set*
// ClientOption shape.
type DeviceOption struct {
	identity    sm.Identity
	frameCfg    frame.Config
	vendorSpecs []paramstore.EntrySpec
	extraSpecs  []paramstore.EntrySpec

	lg *logrus.Entry

	pds     app.ProcessDataSource
	dynamic app.ParameterAccess
	events  app.EventSource
}

// SetProcessDataLengths overrides the OD/PD octet counts negotiated for
// PREOPERATE and OPERATE mode.
func (o *DeviceOption) SetProcessDataLengths(odPreoperate, odOperate, pdOut, pdIn uint8) *DeviceOption {
	o.frameCfg.ODLengthPreoperate = odPreoperate
	o.frameCfg.ODLengthOperate = odOperate
	o.frameCfg.PDOutLength = pdOut
	o.frameCfg.PDInLength = pdIn
	return o
}

// SetParameterEntries appends device-specific parameter-store entries
// beyond the Direct Parameter Page and vendor block.
func (o *DeviceOption) SetParameterEntries(specs []paramstore.EntrySpec) *DeviceOption {
	o.extraSpecs = specs
	return o
}

// SetLogger overrides the per-device logger; if unset, NewDevice
// derives one from the package-level default logger (SetLogger at
// package scope).
func (o *DeviceOption) SetLogger(lg *logrus.Logger) *DeviceOption {
	if lg != nil {
		o.lg = logrus.NewEntry(lg)
	}
	return o
}

// SetProcessDataSource registers the application's process-data
// callbacks.
func (o *DeviceOption) SetProcessDataSource(pds app.ProcessDataSource) *DeviceOption {
	o.pds = pds
	return o
}

// SetDynamicParameterAccess registers the application's fallback
// handler for ISDU indices the parameter store does not own.
func (o *DeviceOption) SetDynamicParameterAccess(dynamic app.ParameterAccess) *DeviceOption {
	o.dynamic = dynamic
	return o
}

// SetEventSource registers the application's event-producing callback.
func (o *DeviceOption) SetEventSource(events app.EventSource) *DeviceOption {
	o.events = events
	return o
}
