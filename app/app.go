// Package app declares the boundary between the protocol stack and the
// device's own application logic (spec 9.1's ApplicationLayerServices
// re-architecture): process-data production/consumption, ISDU parameter
// access, and event generation, each a plain Go interface the integrator
// implements instead of an FFI callback table.
//
// Grounded on the teacher's exported handler-registration pattern
// (client.go's SetOnConnectHandler-style callback slots), generalized
// from single-callback slots to one interface per concern so a device
// can, as the teacher does for connection lifecycle, supply only the
// callbacks relevant to the features it implements.
package app

import "github.com/iolinke/iolinke-device/proto"

// ProcessDataSource is implemented by the device application to supply
// outgoing process data and accept incoming process data on every
// OPERATE cycle (al_set_input_req / al_get_output_ind).
type ProcessDataSource interface {
	// ProcessDataIn returns the current input process data to send to
	// the master, sized to the configured PDIn length.
	ProcessDataIn() []byte

	// ProcessDataOut delivers the process data most recently received
	// from the master, sized to the configured PDOut length.
	ProcessDataOut(pd []byte)
}

// ParameterAccess is implemented by the device application to service
// ISDU reads and writes that paramstore cannot answer directly from its
// own table (e.g. indices requiring a side effect). The DL/AL stack
// tries paramstore.Store first and falls back to this interface for any
// (index, subindex) the store does not declare.
type ParameterAccess interface {
	// ReadParameter returns the current value at (index, subindex), or
	// an error to report back as an ISDU failure.
	ReadParameter(index uint16, subindex uint8) ([]byte, error)

	// WriteParameter applies value at (index, subindex), or returns an
	// error to report back as an ISDU failure.
	WriteParameter(index uint16, subindex uint8, value []byte) error
}

// EventSource lets the device application push events toward the
// master through the bounded event memory (al_event_req).
type EventSource interface {
	// PollEvent returns the next pending event and true, or false if
	// none is pending this poll cycle.
	PollEvent() (code uint16, instance uint8, eventType uint8, ok bool)
}

// ModeObserver is notified of device-mode transitions driven by the
// system management layer (sm_set_device_mode_req confirmation), so the
// application can react to entering or leaving OPERATE.
type ModeObserver interface {
	OnModeChanged(mode proto.DeviceMode)
}
