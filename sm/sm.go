// Package sm implements IO-Link system management: device
// identification checking and the device-mode transition orchestration
// that drives the data-link layer's mode handler through
// Inactive -> EstablishCom -> Startup -> Preoperate -> Operate (spec 6).
//
// Grounded on the teacher's connection-lifecycle orchestration in
// client.go (Connect/Close driving the APCI state machine through its
// own startup sequence), generalized from a TCP dial/handshake to the
// wake-up/identification handshake IO-Link performs before process data
// can flow.
package sm

import (
	"github.com/sirupsen/logrus"

	"github.com/iolinke/iolinke-device/proto"
)

// DataLinkLayer is the set of calls system management issues down into
// the data-link layer (sm_set_device_mode_req and friends). sm declares
// this interface rather than importing dl directly so dl.Layer can
// satisfy it by method signature alone.
type DataLinkLayer interface {
	Mode() proto.DeviceMode
	RequestMode(target proto.DeviceMode)
}

// Identity holds the device identification fields a master checks
// against its expected configuration before entering Preoperate (spec
// 6.1: sm_set_device_ident_req / sm_get_device_ident_req).
type Identity struct {
	VendorID uint16
	DeviceID uint32
	Revision uint8
}

// Manager drives device-mode transitions and answers identification
// queries.
type Manager struct {
	lg *logrus.Entry
	dl DataLinkLayer

	identity Identity
	comLost  bool
}

// New constructs a system management instance bound to dl and
// configured with the device's fixed identity.
func New(dl DataLinkLayer, identity Identity, lg *logrus.Entry) *Manager {
	return &Manager{lg: lg, dl: dl, identity: identity}
}

// Identity returns the device's identification triplet
// (sm_get_device_ident_req).
func (m *Manager) Identity() Identity { return m.identity }

// CheckIdentity reports whether want matches this device's identity,
// the check a master performs before the device enters Preoperate
// (spec 6.1).
func (m *Manager) CheckIdentity(want Identity) bool {
	return want == m.identity
}

// EstablishCom begins the communication establishment sequence
// (sm_set_device_com_req), advancing the data-link layer toward
// EstablishCom mode.
func (m *Manager) EstablishCom() {
	m.comLost = false
	m.dl.RequestMode(proto.ModeEstablishCom)
}

// Startup advances toward Startup mode once EstablishCom has completed.
func (m *Manager) Startup() {
	m.dl.RequestMode(proto.ModeStartup)
}

// Preoperate advances toward Preoperate mode once identification has
// been confirmed (sm_set_device_mode_req).
func (m *Manager) Preoperate() {
	m.dl.RequestMode(proto.ModePreoperate)
}

// Operate advances toward Operate mode once parameterization is
// complete.
func (m *Manager) Operate() {
	m.dl.RequestMode(proto.ModeOperate)
}

// ComLost reports communication loss and falls the device back to
// Inactive, from which EstablishCom must be retried from scratch (spec
// 6.2).
func (m *Manager) ComLost() {
	if m.comLost {
		return
	}
	m.comLost = true
	m.lg.Debug("sm: communication lost, falling back to Inactive")
	m.dl.RequestMode(proto.ModeInactive)
}

// CurrentMode reports the data-link layer's current device mode
// (sm_get_device_com_req).
func (m *Manager) CurrentMode() proto.DeviceMode { return m.dl.Mode() }
