package iolinke

import "fmt"

// errConfig reports a problem with the configuration supplied to
// NewDevice, detected at construction time rather than deferred to the
// first failing operation (grounded on tasks/configuration/src/config_struct.rs
// in the original reference implementation, which validates the whole
// configuration record up front before any task starts), following the
// teacher's unexported-struct-plus-predicate error pattern.
type errConfig struct {
	field  string
	reason string
}

func (e errConfig) Error() string {
	return fmt.Sprintf("iolinke: invalid configuration field %s: %s", e.field, e.reason)
}

// IsErrConfig reports whether err is a configuration-validation error
// raised by NewDevice.
func IsErrConfig(err error) bool {
	_, ok := err.(errConfig)
	return ok
}

type errNotReady struct{}

func (e errNotReady) Error() string {
	return "iolinke: device not yet past Startup mode"
}

// IsErrNotReady reports whether err indicates an operation was
// attempted before the device reached a mode that supports it (e.g.
// process data access before Operate).
func IsErrNotReady(err error) bool {
	_, ok := err.(errNotReady)
	return ok
}
