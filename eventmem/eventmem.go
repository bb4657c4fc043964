// Package eventmem implements the bounded event memory the DL event
// handler drains on request: a 6-entry FIFO (spec 4.6, Annex A.5) that
// freezes into a read-only snapshot while a master is reading it, so a
// newly appended event never mutates a read already in progress.
//
// Grounded on the teacher's fixed-size internal buffering idiom (the
// APCI send/receive sequence-number bookkeeping in client.go), adapted
// from "sliding window of unacked frames" to "fixed-capacity FIFO with
// a freeze flag".
package eventmem

// Capacity is the maximum number of pending events IO-Link devices are
// required to hold (spec 4.6).
const Capacity = 6

// EventCode identifies the event per Annex A.5 (instance/mode/type
// triplet packed as the device sees fit; this module treats it as an
// opaque value assigned by the application layer).
type EventCode struct {
	Instance uint8
	Mode     uint8
	Type     uint8
	Code     uint16
}

// Memory is the bounded event FIFO.
type Memory struct {
	entries      []EventCode
	readableOnly bool
}

// New returns an empty event memory.
func New() *Memory {
	return &Memory{entries: make([]EventCode, 0, Capacity)}
}

// ErrFull is returned by Append when the FIFO already holds Capacity
// entries (spec 4.6: oldest-preserved, new events are dropped rather
// than evicting an unread one).
type fullError struct{}

func (fullError) Error() string { return "eventmem: memory full" }

// ErrFull is the sentinel Append returns when the FIFO is saturated.
var ErrFull fullError

type frozenError struct{}

func (frozenError) Error() string { return "eventmem: memory frozen" }

// ErrFrozen is the sentinel Append returns while the memory is frozen in
// readable-only mode.
var ErrFrozen frozenError

// Append adds ev to the FIFO. It returns ErrFrozen while the memory is
// frozen in readable-only mode and ErrFull once it holds Capacity
// entries; in both cases ev is not stored and no held entry is evicted.
func (m *Memory) Append(ev EventCode) error {
	if m.readableOnly {
		return ErrFrozen
	}
	if len(m.entries) >= Capacity {
		return ErrFull
	}
	m.entries = append(m.entries, ev)
	return nil
}

// SetReadableOnly freezes (true) or unfreezes (false) the memory. While
// frozen, Clear is a no-op and the entry set returned by Get is stable
// across calls, matching the DL event handler's FreezeEventMemory state
// (spec 4.6): the master may read a multi-entry event report across
// several M-sequences without entries shifting underneath it.
func (m *Memory) SetReadableOnly(v bool) {
	m.readableOnly = v
}

// ReadableOnly reports the current freeze state.
func (m *Memory) ReadableOnly() bool {
	return m.readableOnly
}

// Get returns a snapshot copy of the currently held events, oldest
// first.
func (m *Memory) Get() []EventCode {
	out := make([]EventCode, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len reports how many events are currently held.
func (m *Memory) Len() int {
	return len(m.entries)
}

// ClearAll empties the FIFO. It is a no-op while frozen in
// readable-only mode (spec 4.6: the master must release the freeze
// before the device may accept new events).
func (m *Memory) ClearAll() {
	if m.readableOnly {
		return
	}
	m.entries = m.entries[:0]
}
