package al

import (
	"github.com/iolinke/iolinke-device/app"
	"github.com/iolinke/iolinke-device/eventmem"
)

// evState enumerates the AL event handler's states (spec 5.3: "AL event
// handler", EventInactive/EventIdle/AwaitEventResponse).
type evState uint8

const (
	evInactive evState = iota
	evIdle
	evAwaitResponse
)

// eventHandler pulls events from the application's EventSource into the
// bounded event memory, one per drain call, matching the FIFO's
// drop-rather-than-evict full semantics (spec 4.6).
type eventHandler struct {
	state evState
	mem   *eventmem.Memory
}

func newEventHandler(mem *eventmem.Memory) eventHandler {
	return eventHandler{state: evIdle, mem: mem}
}

// serve returns length octets of the serialized queued-event block
// starting at offset, for a diagnosis-channel read (spec 4.10 T4). Each
// event occupies 3 octets: a qualifier octet (2-bit instance, 2-bit
// type, 2-bit mode) followed by the 2-octet big-endian event code
// (spec 3.5).
func (h *eventHandler) serve(offset uint8, length int) []byte {
	raw := serializeEvents(h.mem.Get())
	out := make([]byte, length)
	start := int(offset)
	if start < len(raw) {
		n := copy(out, raw[start:])
		_ = n
	}
	return out
}

func serializeEvents(events []eventmem.EventCode) []byte {
	out := make([]byte, 0, len(events)*3)
	for _, e := range events {
		qualifier := (e.Instance&0x3)<<6 | (e.Type&0x3)<<3 | (e.Mode&0x3)<<1
		out = append(out, qualifier, byte(e.Code>>8), byte(e.Code))
	}
	return out
}

// drainFromApp polls src for one pending event and appends it to the
// event memory if present; it is a no-op if the device has no
// EventSource or no event is currently pending.
func (h *eventHandler) drainFromApp(src app.EventSource) {
	if src == nil || h.mem == nil {
		return
	}
	code, instance, eventType, ok := src.PollEvent()
	if !ok {
		return
	}
	h.state = evAwaitResponse
	_ = h.mem.Append(eventmem.EventCode{Instance: instance, Mode: 0, Type: eventType, Code: code})
	h.state = evIdle
}
