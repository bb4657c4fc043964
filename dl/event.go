package dl

// eventConfStatus is the diagnosis-channel status code a master writes
// to acknowledge a latched event and unfreeze event memory (spec 4.10
// T5: "EventConf").
const eventConfStatus byte = 0x00

// eventHandler tracks whether at least one event is pending so the
// message handler can set CKS's event flag, and owns the
// FreezeEventMemory transition that stops new events from mutating the
// set mid-read (spec 4.6: "DL event handler",
// Inactive/Idle/FreezeEventMemory).
type eventHandler struct {
	pendingCount int
	frozen       bool
}

func newEventHandler() eventHandler { return eventHandler{} }

func (h *eventHandler) setPendingCount(n int) { h.pendingCount = n }

func (h *eventHandler) pending() bool { return h.pendingCount > 0 }

func (h *eventHandler) freeze()   { h.frozen = true }
func (h *eventHandler) unfreeze() { h.frozen = false }
func (h *eventHandler) isFrozen() bool { return h.frozen }
