package dl

// pdHandler tracks whether process data exchange is currently active
// (spec 4.7: "DL PD handler", Inactive/PDActive/HandlePD). Actual
// transport of process-data octets happens inline in Layer.handleMessage
// and Layer.reply via the ApplicationLayer callbacks; this handler only
// tracks the activity flag Layer.PDActive reports.
type pdHandler struct {
	active bool
}

func newPDHandler() pdHandler { return pdHandler{} }

func (h *pdHandler) activate()   { h.active = true }
func (h *pdHandler) deactivate() { h.active = false }
func (h *pdHandler) isActive() bool { return h.active }
