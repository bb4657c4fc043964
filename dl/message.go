package dl

import (
	"github.com/iolinke/iolinke-device/frame"
	"github.com/iolinke/iolinke-device/physical"
)

// messageHandler owns the reception and transmission buffers shared by
// every other dl sub-handler (spec 4.4: "DL message handler" states
// Inactive/Idle/GetMessage/CheckMessage/CreateMessage, collapsed here
// into a push-to-complete reception buffer plus a compile-on-demand
// transmission buffer, since Go's cooperative Poll() loop makes the
// intermediate "waiting for more bytes" states implicit in pending
// rather than enumerated).
type messageHandler struct {
	rx      *frame.RxBuffer
	tx      *frame.TxBuffer
	pending bool
	pl      physical.Layer
}

func newMessageHandler(cfg frame.Config, pl physical.Layer) messageHandler {
	return messageHandler{
		rx: frame.NewRxBuffer(cfg),
		tx: frame.NewTxBuffer(cfg),
		pl: pl,
	}
}
