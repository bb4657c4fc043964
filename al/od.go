package al

import (
	"github.com/iolinke/iolinke-device/app"
	"github.com/iolinke/iolinke-device/paramstore"
	"github.com/iolinke/iolinke-device/proto"
)

// odState enumerates the AL OD handler's states (spec 5.1: "AL OD
// handler", Idle/AwaitAlWriteRsp/AwaitAlReadRsp/AwaitAlRwRsp). Because
// this implementation services each ISDU synchronously within
// HandleISDU rather than deferring to a later poll, the Await* states
// collapse to a single request/response call; the type is kept to
// document the mapping back to the states the spec names.
type odState uint8

const (
	odIdle odState = iota
	odAwaitWrite
	odAwaitRead
)

// odHandler answers ISDU reads and writes against the parameter store,
// falling back to the application's dynamic ParameterAccess for indices
// the store does not own.
type odHandler struct {
	store   *paramstore.Store
	dynamic app.ParameterAccess
}

func newODHandler(store *paramstore.Store, dynamic app.ParameterAccess) odHandler {
	return odHandler{store: store, dynamic: dynamic}
}

func (h *odHandler) handle(msg proto.IsduMessage) ([]byte, *proto.ErrorCode) {
	if msg.Direction == proto.IsduWrite {
		return nil, h.write(msg)
	}
	return h.read(msg)
}

func (h *odHandler) read(msg proto.IsduMessage) ([]byte, *proto.ErrorCode) {
	v, err := h.store.Get(msg.Index, msg.Subindex)
	if err == nil {
		return v, nil
	}
	if paramstore.IsNoSuchEntry(err) && h.dynamic != nil {
		v, derr := h.dynamic.ReadParameter(msg.Index, msg.Subindex)
		if derr == nil {
			return v, nil
		}
	}
	return nil, classifyError(err)
}

func (h *odHandler) write(msg proto.IsduMessage) *proto.ErrorCode {
	err := h.store.Set(msg.Index, msg.Subindex, msg.Data)
	if err == nil {
		return nil
	}
	if paramstore.IsNoSuchEntry(err) && h.dynamic != nil {
		if derr := h.dynamic.WriteParameter(msg.Index, msg.Subindex, msg.Data); derr == nil {
			return nil
		}
	}
	return classifyError(err)
}

// classifyError maps a paramstore.ParamError to the Annex D error code
// an ISDU failure response carries.
func classifyError(err error) *proto.ErrorCode {
	switch {
	case paramstore.IsAccessDenied(err):
		e := proto.ErrAccessDenied
		return &e
	case paramstore.IsWrongLength(err):
		e := proto.ErrInvalidLength
		return &e
	default:
		e := proto.ErrInvalidIndex
		return &e
	}
}
