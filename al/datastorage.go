package al

import (
	"github.com/iolinke/iolinke-device/paramstore"
	"github.com/iolinke/iolinke-device/proto"
)

// dsState enumerates the AL data-storage handler's states (spec 5.2:
// "AL data storage", DSStateCheck/DSIdle/DSActivity).
type dsState uint8

const (
	dsCheck dsState = iota
	dsIdle
	dsActivity
)

// dataStorage services the supplemented data-storage index-list feature
// (spec 4.9 supplement, grounded on storage/parameters_memory.rs and
// al/data_storage.rs in the original reference implementation): a
// master reads or writes the whole IdxDataStorageIndex list as one
// block rather than one subindex at a time. The parameters the list
// names are not read or written by this handler.
type dataStorage struct {
	state dsState
	store *paramstore.Store
}

func newDataStorage(store *paramstore.Store) dataStorage {
	return dataStorage{state: dsIdle, store: store}
}

// handle intercepts ISDU traffic addressed to IdxDataStorageIndex
// itself (the index list) and declines every other index so the plain
// OD handler can service it normally. Returning handled=false means
// "not a data-storage request"; handled=true means the request was fully
// serviced here, with errCode set on failure, the list octets as resp on
// a successful read, and both nil on a successful write.
func (d *dataStorage) handle(msg proto.IsduMessage) (resp []byte, handled bool, errCode *proto.ErrorCode) {
	if msg.Index != paramstore.IdxDataStorageIndex {
		return nil, false, nil
	}
	d.state = dsActivity
	defer func() { d.state = dsIdle }()

	if msg.Direction == proto.IsduWrite {
		if err := d.store.WriteIndexMemory(msg.Index, msg.Data); err != nil {
			e := classifyError(err)
			return nil, true, e
		}
		return nil, true, nil
	}

	v, err := d.store.ReadIndexMemory(msg.Index)
	if err != nil {
		e := classifyError(err)
		return nil, true, e
	}
	return v, true, nil
}
