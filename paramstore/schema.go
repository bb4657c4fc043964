package paramstore

// Direct Parameter Page 1 indices (Annex A.1.1-A.1.10). These are the
// fixed-address identification and capability octets a master reads
// during STARTUP before any ISDU traffic is possible.
const (
	IdxVendorID           uint16 = 0x0000 // subindices 1-2
	IdxDeviceIDLow        uint16 = 0x0001
	IdxFunctionID1        uint16 = 0x0002
	IdxRevisionID         uint16 = 0x0004
	IdxProcessDataIn      uint16 = 0x0005
	IdxProcessDataOut     uint16 = 0x0006
	IdxMasterCycleTime    uint16 = 0x0007
	IdxMinCycleTime       uint16 = 0x0008
	IdxMSequenceCapability uint16 = 0x0009
	IdxRevisionID2        uint16 = 0x000A
	IdxProcessDataInLen   uint16 = 0x000B
	IdxProcessDataOutLen  uint16 = 0x000C
	IdxSystemCommand      uint16 = 0x000D

	// Supplemented vendor-specific block, grounded on
	// config/vendor_specifics.rs in the original reference
	// implementation; the distilled spec is silent on these indices
	// but every real IO-Link device exposes them.
	IdxVendorName           uint16 = 0x0010
	IdxVendorText           uint16 = 0x0011
	IdxProductName          uint16 = 0x0012
	IdxProductID            uint16 = 0x0013
	IdxProductText          uint16 = 0x0014
	IdxSerialNumber         uint16 = 0x0015
	IdxApplicationSpecificTag uint16 = 0x0018
	IdxDataStorageIndex     uint16 = 0x0003
)

// DefaultDirectParameterPage1 returns the schema for the mandatory
// Direct Parameter Page 1 entries, each a single scalar octet slot
// unless noted otherwise. Device firmware overrides VendorID/DeviceID/
// capability defaults via the Default field before calling New.
func DefaultDirectParameterPage1() []EntrySpec {
	return []EntrySpec{
		{Index: IdxVendorID, SubindexLow: 1, SubindexHigh: 2, Length: 1, Access: ReadOnly},
		{Index: IdxDeviceIDLow, SubindexLow: 0, SubindexHigh: 2, Length: 1, Access: ReadOnly},
		{Index: IdxFunctionID1, SubindexLow: 0, SubindexHigh: 1, Length: 1, Access: ReadOnly},
		{Index: IdxRevisionID, SubindexLow: 0, SubindexHigh: 0, Length: 1, Access: ReadOnly},
		{Index: IdxProcessDataIn, SubindexLow: 0, SubindexHigh: 0, Length: 1, Access: ReadOnly},
		{Index: IdxProcessDataOut, SubindexLow: 0, SubindexHigh: 0, Length: 1, Access: ReadOnly},
		{Index: IdxMasterCycleTime, SubindexLow: 0, SubindexHigh: 0, Length: 1, Access: ReadWrite},
		{Index: IdxMinCycleTime, SubindexLow: 0, SubindexHigh: 0, Length: 1, Access: ReadOnly},
		{Index: IdxMSequenceCapability, SubindexLow: 0, SubindexHigh: 0, Length: 1, Access: ReadOnly},
		{Index: IdxRevisionID2, SubindexLow: 0, SubindexHigh: 0, Length: 1, Access: ReadOnly},
		{Index: IdxProcessDataInLen, SubindexLow: 0, SubindexHigh: 0, Length: 1, Access: ReadOnly},
		{Index: IdxProcessDataOutLen, SubindexLow: 0, SubindexHigh: 0, Length: 1, Access: ReadOnly},
		{Index: IdxSystemCommand, SubindexLow: 0, SubindexHigh: 0, Length: 1, Access: WriteOnly},
	}
}

// DefaultVendorBlock returns the schema for the supplemented
// vendor-identification parameters, sized generously (32 octets) to
// hold typical ASCII vendor strings; firmware supplies real content via
// Default. Set and WriteIndexMemory refuse the ReadOnly entries here;
// only ApplicationSpecificTag and DataStorageIndex are writable.
func DefaultVendorBlock() []EntrySpec {
	str := func(index uint16) EntrySpec {
		return EntrySpec{Index: index, SubindexLow: 0, SubindexHigh: 0, Length: 32, Access: ReadOnly}
	}
	return []EntrySpec{
		str(IdxVendorName),
		str(IdxVendorText),
		str(IdxProductName),
		str(IdxProductID),
		str(IdxProductText),
		{Index: IdxSerialNumber, SubindexLow: 0, SubindexHigh: 0, Length: 16, Access: ReadOnly},
		{Index: IdxApplicationSpecificTag, SubindexLow: 0, SubindexHigh: 0, Length: 32, Access: ReadWrite},
		// DataStorageIndex is a list of indices subject to data storage
		// upload/download (spec 4.9 supplement), one octet pair per entry,
		// sized for up to 16 indices. ReadWrite: a master downloads a
		// replacement device's configuration by writing this block back.
		{Index: IdxDataStorageIndex, SubindexLow: 1, SubindexHigh: 16, Length: 2, Access: ReadWrite},
	}
}
