// Package paramstore implements the IO-Link object dictionary: a
// compile-time-declared schema of (index, subindex) -> fixed-size octet
// slot, each tagged with an access class, paired with a runtime mutable
// value area (spec 3.2, 4.2). The schema is built once at construction
// and frozen; nothing after that changes its keyspace, matching spec
// 3.6's first invariant.
//
// Grounded in the teacher's declarative constant catalogs (asdu.go's
// TypeID/COT tables) generalized from "named constant" to "addressable
// table entry with a default and an access class".
package paramstore

import (
	"fmt"
)

// AccessClass constrains who may get/set an entry's value.
type AccessClass uint8

const (
	ReadOnly AccessClass = iota
	WriteOnly
	ReadWrite
)

func (a AccessClass) readable() bool { return a == ReadOnly || a == ReadWrite }
func (a AccessClass) writable() bool { return a == WriteOnly || a == ReadWrite }

// ParamError is the typed error paramstore operations return, matching
// the teacher's errSingleCmdTerm/errDoubleCmdTerm pattern: an unexported
// struct plus an Is* predicate, rather than a bare sentinel string.
type ParamError struct {
	kind     paramErrKind
	Index    uint16
	Subindex uint8
}

type paramErrKind uint8

const (
	kindNoSuchEntry paramErrKind = iota
	kindAccessDenied
	kindWrongLength
)

func (e *ParamError) Error() string {
	switch e.kind {
	case kindNoSuchEntry:
		return fmt.Sprintf("paramstore: no such entry %#04x:%#02x", e.Index, e.Subindex)
	case kindAccessDenied:
		return fmt.Sprintf("paramstore: access denied for %#04x:%#02x", e.Index, e.Subindex)
	case kindWrongLength:
		return fmt.Sprintf("paramstore: wrong length for %#04x:%#02x", e.Index, e.Subindex)
	default:
		return "paramstore: error"
	}
}

// IsNoSuchEntry reports whether err is a NoSuchEntry ParamError.
func IsNoSuchEntry(err error) bool { return kindOf(err) == kindNoSuchEntry }

// IsAccessDenied reports whether err is an AccessDenied ParamError.
func IsAccessDenied(err error) bool { return kindOf(err) == kindAccessDenied }

// IsWrongLength reports whether err is a WrongLength ParamError.
func IsWrongLength(err error) bool { return kindOf(err) == kindWrongLength }

func kindOf(err error) paramErrKind {
	pe, ok := err.(*ParamError)
	if !ok {
		return paramErrKind(0xFF)
	}
	return pe.kind
}

// EntrySpec is the compile-time-declared shape of one object-dictionary
// slot (spec 3.2). A SubindexHigh above SubindexLow marks the entry as
// an array: [SubindexLow, SubindexHigh] addresses elements of Length
// octets each within the same logical parameter.
type EntrySpec struct {
	Index         uint16
	SubindexLow   uint8
	SubindexHigh  uint8 // inclusive; equals SubindexLow for scalar entries
	Length        uint8 // octets per subindex/element
	Access        AccessClass
	Default       []byte // Length octets, or SubindexHigh-SubindexLow+1 copies thereof
}

func (s EntrySpec) isArray() bool { return s.SubindexHigh > s.SubindexLow }

// Store is the runtime object dictionary: the frozen schema plus a
// mutable value area addressed by the same (index, subindex) keys.
type Store struct {
	specs  map[uint16]EntrySpec // keyed by Index; subindex range checked per-op
	values map[key][]byte
}

type key struct {
	index    uint16
	subindex uint8
}

// New compiles specs into a frozen schema and zero/default-initializes
// the value area (spec 3.7: "created zero-initialized with defaults
// applied"). It returns an error if any spec is internally inconsistent
// (e.g. a Default slice of the wrong length) -- a fatal construction-time
// condition per spec 7, never a run-time panic.
func New(specs []EntrySpec) (*Store, error) {
	s := &Store{
		specs:  make(map[uint16]EntrySpec, len(specs)),
		values: make(map[key][]byte),
	}
	for _, spec := range specs {
		if spec.SubindexHigh < spec.SubindexLow {
			return nil, fmt.Errorf("paramstore: index %#04x has inverted subindex range", spec.Index)
		}
		n := int(spec.SubindexHigh-spec.SubindexLow) + 1
		if len(spec.Default) != 0 && len(spec.Default) != int(spec.Length) && len(spec.Default) != n*int(spec.Length) {
			return nil, fmt.Errorf("paramstore: index %#04x default length mismatch", spec.Index)
		}
		s.specs[spec.Index] = spec

		for sub := spec.SubindexLow; ; sub++ {
			v := make([]byte, spec.Length)
			if len(spec.Default) == int(spec.Length) {
				copy(v, spec.Default)
			} else if len(spec.Default) == n*int(spec.Length) {
				off := int(sub-spec.SubindexLow) * int(spec.Length)
				copy(v, spec.Default[off:off+int(spec.Length)])
			}
			s.values[key{spec.Index, sub}] = v
			if sub == spec.SubindexHigh {
				break
			}
		}
	}
	return s, nil
}

func (s *Store) lookup(index uint16, subindex uint8) (EntrySpec, bool) {
	spec, ok := s.specs[index]
	if !ok {
		return EntrySpec{}, false
	}
	if subindex < spec.SubindexLow || subindex > spec.SubindexHigh {
		return EntrySpec{}, false
	}
	return spec, true
}

// Get returns the current value at (index, subindex). Access class is
// enforced before the value is returned (spec 3.6).
func (s *Store) Get(index uint16, subindex uint8) ([]byte, error) {
	spec, ok := s.lookup(index, subindex)
	if !ok {
		return nil, &ParamError{kindNoSuchEntry, index, subindex}
	}
	if !spec.Access.readable() {
		return nil, &ParamError{kindAccessDenied, index, subindex}
	}
	v := s.values[key{index, subindex}]
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set writes value at (index, subindex), enforcing access class and
// exact length match before any mutation occurs (spec 3.6).
func (s *Store) Set(index uint16, subindex uint8, value []byte) error {
	spec, ok := s.lookup(index, subindex)
	if !ok {
		return &ParamError{kindNoSuchEntry, index, subindex}
	}
	if !spec.Access.writable() {
		return &ParamError{kindAccessDenied, index, subindex}
	}
	if len(value) != int(spec.Length) {
		return &ParamError{kindWrongLength, index, subindex}
	}
	dst := make([]byte, len(value))
	copy(dst, value)
	s.values[key{index, subindex}] = dst
	return nil
}

// Spec returns the compiled schema entry for index, if declared.
func (s *Store) Spec(index uint16) (EntrySpec, bool) {
	spec, ok := s.specs[index]
	return spec, ok
}

// ReadIndexMemory concatenates every defined subindex of index, in
// ascending subindex order (spec 4.2).
func (s *Store) ReadIndexMemory(index uint16) ([]byte, error) {
	spec, ok := s.specs[index]
	if !ok {
		return nil, &ParamError{kindNoSuchEntry, index, 0}
	}
	var out []byte
	for sub := spec.SubindexLow; ; sub++ {
		v, err := s.Get(index, sub)
		if err != nil {
			return nil, err
		}
		out = append(out, v...)
		if sub == spec.SubindexHigh {
			break
		}
	}
	return out, nil
}

// WriteIndexMemory is ReadIndexMemory's inverse: it splits data across
// every defined subindex of index, failing atomically (no partial write)
// if any subindex write would be invalid (spec 4.2).
func (s *Store) WriteIndexMemory(index uint16, data []byte) error {
	spec, ok := s.specs[index]
	if !ok {
		return &ParamError{kindNoSuchEntry, index, 0}
	}
	n := int(spec.SubindexHigh-spec.SubindexLow) + 1
	if len(data) != n*int(spec.Length) {
		return &ParamError{kindWrongLength, index, 0}
	}
	for sub := spec.SubindexLow; ; sub++ {
		if !spec.Access.writable() {
			return &ParamError{kindAccessDenied, index, sub}
		}
		if sub == spec.SubindexHigh {
			break
		}
	}
	for sub := spec.SubindexLow; ; sub++ {
		off := int(sub-spec.SubindexLow) * int(spec.Length)
		if err := s.Set(index, sub, data[off:off+int(spec.Length)]); err != nil {
			return err
		}
		if sub == spec.SubindexHigh {
			break
		}
	}
	return nil
}
