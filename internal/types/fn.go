package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Convention tags the calling convention of a function type.
type Convention uint8

const (
	ConventionNative Convention = iota
	ConventionBlock
	ConventionThin
	ConventionCPointer
)

func (c Convention) String() string {
	switch c {
	case ConventionNative:
		return "native"
	case ConventionBlock:
		return "block"
	case ConventionThin:
		return "thin"
	case ConventionCPointer:
		return "c"
	default:
		return fmt.Sprintf("Convention(%d)", c)
	}
}

// FnInfo stores metadata for function types. Input collapses the
// parameter list: the bare parameter type for a single parameter, a
// tuple (with inout wrapping applied per element) otherwise.
type FnInfo struct {
	Input      TypeID
	Result     TypeID
	Convention Convention
	Throws     bool
}

// RegisterFn creates or finds a function type.
func (in *Interner) RegisterFn(info FnInfo) TypeID {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindFn {
			continue
		}
		if in.fns[tt.Payload] == info {
			return id
		}
	}
	slot := in.appendFnInfo(info)
	return in.internRaw(Type{Kind: KindFn, Payload: slot})
}

// FnInfo retrieves function type metadata by TypeID.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFn || int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}

func (in *Interner) appendFnInfo(info FnInfo) uint32 {
	in.fns = append(in.fns, info)
	slot, err := safecast.Conv[uint32](len(in.fns) - 1)
	if err != nil {
		panic(fmt.Errorf("fn info overflow: %w", err))
	}
	return slot
}
