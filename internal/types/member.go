package types

import (
	"fmt"

	"fortio.org/safecast"
)

// DependentMemberInfo stores metadata for a dependent member type
// (Base.Name, optionally constrained through a protocol).
type DependentMemberInfo struct {
	Base     TypeID
	Name     string
	Protocol TypeID // NoTypeID when unconstrained
}

// RegisterDependentMember creates or finds a dependent member type.
func (in *Interner) RegisterDependentMember(info DependentMemberInfo) TypeID {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindDependentMember {
			continue
		}
		if in.members[tt.Payload] == info {
			return id
		}
	}
	slot := in.appendMemberInfo(info)
	return in.internRaw(Type{Kind: KindDependentMember, Payload: slot})
}

// DependentMemberInfo returns metadata for a dependent member TypeID.
func (in *Interner) DependentMemberInfo(id TypeID) (*DependentMemberInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindDependentMember || int(tt.Payload) >= len(in.members) {
		return nil, false
	}
	return &in.members[tt.Payload], true
}

func (in *Interner) appendMemberInfo(info DependentMemberInfo) uint32 {
	in.members = append(in.members, info)
	slot, err := safecast.Conv[uint32](len(in.members) - 1)
	if err != nil {
		panic(fmt.Errorf("member info overflow: %w", err))
	}
	return slot
}
