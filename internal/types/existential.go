package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"remotetype/internal/decl"
)

// ProtocolInfo stores metadata for a protocol reference type.
type ProtocolInfo struct {
	Decl   decl.ID
	Name   string
	Module string
}

// CompositionInfo stores the members of a protocol composition.
// Members are protocol reference types; an empty set is the top type.
type CompositionInfo struct {
	Members []TypeID
}

// RegisterProtocol creates or finds a protocol reference type.
func (in *Interner) RegisterProtocol(info ProtocolInfo) TypeID {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindProtocol {
			continue
		}
		if in.protocols[tt.Payload].Decl == info.Decl {
			return id
		}
	}
	slot := in.appendProtocolInfo(info)
	return in.internRaw(Type{Kind: KindProtocol, Payload: slot})
}

// RegisterComposition creates or finds a protocol composition type.
func (in *Interner) RegisterComposition(members []TypeID) TypeID {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindComposition {
			continue
		}
		if slices.Equal(in.compositions[tt.Payload].Members, members) {
			return id
		}
	}
	slot := in.appendCompositionInfo(CompositionInfo{Members: slices.Clone(members)})
	return in.internRaw(Type{Kind: KindComposition, Payload: slot})
}

// ProtocolInfo returns metadata for a protocol TypeID.
func (in *Interner) ProtocolInfo(id TypeID) (*ProtocolInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindProtocol || int(tt.Payload) >= len(in.protocols) {
		return nil, false
	}
	return &in.protocols[tt.Payload], true
}

// CompositionInfo returns the member list for a composition TypeID.
func (in *Interner) CompositionInfo(id TypeID) (*CompositionInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindComposition || int(tt.Payload) >= len(in.compositions) {
		return nil, false
	}
	return &in.compositions[tt.Payload], true
}

func (in *Interner) appendProtocolInfo(info ProtocolInfo) uint32 {
	in.protocols = append(in.protocols, info)
	slot, err := safecast.Conv[uint32](len(in.protocols) - 1)
	if err != nil {
		panic(fmt.Errorf("protocol info overflow: %w", err))
	}
	return slot
}

func (in *Interner) appendCompositionInfo(info CompositionInfo) uint32 {
	in.compositions = append(in.compositions, info)
	slot, err := safecast.Conv[uint32](len(in.compositions) - 1)
	if err != nil {
		panic(fmt.Errorf("composition info overflow: %w", err))
	}
	return slot
}
