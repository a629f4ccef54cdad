package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"remotetype/internal/decl"
)

// NominalInfo stores metadata for a non-generic nominal type. The
// declaration's name and kind are denormalized here so printing and
// ownership checks never consult the directory.
type NominalInfo struct {
	Decl     decl.ID
	DeclKind decl.Kind
	Name     string
	Parent   TypeID // enclosing nominal type, NoTypeID when top-level
}

// BoundGenericInfo stores metadata for a generic nominal type applied
// to a full argument list.
type BoundGenericInfo struct {
	Decl     decl.ID
	DeclKind decl.Kind
	Name     string
	Args     []TypeID
	Parent   TypeID
}

// RegisterNominal creates or finds the nominal type for a declaration.
func (in *Interner) RegisterNominal(info NominalInfo) TypeID {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindNominal {
			continue
		}
		have := in.nominals[tt.Payload]
		if have.Decl == info.Decl && have.Parent == info.Parent {
			return id
		}
	}
	slot := in.appendNominalInfo(info)
	return in.internRaw(Type{Kind: KindNominal, Payload: slot})
}

// RegisterBoundGeneric creates or finds a generic nominal type applied
// to the given arguments.
func (in *Interner) RegisterBoundGeneric(info BoundGenericInfo) TypeID {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindBoundGeneric {
			continue
		}
		have := in.boundGenerics[tt.Payload]
		if have.Decl == info.Decl && have.Parent == info.Parent && slices.Equal(have.Args, info.Args) {
			return id
		}
	}
	slot := in.appendBoundGenericInfo(info)
	return in.internRaw(Type{Kind: KindBoundGeneric, Payload: slot})
}

// NominalInfo returns metadata for a nominal TypeID.
func (in *Interner) NominalInfo(id TypeID) (*NominalInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindNominal || int(tt.Payload) >= len(in.nominals) {
		return nil, false
	}
	return &in.nominals[tt.Payload], true
}

// BoundGenericInfo returns metadata for a bound-generic TypeID.
func (in *Interner) BoundGenericInfo(id TypeID) (*BoundGenericInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindBoundGeneric || int(tt.Payload) >= len(in.boundGenerics) {
		return nil, false
	}
	return &in.boundGenerics[tt.Payload], true
}

// NominalDecl returns the declaration behind a nominal or
// bound-generic type, NoID otherwise.
func (in *Interner) NominalDecl(id TypeID) decl.ID {
	if info, ok := in.NominalInfo(id); ok {
		return info.Decl
	}
	if info, ok := in.BoundGenericInfo(id); ok {
		return info.Decl
	}
	return decl.NoID
}

// NominalParent returns the enclosing nominal type of a nominal or
// bound-generic type, NoTypeID otherwise.
func (in *Interner) NominalParent(id TypeID) TypeID {
	if info, ok := in.NominalInfo(id); ok {
		return info.Parent
	}
	if info, ok := in.BoundGenericInfo(id); ok {
		return info.Parent
	}
	return NoTypeID
}

func (in *Interner) appendNominalInfo(info NominalInfo) uint32 {
	in.nominals = append(in.nominals, info)
	slot, err := safecast.Conv[uint32](len(in.nominals) - 1)
	if err != nil {
		panic(fmt.Errorf("nominal info overflow: %w", err))
	}
	return slot
}

func (in *Interner) appendBoundGenericInfo(info BoundGenericInfo) uint32 {
	in.boundGenerics = append(in.boundGenerics, BoundGenericInfo{
		Decl:     info.Decl,
		DeclKind: info.DeclKind,
		Name:     info.Name,
		Args:     slices.Clone(info.Args),
		Parent:   info.Parent,
	})
	slot, err := safecast.Conv[uint32](len(in.boundGenerics) - 1)
	if err != nil {
		panic(fmt.Errorf("bound generic info overflow: %w", err))
	}
	return slot
}
