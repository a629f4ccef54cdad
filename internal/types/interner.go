package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for types that exist independently of any
// declaration.
type Builtins struct {
	Invalid TypeID
	Opaque  TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Types are immutable once interned; one interner backs one
// reflection session.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins

	nominals      []NominalInfo
	boundGenerics []BoundGenericInfo
	tuples        []TupleInfo
	fns           []FnInfo
	protocols     []ProtocolInfo
	compositions  []CompositionInfo
	members       []DependentMemberInfo
}

// NewInterner constructs an interner seeded with the placeholder types.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[typeKey]TypeID, 64),
	}
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Opaque = in.Intern(Type{Kind: KindOpaque})
	return in
}

// Builtins returns TypeIDs for the placeholder types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	key := typeKey(t)
	in.index[key] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

type typeKey struct {
	Kind    Kind
	Elem    TypeID
	Payload uint32
}
