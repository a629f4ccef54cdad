package types

import "fmt"

// TypeID uniquely identifies a canonical type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindOpaque
	KindNominal
	KindBoundGeneric
	KindTuple
	KindFn
	KindProtocol
	KindComposition
	KindMetatype
	KindExistentialMetatype
	KindGenericParam
	KindDependentMember
	KindUnownedStorage
	KindUnmanagedStorage
	KindWeakStorage
	KindInOut
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindOpaque:
		return "opaque"
	case KindNominal:
		return "nominal"
	case KindBoundGeneric:
		return "bound-generic"
	case KindTuple:
		return "tuple"
	case KindFn:
		return "function"
	case KindProtocol:
		return "protocol"
	case KindComposition:
		return "composition"
	case KindMetatype:
		return "metatype"
	case KindExistentialMetatype:
		return "existential-metatype"
	case KindGenericParam:
		return "generic-param"
	case KindDependentMember:
		return "dependent-member"
	case KindUnownedStorage:
		return "unowned-storage"
	case KindUnmanagedStorage:
		return "unmanaged-storage"
	case KindWeakStorage:
		return "weak-storage"
	case KindInOut:
		return "inout"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any supported type. Elem points at
// the wrapped type for metatypes, storage qualifiers and inout;
// Payload indexes a per-kind info table (or packs small scalars, see
// generic params).
type Type struct {
	Kind    Kind
	Elem    TypeID
	Payload uint32
}

// MakeMetatype describes T.Type.
func MakeMetatype(instance TypeID) Type {
	return Type{Kind: KindMetatype, Elem: instance}
}

// MakeExistentialMetatype describes P.Type for an existential P.
func MakeExistentialMetatype(instance TypeID) Type {
	return Type{Kind: KindExistentialMetatype, Elem: instance}
}

// MakeStorage describes an ownership-qualified wrapper around base.
// kind must be one of the three storage kinds.
func MakeStorage(kind Kind, base TypeID) Type {
	return Type{Kind: kind, Elem: base}
}

// MakeInOut describes an inout-qualified parameter type.
func MakeInOut(base TypeID) Type {
	return Type{Kind: KindInOut, Elem: base}
}

// MakeGenericParam describes the type parameter at (depth, index).
// Both components are packed into the payload.
func MakeGenericParam(depth, index uint16) Type {
	return Type{Kind: KindGenericParam, Payload: uint32(depth)<<16 | uint32(index)}
}

// GenericParamAt unpacks the (depth, index) pair of a generic param.
func GenericParamAt(t Type) (depth, index uint16) {
	return uint16(t.Payload >> 16), uint16(t.Payload)
}
