package metadata

import "fmt"

// RecordKind tags a runtime metadata or descriptor record. The tag is
// the first pointer-sized word of every record.
type RecordKind uint32

const (
	RecordInvalid RecordKind = 0

	// Nominal metadata and nominal descriptors share the kind space.
	RecordClass  RecordKind = 1
	RecordStruct RecordKind = 2
	RecordEnum   RecordKind = 3
	// RecordProtocol only appears in descriptors referenced from
	// existential records.
	RecordProtocol RecordKind = 4

	RecordOpaque              RecordKind = 8
	RecordTuple               RecordKind = 9
	RecordFunction            RecordKind = 10
	RecordExistential         RecordKind = 12
	RecordMetatype            RecordKind = 13
	RecordBridgedClass        RecordKind = 14
	RecordExistentialMetatype RecordKind = 15
	RecordForeignClass        RecordKind = 16
)

func (k RecordKind) String() string {
	switch k {
	case RecordClass:
		return "class"
	case RecordStruct:
		return "struct"
	case RecordEnum:
		return "enum"
	case RecordProtocol:
		return "protocol"
	case RecordOpaque:
		return "opaque"
	case RecordTuple:
		return "tuple"
	case RecordFunction:
		return "function"
	case RecordExistential:
		return "existential"
	case RecordMetatype:
		return "metatype"
	case RecordBridgedClass:
		return "bridged-class"
	case RecordExistentialMetatype:
		return "existential-metatype"
	case RecordForeignClass:
		return "foreign-class"
	default:
		return fmt.Sprintf("RecordKind(%d)", uint32(k))
	}
}

// IsNominal reports whether the kind describes class/struct/enum
// metadata.
func (k RecordKind) IsNominal() bool {
	switch k {
	case RecordClass, RecordStruct, RecordEnum:
		return true
	default:
		return false
	}
}

// Function flags word layout: parameter count in the low 16 bits,
// calling convention in bits 16-17, throws in bit 24.
const (
	fnFlagsCountMask      = 0xFFFF
	fnFlagsConventionBit  = 16
	fnFlagsConventionMask = 0x3
	fnFlagsThrowsBit      = 24
)
