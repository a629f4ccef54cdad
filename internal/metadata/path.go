package metadata

import (
	"strings"

	"remotetype/internal/demangle"
)

// Descriptor name grammar: a dot-separated context path rooted at the
// module, e.g. "Main.C$Outer.Inner". Non-module segments may carry a
// kind sigil (C class, S struct, E enum, P protocol) ahead of a '$';
// unmarked intermediate segments default to struct and the final
// segment takes the descriptor's own kind.

func segmentKind(marker byte) (demangle.NodeKind, bool) {
	switch marker {
	case 'C':
		return demangle.KindClass, true
	case 'S':
		return demangle.KindStruct, true
	case 'E':
		return demangle.KindEnum, true
	case 'P':
		return demangle.KindProtocol, true
	default:
		return demangle.KindInvalid, false
	}
}

func nodeKindFor(k RecordKind) (demangle.NodeKind, bool) {
	switch k {
	case RecordClass, RecordForeignClass, RecordBridgedClass:
		return demangle.KindClass, true
	case RecordStruct:
		return demangle.KindStruct, true
	case RecordEnum:
		return demangle.KindEnum, true
	case RecordProtocol:
		return demangle.KindProtocol, true
	default:
		return demangle.KindInvalid, false
	}
}

// parsePath turns a descriptor's qualified name into a symbol tree the
// declaration resolver understands. finalKind is the node kind for the
// last segment, taken from the descriptor's kind tag.
func parsePath(path string, finalKind demangle.NodeKind) (*demangle.Node, bool) {
	segments := strings.Split(path, ".")
	if len(segments) < 2 {
		return nil, false
	}
	for _, s := range segments {
		if s == "" {
			return nil, false
		}
	}

	node := demangle.NewNode(demangle.KindModule, segments[0])
	for i, seg := range segments[1:] {
		kind := demangle.KindStruct
		last := i == len(segments)-2
		if last {
			kind = finalKind
		}
		if len(seg) > 2 && seg[1] == '$' {
			marked, ok := segmentKind(seg[0])
			if !ok {
				return nil, false
			}
			kind = marked
			seg = seg[2:]
		}
		node = demangle.NewNode(kind, "",
			node,
			demangle.NewNode(demangle.KindIdentifier, seg),
		)
	}
	return node, true
}
