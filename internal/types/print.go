package types

import (
	"fmt"
	"strings"
)

// Print renders a type in source-like notation. The rendering is
// canonical for a given structure, so two interners agree on it for
// structurally equal types.
func (in *Interner) Print(id TypeID) string {
	var sb strings.Builder
	in.printInto(&sb, id)
	return sb.String()
}

func (in *Interner) printInto(sb *strings.Builder, id TypeID) {
	tt, ok := in.Lookup(id)
	if !ok {
		sb.WriteString("<invalid>")
		return
	}
	switch tt.Kind {
	case KindOpaque:
		sb.WriteString("<opaque>")
	case KindNominal:
		info, _ := in.NominalInfo(id)
		in.printQualified(sb, info.Parent, info.Name)
	case KindBoundGeneric:
		info, _ := in.BoundGenericInfo(id)
		in.printQualified(sb, info.Parent, info.Name)
		sb.WriteString("<")
		for i, arg := range info.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			in.printInto(sb, arg)
		}
		sb.WriteString(">")
	case KindTuple:
		info, _ := in.TupleInfo(id)
		sb.WriteString("(")
		for i, elem := range info.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			if i < len(info.Labels) && info.Labels[i] != "" {
				sb.WriteString(info.Labels[i])
				sb.WriteString(": ")
			}
			in.printInto(sb, elem)
		}
		sb.WriteString(")")
	case KindFn:
		info, _ := in.FnInfo(id)
		if info.Convention != ConventionNative {
			fmt.Fprintf(sb, "@convention(%s) ", info.Convention)
		}
		in.printFnInput(sb, info.Input)
		if info.Throws {
			sb.WriteString(" throws")
		}
		sb.WriteString(" -> ")
		in.printInto(sb, info.Result)
	case KindProtocol:
		info, _ := in.ProtocolInfo(id)
		sb.WriteString(info.Module)
		sb.WriteString(".")
		sb.WriteString(info.Name)
	case KindComposition:
		info, _ := in.CompositionInfo(id)
		if len(info.Members) == 0 {
			sb.WriteString("Any")
			return
		}
		for i, m := range info.Members {
			if i > 0 {
				sb.WriteString(" & ")
			}
			in.printInto(sb, m)
		}
	case KindMetatype:
		in.printInto(sb, tt.Elem)
		sb.WriteString(".Type")
	case KindExistentialMetatype:
		in.printInto(sb, tt.Elem)
		sb.WriteString(".ExistentialType")
	case KindGenericParam:
		depth, index := GenericParamAt(tt)
		fmt.Fprintf(sb, "τ_%d_%d", depth, index)
	case KindDependentMember:
		info, _ := in.DependentMemberInfo(id)
		in.printInto(sb, info.Base)
		sb.WriteString(".")
		sb.WriteString(info.Name)
	case KindUnownedStorage:
		sb.WriteString("unowned ")
		in.printInto(sb, tt.Elem)
	case KindUnmanagedStorage:
		sb.WriteString("unowned(unsafe) ")
		in.printInto(sb, tt.Elem)
	case KindWeakStorage:
		sb.WriteString("weak ")
		in.printInto(sb, tt.Elem)
	case KindInOut:
		sb.WriteString("inout ")
		in.printInto(sb, tt.Elem)
	default:
		sb.WriteString("<invalid>")
	}
}

// printQualified renders Parent.Name, falling back to the bare name
// for top-level declarations.
func (in *Interner) printQualified(sb *strings.Builder, parent TypeID, name string) {
	if parent != NoTypeID {
		in.printInto(sb, parent)
		sb.WriteString(".")
	}
	sb.WriteString(name)
}

// printFnInput keeps single non-tuple parameters parenthesized so the
// arrow reads unambiguously.
func (in *Interner) printFnInput(sb *strings.Builder, input TypeID) {
	tt, ok := in.Lookup(input)
	if ok && tt.Kind == KindTuple {
		in.printInto(sb, input)
		return
	}
	sb.WriteString("(")
	in.printInto(sb, input)
	sb.WriteString(")")
}
