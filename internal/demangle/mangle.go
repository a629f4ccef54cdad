package demangle

import "strings"

// Mangle renders a node tree back into its canonical encoded form.
// The rendering is stable, so it serves as the lookup key for local
// types and as the payload of resolution failures.
//
// Context chains come out dot-separated, rooted at the module:
//
//	Main.Outer.Inner
//	Main.(Secret in _F00D)      private name with discriminator
//	Main.Local#4                local declaration numbering
func Mangle(n *Node) string {
	var sb strings.Builder
	mangleInto(&sb, n)
	return sb.String()
}

func mangleInto(sb *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindType, KindDeclContext:
		mangleInto(sb, n.FirstChild())
	case KindModule, KindIdentifier:
		sb.WriteString(n.Text)
	case KindPrivateDeclName:
		sb.WriteString("(")
		mangleInto(sb, n.Child(1))
		sb.WriteString(" in ")
		mangleInto(sb, n.Child(0))
		sb.WriteString(")")
	case KindLocalDeclName:
		mangleInto(sb, n.Child(1))
		sb.WriteString("#")
		mangleInto(sb, n.Child(0))
	case KindClass, KindStruct, KindEnum, KindProtocol, KindExtension, KindFunction:
		mangleInto(sb, n.Child(0))
		if sb.Len() > 0 {
			sb.WriteString(".")
		}
		mangleInto(sb, n.Child(1))
	default:
	}
}
