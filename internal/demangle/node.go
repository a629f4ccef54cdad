package demangle

// NodeKind tags a node in a decoded symbol tree.
type NodeKind uint8

const (
	KindInvalid NodeKind = iota
	KindType
	KindDeclContext
	KindModule
	KindClass
	KindStruct
	KindEnum
	KindProtocol
	KindIdentifier
	KindPrivateDeclName
	KindLocalDeclName
	KindExtension
	KindFunction
)

func (k NodeKind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindDeclContext:
		return "decl-context"
	case KindModule:
		return "module"
	case KindClass:
		return "class"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindProtocol:
		return "protocol"
	case KindIdentifier:
		return "identifier"
	case KindPrivateDeclName:
		return "private-decl-name"
	case KindLocalDeclName:
		return "local-decl-name"
	case KindExtension:
		return "extension"
	case KindFunction:
		return "function"
	default:
		return "invalid"
	}
}

// IsNominal reports whether the kind introduces a nominal declaration.
func (k NodeKind) IsNominal() bool {
	switch k {
	case KindClass, KindStruct, KindEnum, KindProtocol:
		return true
	default:
		return false
	}
}

// Node is one vertex of a decoded symbol tree. Trees are produced by
// an external Decoder and treated as read-only here.
//
// Shape conventions (fixed by the encoding grammar):
//   - a nominal node has child 0 = enclosing context, child 1 = name;
//   - a PrivateDeclName has child 0 = discriminator identifier,
//     child 1 = name identifier;
//   - Type and DeclContext wrap a single child.
type Node struct {
	Kind     NodeKind
	Text     string // identifiers, module names, local numbering
	Children []*Node
}

// HasChildren reports whether the node has at least one child.
func (n *Node) HasChildren() bool {
	return n != nil && len(n.Children) > 0
}

// FirstChild returns child 0, or nil.
func (n *Node) FirstChild() *Node {
	return n.Child(0)
}

// Child returns the i-th child, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// NewNode builds a node with the given children attached in order.
func NewNode(kind NodeKind, text string, children ...*Node) *Node {
	return &Node{Kind: kind, Text: text, Children: children}
}

// Decoder turns an encoded symbol name into a node tree. The grammar
// lives outside this module; tests and tools inject their own.
type Decoder interface {
	Decode(encoded string) (*Node, bool)
}
