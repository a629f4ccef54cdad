package decl

// ID references a declaration inside a Directory.
type ID uint32

// NoID marks the absence of a declaration.
const NoID ID = 0

// Kind classifies a nominal declaration.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindClass
	KindStruct
	KindEnum
	KindProtocol
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindProtocol:
		return "protocol"
	default:
		return "invalid"
	}
}

// Decl describes one nominal declaration known to the directory.
// Values are immutable once registered.
type Decl struct {
	Name   string
	Kind   Kind
	Module string // defining module
	Parent ID     // enclosing nominal context, NoID when module-level

	// Generic arity. Generic is redundant with Arity > 0 but kept
	// explicit so a zero-arity generic stays representable.
	Generic bool
	Arity   int

	// File-private discriminator, empty for ordinary declarations.
	Discriminator string
}

// Context identifies a declaration context: a module, optionally
// narrowed to a nominal declaration inside it.
type Context struct {
	Module string
	Decl   ID // NoID when the context is the module itself
}

// IsModule reports whether the context is a bare module.
func (c Context) IsModule() bool {
	return c.Decl == NoID
}
