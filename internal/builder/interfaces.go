package builder

import (
	"remotetype/internal/decl"
	"remotetype/internal/types"
)

// ForeignModuleName is the pseudo-module that foreign (bridged)
// declarations mangle their context as. It has no entry in the
// directory; resolution falls through to the importer bridge.
const ForeignModuleName = "__imported"

// Directory is the external declaration/module table. Implementations
// must serve Decl for every ID they hand out, including IDs produced
// by an associated ImporterBridge.
type Directory interface {
	// LookupModule resolves a module by name.
	LookupModule(name string) (decl.Context, bool)

	// LookupMember returns every declaration named name directly
	// inside ctx. discriminator narrows to file-private declarations
	// when non-empty. Kind filtering is the caller's business.
	LookupMember(ctx decl.Context, name, discriminator string) []decl.ID

	// LookupLocalType resolves a local (function-scoped) type by its
	// full re-encoded symbol.
	LookupLocalType(mangled string) (decl.ID, bool)

	// Decl returns the record behind an ID.
	Decl(id decl.ID) (decl.Decl, bool)
}

// ImporterBridge exposes foreign-bridged declarations by simple name.
type ImporterBridge interface {
	// LookupForeign returns every visible foreign declaration with the
	// given simple name, unfiltered by kind.
	LookupForeign(name string) []decl.ID
}

// PathSegment is one component of a qualified-type request submitted
// to the resolution oracle: a name plus the generic arguments applied
// at that nesting level (nil for non-generic segments).
type PathSegment struct {
	Name string
	Args []types.TypeID
}

// TypeResolver is the external oracle that validates and finalizes
// generic instantiations. It performs full constraint checking; the
// builder only assembles a well-shaped request.
type TypeResolver interface {
	ResolveQualifiedType(path []PathSegment) (types.TypeID, bool)
}
