package builder

import (
	"remotetype/internal/decl"
	"remotetype/internal/demangle"
)

// Resolver walks decoded symbol trees down to concrete declarations
// via the directory and, for bridged types, the importer bridge.
type Resolver struct {
	dir    Directory
	bridge ImporterBridge
}

// NewResolver builds a resolver over the given collaborators. bridge
// may be nil when no foreign importer is attached.
func NewResolver(dir Directory, bridge ImporterBridge) *Resolver {
	return &Resolver{dir: dir, bridge: bridge}
}

// FindDeclContext resolves a symbol node to a declaration context: a
// module, or a nominal declaration inside one. Unsupported context
// productions (extensions, non-type local contexts) resolve to
// nothing.
func (r *Resolver) FindDeclContext(node *demangle.Node) (decl.Context, bool) {
	if node == nil {
		return decl.Context{}, false
	}
	switch node.Kind {
	case demangle.KindDeclContext, demangle.KindType:
		return r.FindDeclContext(node.FirstChild())

	case demangle.KindModule:
		return r.dir.LookupModule(node.Text)

	case demangle.KindClass, demangle.KindStruct, demangle.KindEnum, demangle.KindProtocol:
		kind := nominalKind(node.Kind)
		nameNode := node.Child(1)
		if nameNode == nil {
			return decl.Context{}, false
		}

		// Local declarations resolve by their full re-encoded symbol
		// against the defining module.
		if nameNode.Kind == demangle.KindLocalDeclName {
			moduleNode := findModuleNode(node)
			if moduleNode == nil {
				return decl.Context{}, false
			}
			if _, ok := r.dir.LookupModule(moduleNode.Text); !ok {
				return decl.Context{}, false
			}
			id, ok := r.dir.LookupLocalType(demangle.Mangle(node))
			if !ok {
				return decl.Context{}, false
			}
			return r.contextFor(id)
		}

		var name, discriminator string
		switch nameNode.Kind {
		case demangle.KindIdentifier:
			name = nameNode.Text
		case demangle.KindPrivateDeclName:
			nn, dn := nameNode.Child(1), nameNode.Child(0)
			if nn == nil || dn == nil || nn.Text == "" || dn.Text == "" {
				return decl.Context{}, false
			}
			name = nn.Text
			discriminator = dn.Text
		default:
			return decl.Context{}, false
		}

		ctx, ok := r.FindDeclContext(node.FirstChild())
		if !ok {
			// Foreign declarations have no real enclosing context;
			// this fallback is the only path that resolves them.
			if discriminator == "" && isForeignModule(node.FirstChild()) {
				id, ok := r.FindForeignNominalTypeDecl(name, kind)
				if !ok {
					return decl.Context{}, false
				}
				return decl.Context{Module: ForeignModuleName, Decl: id}, true
			}
			return decl.Context{}, false
		}

		id, ok := r.FindNominalTypeDecl(ctx, name, discriminator, kind)
		if !ok {
			return decl.Context{}, false
		}
		return r.contextFor(id)

	default:
		return decl.Context{}, false
	}
}

// FindNominalTypeDecl looks a nominal declaration up inside a context.
// Candidates of the wrong kind, or defined outside the context's
// module, are dropped; more than one survivor is ambiguous and
// resolves to nothing.
func (r *Resolver) FindNominalTypeDecl(ctx decl.Context, name, discriminator string, kind decl.Kind) (decl.ID, bool) {
	result := decl.NoID
	for _, id := range r.dir.LookupMember(ctx, name, discriminator) {
		d, ok := r.dir.Decl(id)
		if !ok || d.Kind != kind {
			continue
		}
		if d.Module != ctx.Module {
			continue
		}
		if result != decl.NoID {
			return decl.NoID, false
		}
		result = id
	}
	return result, result != decl.NoID
}

// FindForeignNominalTypeDecl resolves a bridged declaration by simple
// name. Two or more distinct candidates of the requested kind fail the
// whole lookup.
func (r *Resolver) FindForeignNominalTypeDecl(name string, kind decl.Kind) (decl.ID, bool) {
	if r.bridge == nil {
		return decl.NoID, false
	}
	result := decl.NoID
	for _, id := range r.bridge.LookupForeign(name) {
		d, ok := r.dir.Decl(id)
		if !ok || d.Kind != kind {
			continue
		}
		if id == result {
			continue
		}
		if result != decl.NoID {
			return decl.NoID, false
		}
		result = id
	}
	return result, result != decl.NoID
}

func (r *Resolver) contextFor(id decl.ID) (decl.Context, bool) {
	d, ok := r.dir.Decl(id)
	if !ok {
		return decl.Context{}, false
	}
	return decl.Context{Module: d.Module, Decl: id}, true
}

// findModuleNode walks the enclosing-context chain down to the module
// node, or nil when the chain is malformed.
func findModuleNode(node *demangle.Node) *demangle.Node {
	if node == nil {
		return nil
	}
	if node.Kind == demangle.KindModule {
		return node
	}
	if !node.HasChildren() {
		return nil
	}
	return findModuleNode(node.FirstChild())
}

func isForeignModule(node *demangle.Node) bool {
	if node == nil {
		return false
	}
	if node.Kind == demangle.KindDeclContext {
		return isForeignModule(node.FirstChild())
	}
	return node.Kind == demangle.KindModule && node.Text == ForeignModuleName
}

func nominalKind(k demangle.NodeKind) decl.Kind {
	switch k {
	case demangle.KindClass:
		return decl.KindClass
	case demangle.KindStruct:
		return decl.KindStruct
	case demangle.KindEnum:
		return decl.KindEnum
	case demangle.KindProtocol:
		return decl.KindProtocol
	default:
		return decl.KindInvalid
	}
}
