package types

import "remotetype/internal/decl"

// IsMaterializable reports whether the type can be the type of a
// stored value. inout-qualified types are the only structural types
// ruled out.
func (in *Interner) IsMaterializable(id TypeID) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	return tt.Kind != KindInOut
}

// AllowsOwnership reports whether the type is reference-representable
// and may therefore sit under an unowned/unmanaged/weak qualifier:
// class references, existentials, and unresolved type parameters
// (which may instantiate to either).
func (in *Interner) AllowsOwnership(id TypeID) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindNominal:
		info, _ := in.NominalInfo(id)
		return info != nil && info.DeclKind == decl.KindClass
	case KindBoundGeneric:
		info, _ := in.BoundGenericInfo(id)
		return info != nil && info.DeclKind == decl.KindClass
	case KindProtocol, KindComposition:
		return true
	case KindGenericParam, KindDependentMember:
		return true
	default:
		return false
	}
}

// IsAnyExistential reports whether the type is an existential: a
// protocol reference or a composition (the empty composition is the
// top type).
func (in *Interner) IsAnyExistential(id TypeID) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	return tt.Kind == KindProtocol || tt.Kind == KindComposition
}

// IsTypeParameter reports whether the type is rooted in a generic
// parameter.
func (in *Interner) IsTypeParameter(id TypeID) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindGenericParam:
		return true
	case KindDependentMember:
		info, _ := in.DependentMemberInfo(id)
		return info != nil && in.IsTypeParameter(info.Base)
	default:
		return false
	}
}
