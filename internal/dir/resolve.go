package dir

import (
	"remotetype/internal/builder"
	"remotetype/internal/decl"
	"remotetype/internal/types"
)

// ResolveQualifiedType implements builder.TypeResolver. The first
// segment resolves by unqualified top-level lookup (ambiguity fails);
// each following segment descends into members of the previous one.
// Generic segments must carry exactly the declared arity (possibly
// zero), non-generic segments must carry none.
//
// Constraint satisfiability beyond arity is the concern of a full
// semantic checker; this table is the reference oracle for snapshots
// and tests.
func (t *Table) ResolveQualifiedType(path []builder.PathSegment) (types.TypeID, bool) {
	if len(path) == 0 {
		return types.NoTypeID, false
	}

	current := decl.NoID
	result := types.NoTypeID
	for i, seg := range path {
		var id decl.ID
		if i == 0 {
			id = t.uniqueTopLevel(seg.Name)
		} else {
			id = t.uniqueMember(current, seg.Name)
		}
		if id == decl.NoID {
			return types.NoTypeID, false
		}
		d := t.decls[id]
		if d.Generic {
			// Zero-arity generics are representable, so gate on the
			// declared arity alone.
			if len(seg.Args) != d.Arity {
				return types.NoTypeID, false
			}
			result = t.in.RegisterBoundGeneric(types.BoundGenericInfo{
				Decl:     id,
				DeclKind: d.Kind,
				Name:     d.Name,
				Args:     seg.Args,
				Parent:   result,
			})
		} else {
			if len(seg.Args) != 0 {
				return types.NoTypeID, false
			}
			result = t.in.RegisterNominal(types.NominalInfo{
				Decl:     id,
				DeclKind: d.Kind,
				Name:     d.Name,
				Parent:   result,
			})
		}
		current = id
	}
	return result, true
}

func (t *Table) uniqueTopLevel(name string) decl.ID {
	return uniqueOf(t.topLevel[normName(name)])
}

func (t *Table) uniqueMember(parent decl.ID, name string) decl.ID {
	return uniqueOf(t.members[memberKey{Parent: parent, Name: normName(name)}])
}

func uniqueOf(ids []decl.ID) decl.ID {
	if len(ids) != 1 {
		return decl.NoID
	}
	return ids[0]
}
