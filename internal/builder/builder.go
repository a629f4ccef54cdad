package builder

import (
	"strings"

	"remotetype/internal/decl"
	"remotetype/internal/demangle"
	"remotetype/internal/types"
)

// Builder assembles canonical types from decoded symbol trees or
// decoded metadata records, enforcing the structural invariants of the
// type system. A builder is not safe for concurrent use: the sticky
// failure slot is mutable state scoped to one logical call chain.
type Builder struct {
	in       *types.Interner
	resolver *Resolver
	oracle   TypeResolver
	decoder  demangle.Decoder

	// Sticky failure slot: the first diagnosable failure of a call
	// chain wins; structural rejections leave it untouched.
	failure *Failure
}

// New constructs a builder. oracle may be nil when bound-generic
// construction is not needed; decoder may be nil when encoded-name
// entry points are not used.
func New(in *types.Interner, resolver *Resolver, oracle TypeResolver, decoder demangle.Decoder) *Builder {
	return &Builder{in: in, resolver: resolver, oracle: oracle, decoder: decoder}
}

// Interner exposes the interner the builder allocates types in.
func (b *Builder) Interner() *types.Interner {
	return b.in
}

// Resolver exposes the declaration resolver.
func (b *Builder) Resolver() *Resolver {
	return b.resolver
}

// Reset clears the sticky failure slot. Top-level entry points call it
// before starting a new chain.
func (b *Builder) Reset() {
	b.failure = nil
}

// fail records a diagnosable failure. Only the first one of a chain
// sticks.
func (b *Builder) fail(kind FailureKind, args ...string) {
	if b.failure == nil {
		b.failure = &Failure{Kind: kind, Args: args}
	}
}

// TakeFailure converts the pending failure into a concrete one,
// clearing the slot. When nothing was recorded the caller's default
// applies.
func (b *Builder) TakeFailure(def FailureKind, args ...string) Failure {
	if b.failure != nil {
		f := *b.failure
		b.failure = nil
		return f
	}
	return Failure{Kind: def, Args: args}
}

// CreateNominalTypeDeclFromName decodes an encoded symbol and resolves
// it to a nominal declaration.
func (b *Builder) CreateNominalTypeDeclFromName(encoded string) (decl.ID, bool) {
	if b.decoder == nil {
		return decl.NoID, false
	}
	node, ok := b.decoder.Decode(encoded)
	if !ok {
		return decl.NoID, false
	}
	return b.CreateNominalTypeDecl(node)
}

// CreateNominalTypeDecl resolves a symbol node to a nominal
// declaration. An unresolvable context records a diagnosable failure;
// a context that resolves to a bare module is a silent rejection.
func (b *Builder) CreateNominalTypeDecl(node *demangle.Node) (decl.ID, bool) {
	ctx, ok := b.resolver.FindDeclContext(node)
	if !ok {
		b.fail(FailureCouldNotResolveTypeDecl, demangle.Mangle(node))
		return decl.NoID, false
	}
	if ctx.IsModule() {
		return decl.NoID, false
	}
	return ctx.Decl, true
}

// CreateNominalType wraps a non-generic declaration as a nominal type.
// Parent presence must match whether the declaration's enclosing
// context is nominal.
func (b *Builder) CreateNominalType(id decl.ID, parent types.TypeID) types.TypeID {
	d, ok := b.declFor(id)
	if !ok || d.Generic {
		return types.NoTypeID
	}
	if !b.validateNominalParent(d, parent) {
		return types.NoTypeID
	}
	return b.in.RegisterNominal(types.NominalInfo{
		Decl:     id,
		DeclKind: d.Kind,
		Name:     d.Name,
		Parent:   parent,
	})
}

// CreateBoundGenericType applies generic arguments to a generic
// declaration. The builder synthesizes a qualified path (one segment
// per enclosing nominal ancestor, outermost first) and submits it to
// the oracle, which owns constraint validation. The oracle's answer is
// only accepted when it lands on the requested declaration; anything
// else means an unintended same-name overload won the lookup.
func (b *Builder) CreateBoundGenericType(id decl.ID, args []types.TypeID, parent types.TypeID) types.TypeID {
	d, ok := b.declFor(id)
	if !ok || !d.Generic {
		return types.NoTypeID
	}
	if !b.validateNominalParent(d, parent) {
		return types.NoTypeID
	}
	if b.oracle == nil {
		return types.NoTypeID
	}

	path, ok := b.ancestryPath(parent)
	if !ok {
		return types.NoTypeID
	}
	path = append(path, PathSegment{Name: d.Name, Args: args})

	resolved, ok := b.oracle.ResolveQualifiedType(path)
	if !ok {
		return types.NoTypeID
	}
	if b.in.NominalDecl(resolved) != id {
		return types.NoTypeID
	}
	return resolved
}

// CreateTupleType builds a tuple. labels is whitespace-delimited and
// consumed left-to-right, one token per element; trailing elements
// stay unlabeled when tokens run out. More tokens than elements is a
// contract violation. Variadic tuples are unsupported and always
// rejected.
func (b *Builder) CreateTupleType(elems []types.TypeID, labels string, variadic bool) types.TypeID {
	if variadic {
		return types.NoTypeID
	}
	tokens := strings.Fields(labels)
	if len(tokens) > len(elems) {
		panic("builder: more tuple labels than elements")
	}
	parsed := make([]string, len(elems))
	copy(parsed, tokens)
	return b.in.RegisterTuple(types.TupleInfo{Elems: elems, Labels: parsed})
}

// MetaConvention is the four-way calling-convention tag carried by
// function metadata records.
type MetaConvention uint8

const (
	MetaConventionNative MetaConvention = iota
	MetaConventionBlock
	MetaConventionThin
	MetaConventionCPointer
)

// FnFlags carries the decoded attributes of a function metadata record.
type FnFlags struct {
	Convention MetaConvention
	Throws     bool
}

// CreateFunctionType builds a function type. args and inout must have
// equal length (contract precondition). The result and every non-inout
// argument must be materializable. A single argument becomes the bare
// input type; several become a tuple, with inout arguments wrapped
// per index.
func (b *Builder) CreateFunctionType(args []types.TypeID, inout []bool, result types.TypeID, flags FnFlags) types.TypeID {
	if len(args) != len(inout) {
		panic("builder: argument/inout length mismatch")
	}

	var convention types.Convention
	switch flags.Convention {
	case MetaConventionNative:
		convention = types.ConventionNative
	case MetaConventionBlock:
		convention = types.ConventionBlock
	case MetaConventionThin:
		convention = types.ConventionThin
	case MetaConventionCPointer:
		convention = types.ConventionCPointer
	default:
		return types.NoTypeID
	}

	if !b.in.IsMaterializable(result) {
		return types.NoTypeID
	}
	for i, arg := range args {
		if !inout[i] && !b.in.IsMaterializable(arg) {
			return types.NoTypeID
		}
	}

	wrapped := make([]types.TypeID, len(args))
	for i, arg := range args {
		if inout[i] {
			arg = b.in.Intern(types.MakeInOut(arg))
		}
		wrapped[i] = arg
	}

	var input types.TypeID
	if len(wrapped) == 1 {
		input = wrapped[0]
	} else {
		input = b.in.RegisterTuple(types.TupleInfo{
			Elems:  wrapped,
			Labels: make([]string, len(wrapped)),
		})
	}

	return b.in.RegisterFn(types.FnInfo{
		Input:      input,
		Result:     result,
		Convention: convention,
		Throws:     flags.Throws,
	})
}

// CreateProtocolType resolves a protocol by simple name inside a named
// module.
func (b *Builder) CreateProtocolType(moduleName, protocolName string) types.TypeID {
	ctx, ok := b.resolver.dir.LookupModule(moduleName)
	if !ok {
		return types.NoTypeID
	}
	id, ok := b.resolver.FindNominalTypeDecl(ctx, protocolName, "", decl.KindProtocol)
	if !ok {
		return types.NoTypeID
	}
	d, _ := b.declFor(id)
	return b.in.RegisterProtocol(types.ProtocolInfo{Decl: id, Name: d.Name, Module: d.Module})
}

// CreateProtocolCompositionType combines resolved protocol references.
// Any non-protocol member rejects the whole composition.
func (b *Builder) CreateProtocolCompositionType(members []types.TypeID) types.TypeID {
	for _, m := range members {
		tt, ok := b.in.Lookup(m)
		if !ok || tt.Kind != types.KindProtocol {
			return types.NoTypeID
		}
	}
	return b.in.RegisterComposition(members)
}

// CreateExistentialMetatypeType wraps an existential instance type.
func (b *Builder) CreateExistentialMetatypeType(instance types.TypeID) types.TypeID {
	if !b.in.IsAnyExistential(instance) {
		return types.NoTypeID
	}
	return b.in.Intern(types.MakeExistentialMetatype(instance))
}

// CreateMetatypeType wraps any instance type.
func (b *Builder) CreateMetatypeType(instance types.TypeID) types.TypeID {
	if instance == types.NoTypeID {
		return types.NoTypeID
	}
	return b.in.Intern(types.MakeMetatype(instance))
}

// CreateGenericTypeParameterType builds the parameter at (depth, index).
func (b *Builder) CreateGenericTypeParameterType(depth, index uint16) types.TypeID {
	return b.in.Intern(types.MakeGenericParam(depth, index))
}

// CreateDependentMemberType builds base.member. The base must be a
// type parameter.
func (b *Builder) CreateDependentMemberType(member string, base, protocol types.TypeID) types.TypeID {
	if !b.in.IsTypeParameter(base) {
		return types.NoTypeID
	}
	return b.in.RegisterDependentMember(types.DependentMemberInfo{
		Base:     base,
		Name:     member,
		Protocol: protocol,
	})
}

// CreateUnownedStorageType wraps a reference-representable base.
func (b *Builder) CreateUnownedStorageType(base types.TypeID) types.TypeID {
	return b.createStorageType(types.KindUnownedStorage, base)
}

// CreateUnmanagedStorageType wraps a reference-representable base.
func (b *Builder) CreateUnmanagedStorageType(base types.TypeID) types.TypeID {
	return b.createStorageType(types.KindUnmanagedStorage, base)
}

// CreateWeakStorageType wraps a reference-representable base.
func (b *Builder) CreateWeakStorageType(base types.TypeID) types.TypeID {
	return b.createStorageType(types.KindWeakStorage, base)
}

func (b *Builder) createStorageType(kind types.Kind, base types.TypeID) types.TypeID {
	if !b.in.AllowsOwnership(base) {
		return types.NoTypeID
	}
	return b.in.Intern(types.MakeStorage(kind, base))
}

// CreateBridgedClassType resolves a foreign class by simple name
// through the importer bridge and wraps it as a parentless nominal
// type.
func (b *Builder) CreateBridgedClassType(name string) types.TypeID {
	id, ok := b.resolver.FindForeignNominalTypeDecl(name, decl.KindClass)
	if !ok {
		return types.NoTypeID
	}
	return b.CreateNominalType(id, types.NoTypeID)
}

// CreateForeignClassType resolves a foreign class from its symbol tree
// and wraps it as a parentless nominal type.
func (b *Builder) CreateForeignClassType(node *demangle.Node) types.TypeID {
	id, ok := b.CreateNominalTypeDecl(node)
	if !ok {
		return types.NoTypeID
	}
	return b.CreateNominalType(id, types.NoTypeID)
}

// UnnamedForeignClassType is the deliberate "unsupported, not
// erroneous" answer for foreign classes without a stable name.
func (b *Builder) UnnamedForeignClassType() types.TypeID {
	return b.in.Builtins().Opaque
}

// OpaqueType is the placeholder for unrepresentable types.
func (b *Builder) OpaqueType() types.TypeID {
	return b.in.Builtins().Opaque
}

// CreateBuiltinType is unimplemented; builtin metadata decodes to
// nothing.
func (b *Builder) CreateBuiltinType(encoded string) types.TypeID {
	return types.NoTypeID
}

// validateNominalParent checks that parent presence matches whether
// the declaration's enclosing context is nominal.
func (b *Builder) validateNominalParent(d decl.Decl, parent types.TypeID) bool {
	if parent == types.NoTypeID {
		return d.Parent == decl.NoID
	}
	return d.Parent != decl.NoID
}

// ancestryPath flattens a parent type into qualified-path segments,
// outermost first. Only nominal and bound-generic ancestors are
// representable.
func (b *Builder) ancestryPath(parent types.TypeID) ([]PathSegment, bool) {
	if parent == types.NoTypeID {
		return nil, true
	}
	var chain []types.TypeID
	for p := parent; p != types.NoTypeID; p = b.in.NominalParent(p) {
		chain = append(chain, p)
	}
	path := make([]PathSegment, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		p := chain[i]
		if info, ok := b.in.BoundGenericInfo(p); ok {
			path = append(path, PathSegment{Name: info.Name, Args: info.Args})
			continue
		}
		info, ok := b.in.NominalInfo(p)
		if !ok {
			return nil, false
		}
		path = append(path, PathSegment{Name: info.Name})
	}
	return path, true
}

func (b *Builder) declFor(id decl.ID) (decl.Decl, bool) {
	return b.resolver.dir.Decl(id)
}
