package dir

import (
	"testing"

	"remotetype/internal/builder"
	"remotetype/internal/decl"
	"remotetype/internal/types"
)

func newTestTable() (*Table, *types.Interner) {
	in := types.NewInterner()
	return NewTable(in), in
}

func TestLookupModule(t *testing.T) {
	table, _ := newTestTable()
	table.AddModule("Main")
	ctx, ok := table.LookupModule("Main")
	if !ok || !ctx.IsModule() || ctx.Module != "Main" {
		t.Fatalf("got %+v (%v)", ctx, ok)
	}
	if _, ok := table.LookupModule("Other"); ok {
		t.Fatalf("unregistered module must not resolve")
	}
}

func TestLookupMemberDiscriminator(t *testing.T) {
	table, _ := newTestTable()
	plain := table.AddDecl(decl.Decl{Name: "Widget", Kind: decl.KindStruct, Module: "Main"})
	hidden := table.AddDecl(decl.Decl{Name: "Widget", Kind: decl.KindStruct, Module: "Main", Discriminator: "_F00D"})

	ctx, _ := table.LookupModule("Main")
	got := table.LookupMember(ctx, "Widget", "")
	if len(got) != 1 || got[0] != plain {
		t.Fatalf("empty discriminator must only match ordinary decls, got %v", got)
	}
	got = table.LookupMember(ctx, "Widget", "_F00D")
	if len(got) != 1 || got[0] != hidden {
		t.Fatalf("discriminator must narrow to the file-private decl, got %v", got)
	}
}

func TestNameNormalization(t *testing.T) {
	table, _ := newTestTable()
	// Same name, composed vs decomposed form.
	id := table.AddDecl(decl.Decl{Name: "Café", Kind: decl.KindClass, Module: "Main"})
	ctx, _ := table.LookupModule("Main")
	got := table.LookupMember(ctx, "Café", "")
	if len(got) != 1 || got[0] != id {
		t.Fatalf("lookups must be NFC-insensitive, got %v", got)
	}
}

func TestNestedMemberLookup(t *testing.T) {
	table, _ := newTestTable()
	outer := table.AddDecl(decl.Decl{Name: "Outer", Kind: decl.KindClass, Module: "Main"})
	inner := table.AddDecl(decl.Decl{Name: "Inner", Kind: decl.KindStruct, Module: "Main", Parent: outer})

	got := table.LookupMember(decl.Context{Module: "Main", Decl: outer}, "Inner", "")
	if len(got) != 1 || got[0] != inner {
		t.Fatalf("got %v", got)
	}
	ctx, _ := table.LookupModule("Main")
	if got := table.LookupMember(ctx, "Inner", ""); len(got) != 0 {
		t.Fatalf("nested decls must not appear at module scope, got %v", got)
	}
}

func TestLookupLocalAndForeign(t *testing.T) {
	table, _ := newTestTable()
	id := table.AddDecl(decl.Decl{Name: "Hidden", Kind: decl.KindEnum, Module: "Main"})
	table.AddLocalType("Main.Hidden#2", id)
	if got, ok := table.LookupLocalType("Main.Hidden#2"); !ok || got != id {
		t.Fatalf("got %v (%v)", got, ok)
	}

	fid := table.AddForeign(decl.Decl{Name: "Window", Kind: decl.KindClass, Module: "ignored"})
	d, _ := table.Decl(fid)
	if d.Module != builder.ForeignModuleName || d.Parent != decl.NoID {
		t.Fatalf("foreign decls must be rehomed, got %+v", d)
	}
	if got := table.LookupForeign("Window"); len(got) != 1 || got[0] != fid {
		t.Fatalf("got %v", got)
	}
}

func TestResolveQualifiedType(t *testing.T) {
	table, in := newTestTable()
	outer := table.AddDecl(decl.Decl{Name: "Outer", Kind: decl.KindClass, Module: "Main"})
	table.AddDecl(decl.Decl{Name: "Box", Kind: decl.KindStruct, Module: "Main", Parent: outer, Generic: true, Arity: 1})
	elem := table.AddDecl(decl.Decl{Name: "Int", Kind: decl.KindStruct, Module: "Core"})

	elemType := in.RegisterNominal(types.NominalInfo{Decl: elem, DeclKind: decl.KindStruct, Name: "Int"})

	id, ok := table.ResolveQualifiedType([]builder.PathSegment{
		{Name: "Outer"},
		{Name: "Box", Args: []types.TypeID{elemType}},
	})
	if !ok {
		t.Fatalf("qualified path must resolve")
	}
	info, ok := in.BoundGenericInfo(id)
	if !ok || info.Name != "Box" || info.Parent == types.NoTypeID {
		t.Fatalf("got %+v (%v)", info, ok)
	}
	if got := in.Print(id); got != "Outer.Box<Int>" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveQualifiedTypeArityChecks(t *testing.T) {
	table, in := newTestTable()
	table.AddDecl(decl.Decl{Name: "Box", Kind: decl.KindStruct, Module: "Main", Generic: true, Arity: 2})
	table.AddDecl(decl.Decl{Name: "Plain", Kind: decl.KindStruct, Module: "Main"})
	elem := in.Builtins().Opaque

	if _, ok := table.ResolveQualifiedType([]builder.PathSegment{{Name: "Box", Args: []types.TypeID{elem}}}); ok {
		t.Fatalf("arity mismatch must fail")
	}
	if _, ok := table.ResolveQualifiedType([]builder.PathSegment{{Name: "Box"}}); ok {
		t.Fatalf("generic decl without arguments must fail")
	}
	if _, ok := table.ResolveQualifiedType([]builder.PathSegment{{Name: "Plain", Args: []types.TypeID{elem}}}); ok {
		t.Fatalf("arguments on a non-generic decl must fail")
	}
}

func TestResolveQualifiedTypeZeroArityGeneric(t *testing.T) {
	table, in := newTestTable()
	table.AddDecl(decl.Decl{Name: "Empty", Kind: decl.KindStruct, Module: "Main", Generic: true, Arity: 0})

	id, ok := table.ResolveQualifiedType([]builder.PathSegment{{Name: "Empty"}})
	if !ok {
		t.Fatalf("zero-arity generic with no arguments must resolve")
	}
	info, ok := in.BoundGenericInfo(id)
	if !ok || len(info.Args) != 0 {
		t.Fatalf("got %+v (%v)", info, ok)
	}
}

func TestResolveQualifiedTypeAmbiguity(t *testing.T) {
	table, _ := newTestTable()
	table.AddDecl(decl.Decl{Name: "Dup", Kind: decl.KindStruct, Module: "A"})
	table.AddDecl(decl.Decl{Name: "Dup", Kind: decl.KindStruct, Module: "B"})
	if _, ok := table.ResolveQualifiedType([]builder.PathSegment{{Name: "Dup"}}); ok {
		t.Fatalf("ambiguous top-level name must fail")
	}
}
