package builder

import (
	"testing"

	"remotetype/internal/decl"
	"remotetype/internal/demangle"
)

func nominalNode(kind demangle.NodeKind, ctx *demangle.Node, name string) *demangle.Node {
	return demangle.NewNode(kind, "",
		ctx,
		demangle.NewNode(demangle.KindIdentifier, name),
	)
}

func TestFindDeclContextModule(t *testing.T) {
	d := newFakeDir()
	d.modules["Main"] = true
	r := NewResolver(d, nil)
	ctx, ok := r.FindDeclContext(demangle.NewNode(demangle.KindModule, "Main"))
	if !ok || !ctx.IsModule() || ctx.Module != "Main" {
		t.Fatalf("module node must resolve to a module context, got %+v", ctx)
	}
	if _, ok := r.FindDeclContext(demangle.NewNode(demangle.KindModule, "Elsewhere")); ok {
		t.Fatalf("unknown module must not resolve")
	}
}

func TestFindDeclContextNominalChain(t *testing.T) {
	d := newFakeDir()
	outer := d.add(1, decl.Decl{Name: "Outer", Kind: decl.KindStruct, Module: "Main"})
	inner := d.add(2, decl.Decl{Name: "Inner", Kind: decl.KindClass, Module: "Main", Parent: outer})
	r := NewResolver(d, nil)

	module := demangle.NewNode(demangle.KindModule, "Main")
	node := nominalNode(demangle.KindClass,
		nominalNode(demangle.KindStruct, module, "Outer"),
		"Inner")
	ctx, ok := r.FindDeclContext(demangle.NewNode(demangle.KindType, "", node))
	if !ok || ctx.Decl != inner {
		t.Fatalf("nested nominal chain must resolve through its context, got %+v", ctx)
	}
}

func TestFindDeclContextPrivateDeclName(t *testing.T) {
	d := newFakeDir()
	secret := d.add(1, decl.Decl{Name: "Secret", Kind: decl.KindStruct, Module: "Main", Discriminator: "_F00D"})
	r := NewResolver(d, nil)

	module := demangle.NewNode(demangle.KindModule, "Main")
	name := demangle.NewNode(demangle.KindPrivateDeclName, "",
		demangle.NewNode(demangle.KindIdentifier, "_F00D"),
		demangle.NewNode(demangle.KindIdentifier, "Secret"),
	)
	node := demangle.NewNode(demangle.KindStruct, "", module, name)
	ctx, ok := r.FindDeclContext(node)
	if !ok || ctx.Decl != secret {
		t.Fatalf("private decl name must resolve with its discriminator")
	}

	// A discriminator without a name (or vice versa) is malformed.
	broken := demangle.NewNode(demangle.KindStruct, "", module,
		demangle.NewNode(demangle.KindPrivateDeclName, "",
			demangle.NewNode(demangle.KindIdentifier, "_F00D"),
			demangle.NewNode(demangle.KindIdentifier, ""),
		))
	if _, ok := r.FindDeclContext(broken); ok {
		t.Fatalf("private decl name without both parts must not resolve")
	}
}

func TestFindDeclContextLocalDeclName(t *testing.T) {
	d := newFakeDir()
	local := d.add(1, decl.Decl{Name: "Inner", Kind: decl.KindStruct, Module: "Main"})
	r := NewResolver(d, nil)

	module := demangle.NewNode(demangle.KindModule, "Main")
	name := demangle.NewNode(demangle.KindLocalDeclName, "",
		demangle.NewNode(demangle.KindIdentifier, "4"),
		demangle.NewNode(demangle.KindIdentifier, "Inner"),
	)
	node := demangle.NewNode(demangle.KindStruct, "", module, name)
	d.locals[demangle.Mangle(node)] = local

	ctx, ok := r.FindDeclContext(node)
	if !ok || ctx.Decl != local {
		t.Fatalf("local decl must resolve by its re-encoded symbol")
	}
}

func TestFindDeclContextUnsupportedKinds(t *testing.T) {
	d := newFakeDir()
	d.modules["Main"] = true
	r := NewResolver(d, nil)
	module := demangle.NewNode(demangle.KindModule, "Main")
	ext := demangle.NewNode(demangle.KindExtension, "", module,
		demangle.NewNode(demangle.KindIdentifier, "Whatever"))
	if _, ok := r.FindDeclContext(ext); ok {
		t.Fatalf("extension contexts are unsupported")
	}
}

func TestFindDeclContextForeignFallback(t *testing.T) {
	d := newFakeDir()
	window := decl.ID(7)
	d.decls[window] = decl.Decl{Name: "Window", Kind: decl.KindClass, Module: ForeignModuleName}
	bridge := &fakeBridge{byName: map[string][]decl.ID{"Window": {window}}}
	r := NewResolver(d, bridge)

	// The foreign pseudo-module has no directory entry, so the plain
	// recursion fails and the bridge fallback kicks in.
	foreign := demangle.NewNode(demangle.KindModule, ForeignModuleName)
	node := nominalNode(demangle.KindClass, foreign, "Window")
	ctx, ok := r.FindDeclContext(node)
	if !ok || ctx.Decl != window {
		t.Fatalf("foreign class must resolve through the bridge fallback")
	}

	// The fallback never applies to discriminated names.
	private := demangle.NewNode(demangle.KindClass, "", foreign,
		demangle.NewNode(demangle.KindPrivateDeclName, "",
			demangle.NewNode(demangle.KindIdentifier, "_F00D"),
			demangle.NewNode(demangle.KindIdentifier, "Window"),
		))
	if _, ok := r.FindDeclContext(private); ok {
		t.Fatalf("discriminated names must not take the foreign fallback")
	}
}

func TestFindNominalTypeDeclAmbiguity(t *testing.T) {
	d := newFakeDir()
	d.add(1, decl.Decl{Name: "Dup", Kind: decl.KindStruct, Module: "Main"})
	d.add(2, decl.Decl{Name: "Dup", Kind: decl.KindStruct, Module: "Main"})
	d.add(3, decl.Decl{Name: "Only", Kind: decl.KindStruct, Module: "Main"})
	r := NewResolver(d, nil)
	ctx := decl.Context{Module: "Main"}

	if _, ok := r.FindNominalTypeDecl(ctx, "Dup", "", decl.KindStruct); ok {
		t.Fatalf("two same-kind same-module candidates are ambiguous")
	}
	id, ok := r.FindNominalTypeDecl(ctx, "Only", "", decl.KindStruct)
	if !ok || id != 3 {
		t.Fatalf("unique candidate must resolve")
	}
}

func TestFindNominalTypeDeclFiltersKindAndModule(t *testing.T) {
	d := newFakeDir()
	d.add(1, decl.Decl{Name: "Thing", Kind: decl.KindClass, Module: "Main"})
	want := d.add(2, decl.Decl{Name: "Thing", Kind: decl.KindStruct, Module: "Main"})
	r := NewResolver(d, nil)
	ctx := decl.Context{Module: "Main"}

	id, ok := r.FindNominalTypeDecl(ctx, "Thing", "", decl.KindStruct)
	if !ok || id != want {
		t.Fatalf("kind filtering must keep only the matching candidate")
	}
}

func TestFindForeignNominalTypeDeclDistinctCandidatesFail(t *testing.T) {
	d := newFakeDir()
	d.decls[1] = decl.Decl{Name: "Window", Kind: decl.KindClass, Module: ForeignModuleName}
	d.decls[2] = decl.Decl{Name: "Window", Kind: decl.KindClass, Module: ForeignModuleName}
	bridge := &fakeBridge{byName: map[string][]decl.ID{"Window": {1, 2}}}
	r := NewResolver(d, bridge)
	if _, ok := r.FindForeignNominalTypeDecl("Window", decl.KindClass); ok {
		t.Fatalf("two distinct foreign candidates must fail the lookup")
	}

	// The same candidate reported twice is still unique.
	bridge.byName["Window"] = []decl.ID{1, 1}
	id, ok := r.FindForeignNominalTypeDecl("Window", decl.KindClass)
	if !ok || id != 1 {
		t.Fatalf("duplicate reports of one candidate must stay unique")
	}
}

func TestCreateNominalTypeDeclRecordsFailure(t *testing.T) {
	d := newFakeDir()
	b := newTestBuilder(d, nil, nil)
	node := nominalNode(demangle.KindStruct, demangle.NewNode(demangle.KindModule, "Gone"), "Missing")
	if _, ok := b.CreateNominalTypeDecl(node); ok {
		t.Fatalf("unresolvable decl must fail")
	}
	f := b.TakeFailure(FailureUnknown)
	if f.Kind != FailureCouldNotResolveTypeDecl {
		t.Fatalf("expected decl-resolution failure, got %v", f.Kind)
	}
	if len(f.Args) != 1 || f.Args[0] != "Gone.Missing" {
		t.Fatalf("failure payload must carry the re-encoded symbol, got %v", f.Args)
	}
}

func TestCreateNominalTypeDeclModuleIsSilentRejection(t *testing.T) {
	d := newFakeDir()
	d.modules["Main"] = true
	b := newTestBuilder(d, nil, nil)
	if _, ok := b.CreateNominalTypeDecl(demangle.NewNode(demangle.KindModule, "Main")); ok {
		t.Fatalf("a bare module is not a nominal decl")
	}
	f := b.TakeFailure(FailureUnknown)
	if f.Kind != FailureUnknown {
		t.Fatalf("module rejection is structural, not diagnosable; got %v", f.Kind)
	}
}
