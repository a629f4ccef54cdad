// Package dir provides an in-memory declaration table implementing the
// directory, importer-bridge and type-resolution collaborators. It
// backs the CLI (tables are loaded from captured snapshots) and tests;
// the reflection core itself only sees the interfaces.
package dir

import (
	"fmt"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"

	"remotetype/internal/builder"
	"remotetype/internal/decl"
	"remotetype/internal/types"
)

type memberKey struct {
	Parent decl.ID
	Module string // set only for module-level members
	Name   string
}

// Table is a declaration directory with NFC-normalized name indexes.
type Table struct {
	in *types.Interner

	decls    []decl.Decl // index = ID, slot 0 reserved
	modules  map[string]bool
	members  map[memberKey][]decl.ID
	topLevel map[string][]decl.ID
	locals   map[string]decl.ID
	foreign  map[string][]decl.ID
}

// NewTable builds an empty table allocating types in the given
// interner.
func NewTable(in *types.Interner) *Table {
	return &Table{
		in:       in,
		decls:    []decl.Decl{{}},
		modules:  make(map[string]bool),
		members:  make(map[memberKey][]decl.ID),
		topLevel: make(map[string][]decl.ID),
		locals:   make(map[string]decl.ID),
		foreign:  make(map[string][]decl.ID),
	}
}

// AddModule registers a module name.
func (t *Table) AddModule(name string) {
	t.modules[normName(name)] = true
}

// AddDecl registers a declaration and indexes it under its enclosing
// context. The defining module is registered implicitly.
func (t *Table) AddDecl(d decl.Decl) decl.ID {
	id := t.appendDecl(d)
	name := normName(d.Name)
	t.AddModule(d.Module)
	if d.Parent == decl.NoID {
		t.members[memberKey{Module: d.Module, Name: name}] = append(t.members[memberKey{Module: d.Module, Name: name}], id)
		t.topLevel[name] = append(t.topLevel[name], id)
	} else {
		t.members[memberKey{Parent: d.Parent, Name: name}] = append(t.members[memberKey{Parent: d.Parent, Name: name}], id)
	}
	return id
}

// AddLocalType maps a full re-encoded symbol to a declaration.
func (t *Table) AddLocalType(mangled string, id decl.ID) {
	t.locals[mangled] = id
}

// AddForeign registers a bridged declaration visible by simple name.
// Its module is the designated foreign pseudo-module.
func (t *Table) AddForeign(d decl.Decl) decl.ID {
	d.Module = builder.ForeignModuleName
	d.Parent = decl.NoID
	id := t.appendDecl(d)
	name := normName(d.Name)
	t.foreign[name] = append(t.foreign[name], id)
	return id
}

func (t *Table) appendDecl(d decl.Decl) decl.ID {
	slot, err := safecast.Conv[uint32](len(t.decls))
	if err != nil {
		panic(fmt.Errorf("decl table overflow: %w", err))
	}
	t.decls = append(t.decls, d)
	return decl.ID(slot)
}

// LookupModule implements builder.Directory.
func (t *Table) LookupModule(name string) (decl.Context, bool) {
	name = normName(name)
	if !t.modules[name] {
		return decl.Context{}, false
	}
	return decl.Context{Module: name}, true
}

// LookupMember implements builder.Directory. Discriminators narrow to
// file-private declarations; an empty discriminator only matches
// ordinary ones.
func (t *Table) LookupMember(ctx decl.Context, name, discriminator string) []decl.ID {
	key := memberKey{Name: normName(name)}
	if ctx.IsModule() {
		key.Module = ctx.Module
	} else {
		key.Parent = ctx.Decl
	}
	var out []decl.ID
	for _, id := range t.members[key] {
		if t.decls[id].Discriminator != discriminator {
			continue
		}
		out = append(out, id)
	}
	return out
}

// LookupLocalType implements builder.Directory.
func (t *Table) LookupLocalType(mangled string) (decl.ID, bool) {
	id, ok := t.locals[mangled]
	return id, ok
}

// Decl implements builder.Directory.
func (t *Table) Decl(id decl.ID) (decl.Decl, bool) {
	if id == decl.NoID || int(id) >= len(t.decls) {
		return decl.Decl{}, false
	}
	return t.decls[id], true
}

// Len returns the number of registered declarations.
func (t *Table) Len() int {
	return len(t.decls) - 1
}

// Interner returns the interner the table allocates types in. Oracle
// answers only make sense to a builder sharing it.
func (t *Table) Interner() *types.Interner {
	return t.in
}

// LookupForeign implements builder.ImporterBridge.
func (t *Table) LookupForeign(name string) []decl.ID {
	return t.foreign[normName(name)]
}

func normName(name string) string {
	return norm.NFC.String(name)
}
