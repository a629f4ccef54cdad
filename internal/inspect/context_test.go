package inspect

import (
	"testing"

	"remotetype/internal/builder"
	"remotetype/internal/decl"
	"remotetype/internal/dir"
	"remotetype/internal/metadata"
	"remotetype/internal/remote"
	"remotetype/internal/types"
)

type sparseMemory map[remote.Address]byte

func (m sparseMemory) ReadBytes(addr remote.Address, buf []byte) bool {
	for i := range buf {
		b, ok := m[addr.Add(uint64(i))]
		if !ok {
			return false
		}
		buf[i] = b
	}
	return true
}

type world struct {
	mem   sparseMemory
	ptr   uint64
	table *dir.Table
	ctx   *ReflectionContext
}

func newWorld(t *testing.T, width PointerWidth) *world {
	t.Helper()
	w := &world{mem: make(sparseMemory), ptr: uint64(width)}
	w.table = dir.NewTable(types.NewInterner())
	ctx, err := NewReflectionContext(width, Config{
		Memory:    w.mem,
		Directory: w.table,
		Bridge:    w.table,
		Oracle:    w.table,
		Interner:  w.table.Interner(),
	})
	if err != nil {
		t.Fatalf("context: %v", err)
	}
	w.ctx = ctx
	return w
}

func (w *world) word(addr remote.Address, index, value uint64) {
	base := addr.Add(index * w.ptr)
	for i := uint64(0); i < w.ptr; i++ {
		w.mem[base.Add(i)] = byte(value >> (8 * i))
	}
}

func (w *world) cstring(addr remote.Address, s string) {
	for i := 0; i < len(s); i++ {
		w.mem[addr.Add(uint64(i))] = s[i]
	}
	w.mem[addr.Add(uint64(len(s)))] = 0
}

const (
	addrMeta      = 0x1000
	addrDesc      = 0x1100
	addrName      = 0x1180
	addrArrayMeta = 0x1200
	addrArrayDesc = 0x1300
	addrArrayName = 0x1380
)

func (w *world) seedPoint() {
	w.table.AddDecl(decl.Decl{Name: "Point", Kind: decl.KindStruct, Module: "Main"})
	w.cstring(addrName, "Main.Point")
	w.word(addrDesc, 0, uint64(metadata.RecordStruct))
	w.word(addrDesc, 1, addrName)
	w.word(addrDesc, 2, 0)
	w.word(addrMeta, 0, uint64(metadata.RecordStruct))
	w.word(addrMeta, 1, addrDesc)
	w.word(addrMeta, 2, 0)
}

// seedArray lays out Core.Array<Main.Point>.
func (w *world) seedArray() {
	w.table.AddDecl(decl.Decl{Name: "Array", Kind: decl.KindStruct, Module: "Core", Generic: true, Arity: 1})
	w.cstring(addrArrayName, "Core.Array")
	w.word(addrArrayDesc, 0, uint64(metadata.RecordStruct))
	w.word(addrArrayDesc, 1, addrArrayName)
	w.word(addrArrayDesc, 2, 1)
	w.word(addrArrayMeta, 0, uint64(metadata.RecordStruct))
	w.word(addrArrayMeta, 1, addrArrayDesc)
	w.word(addrArrayMeta, 2, 0)
	w.word(addrArrayMeta, 3, addrMeta)
}

func TestNewReflectionContextRejectsBadWidth(t *testing.T) {
	table := dir.NewTable(types.NewInterner())
	if _, err := NewReflectionContext(7, Config{Memory: sparseMemory{}, Directory: table}); err == nil {
		t.Fatalf("width 7 must be rejected")
	}
	if _, err := NewReflectionContext(Width64, Config{Directory: table}); err == nil {
		t.Fatalf("missing memory must be rejected")
	}
	if _, err := NewReflectionContext(Width64, Config{Memory: sparseMemory{}}); err == nil {
		t.Fatalf("missing directory must be rejected")
	}
}

func TestGetTypeForRemoteTypeMetadata(t *testing.T) {
	for _, width := range []PointerWidth{Width32, Width64} {
		w := newWorld(t, width)
		w.seedPoint()
		id, ok := w.ctx.GetTypeForRemoteTypeMetadata(addrMeta).Value()
		if !ok {
			t.Fatalf("width %d: metadata must decode", width)
		}
		if got := w.ctx.Interner().Print(id); got != "Point" {
			t.Fatalf("width %d: got %q", width, got)
		}
	}
}

func TestGetTypeForBoundGenericMetadata(t *testing.T) {
	// The oracle's answers live in the table's interner; the context
	// must share it or the decl check rejects every bound generic.
	for _, width := range []PointerWidth{Width32, Width64} {
		w := newWorld(t, width)
		w.seedPoint()
		w.seedArray()
		id, ok := w.ctx.GetTypeForRemoteTypeMetadata(addrArrayMeta).Value()
		if !ok {
			t.Fatalf("width %d: bound generic must decode through the facade", width)
		}
		if got := w.ctx.Interner().Print(id); got != "Array<Point>" {
			t.Fatalf("width %d: got %q", width, got)
		}
	}
}

func TestGetTypeFailureCarriesAddress(t *testing.T) {
	w := newWorld(t, Width64)
	res := w.ctx.GetTypeForRemoteTypeMetadata(0xdead0000)
	f := res.Failure()
	if f == nil || f.Kind != builder.FailureUnknown {
		t.Fatalf("unmapped metadata must fail with the default kind, got %v", f)
	}
	if len(f.Args) != 1 || f.Args[0] != "0xdead0000" {
		t.Fatalf("failure payload must carry the address, got %v", f.Args)
	}
}

func TestGetTypeSurfacesResolutionFailure(t *testing.T) {
	w := newWorld(t, Width64)
	// The descriptor names a declaration the directory does not have.
	w.cstring(addrName, "Gone.Missing")
	w.word(addrDesc, 0, uint64(metadata.RecordStruct))
	w.word(addrDesc, 1, addrName)
	w.word(addrDesc, 2, 0)
	w.word(addrMeta, 0, uint64(metadata.RecordStruct))
	w.word(addrMeta, 1, addrDesc)
	w.word(addrMeta, 2, 0)

	f := w.ctx.GetTypeForRemoteTypeMetadata(addrMeta).Failure()
	if f == nil || f.Kind != builder.FailureCouldNotResolveTypeDecl {
		t.Fatalf("got %v", f)
	}

	// The failure slot does not leak into the next query.
	w.seedPoint()
	w.cstring(addrName, "Main.Point")
	if _, ok := w.ctx.GetTypeForRemoteTypeMetadata(addrMeta).Value(); !ok {
		t.Fatalf("a later query must start from a clean slot")
	}
}

func TestGetKindForRemoteTypeMetadata(t *testing.T) {
	w := newWorld(t, Width64)
	w.seedPoint()
	kind, ok := w.ctx.GetKindForRemoteTypeMetadata(addrMeta).Value()
	if !ok || kind != metadata.RecordStruct {
		t.Fatalf("got %v (%v)", kind, ok)
	}
	if f := w.ctx.GetKindForRemoteTypeMetadata(0xdead0000).Failure(); f == nil {
		t.Fatalf("unmapped record must fail")
	}
}

func TestGetDeclForRemoteNominalTypeDescriptor(t *testing.T) {
	w := newWorld(t, Width64)
	w.seedPoint()
	id, ok := w.ctx.GetDeclForRemoteNominalTypeDescriptor(addrDesc).Value()
	if !ok {
		t.Fatalf("descriptor must resolve")
	}
	d, _ := w.table.Decl(id)
	if d.Name != "Point" {
		t.Fatalf("got %+v", d)
	}
}

func TestGetOffsetForPropertyAlwaysFails(t *testing.T) {
	w := newWorld(t, Width64)
	w.seedPoint()
	id, _ := w.ctx.GetTypeForRemoteTypeMetadata(addrMeta).Value()
	f := w.ctx.GetOffsetForProperty(id, "x").Failure()
	if f == nil || f.Kind != builder.FailureUnknown {
		t.Fatalf("property offsets are unsupported and must say so, got %v", f)
	}
}
