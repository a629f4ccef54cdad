package metadata

import (
	"strings"
	"unsafe"

	"remotetype/internal/builder"
	"remotetype/internal/decl"
	"remotetype/internal/remote"
	"remotetype/internal/types"
)

// Pointer is the remote pointer representation the reader is
// instantiated with; it fixes every field offset and size for the
// session.
type Pointer interface {
	~uint32 | ~uint64
}

// maxDecodeDepth bounds recursion through generic-argument vectors and
// parent links. Well-formed metadata graphs are acyclic; the cap only
// cuts off corrupt or hostile remote data.
const maxDecodeDepth = 64

// Reader decodes raw runtime metadata records from a remote address
// space at a fixed pointer width, feeding the type builder. All
// multi-byte fields are little-endian.
type Reader[P Pointer] struct {
	mem     remote.MemoryReader
	b       *builder.Builder
	ptrSize uint64
}

// NewReader builds a reader over the given memory and builder.
func NewReader[P Pointer](mem remote.MemoryReader, b *builder.Builder) *Reader[P] {
	var z P
	return &Reader[P]{
		mem:     mem,
		b:       b,
		ptrSize: uint64(unsafe.Sizeof(z)),
	}
}

// Builder exposes the type builder the reader feeds.
func (r *Reader[P]) Builder() *builder.Builder {
	return r.b
}

// ReadKindFromMetadata decodes only the kind tag of the record at addr.
func (r *Reader[P]) ReadKindFromMetadata(addr remote.Address) (RecordKind, bool) {
	w, ok := r.word(addr, 0)
	if !ok || w > uint64(^uint32(0)) {
		return RecordInvalid, false
	}
	return RecordKind(w), true
}

// ReadTypeFromMetadata decodes the record at addr into a canonical
// type. An unreadable or malformed record yields no value; the caller
// supplies its own default failure.
func (r *Reader[P]) ReadTypeFromMetadata(addr remote.Address) (types.TypeID, bool) {
	return r.readType(addr, 0)
}

// ReadNominalTypeFromDescriptor decodes a nominal-type descriptor and
// resolves it to a declaration.
func (r *Reader[P]) ReadNominalTypeFromDescriptor(addr remote.Address) (decl.ID, bool) {
	kind, ok := r.ReadKindFromMetadata(addr)
	if !ok || !kind.IsNominal() {
		return decl.NoID, false
	}
	id, _, ok := r.readDescriptor(addr)
	return id, ok
}

func (r *Reader[P]) readType(addr remote.Address, depth int) (types.TypeID, bool) {
	if depth > maxDecodeDepth {
		return types.NoTypeID, false
	}
	kind, ok := r.ReadKindFromMetadata(addr)
	if !ok {
		return types.NoTypeID, false
	}
	switch {
	case kind.IsNominal():
		return r.readNominalType(addr, depth)
	case kind == RecordTuple:
		return r.readTupleType(addr, depth)
	case kind == RecordFunction:
		return r.readFunctionType(addr, depth)
	case kind == RecordExistential:
		return r.readExistentialType(addr)
	case kind == RecordMetatype, kind == RecordExistentialMetatype:
		instance, ok := r.readTypeAtField(addr, 1, depth)
		if !ok {
			return types.NoTypeID, false
		}
		if kind == RecordExistentialMetatype {
			return nonZero(r.b.CreateExistentialMetatypeType(instance))
		}
		return nonZero(r.b.CreateMetatypeType(instance))
	case kind == RecordBridgedClass:
		name, ok := r.stringAtField(addr, 1)
		if !ok {
			return types.NoTypeID, false
		}
		return nonZero(r.b.CreateBridgedClassType(name))
	case kind == RecordForeignClass:
		path, ok := r.stringAtField(addr, 1)
		if !ok {
			return types.NoTypeID, false
		}
		nodeKind, _ := nodeKindFor(RecordForeignClass)
		node, ok := parsePath(path, nodeKind)
		if !ok {
			return types.NoTypeID, false
		}
		return nonZero(r.b.CreateForeignClassType(node))
	case kind == RecordOpaque:
		return nonZero(r.b.OpaqueType())
	default:
		return types.NoTypeID, false
	}
}

// readNominalType decodes [kind][descriptor][parent][args...]. A short
// read anywhere voids only this record.
func (r *Reader[P]) readNominalType(addr remote.Address, depth int) (types.TypeID, bool) {
	descAddr, ok := r.pointerAtField(addr, 1)
	if !ok {
		return types.NoTypeID, false
	}
	declID, arity, ok := r.readDescriptor(descAddr)
	if !ok {
		return types.NoTypeID, false
	}

	parent := types.NoTypeID
	parentAddr, ok := r.pointerAtField(addr, 2)
	if !ok {
		return types.NoTypeID, false
	}
	if parentAddr != remote.NoAddress {
		parent, ok = r.readType(parentAddr, depth+1)
		if !ok {
			return types.NoTypeID, false
		}
	}

	if arity == 0 {
		return nonZero(r.b.CreateNominalType(declID, parent))
	}

	args := make([]types.TypeID, 0, arity)
	for i := 0; i < arity; i++ {
		arg, ok := r.readTypeAtField(addr, 3+uint64(i), depth)
		if !ok {
			return types.NoTypeID, false
		}
		args = append(args, arg)
	}
	return nonZero(r.b.CreateBoundGenericType(declID, args, parent))
}

// readDescriptor decodes [kind][name][arity] and resolves the context
// path to a declaration.
func (r *Reader[P]) readDescriptor(addr remote.Address) (decl.ID, int, bool) {
	kind, ok := r.ReadKindFromMetadata(addr)
	if !ok || !kind.IsNominal() {
		return decl.NoID, 0, false
	}
	path, ok := r.stringAtField(addr, 1)
	if !ok {
		return decl.NoID, 0, false
	}
	arityWord, ok := r.word(addr, 2)
	if !ok || arityWord > 0xFFFF {
		return decl.NoID, 0, false
	}
	nodeKind, _ := nodeKindFor(kind)
	node, ok := parsePath(path, nodeKind)
	if !ok {
		return decl.NoID, 0, false
	}
	id, ok := r.b.CreateNominalTypeDecl(node)
	if !ok {
		return decl.NoID, 0, false
	}
	return id, int(arityWord), true
}

func (r *Reader[P]) readTupleType(addr remote.Address, depth int) (types.TypeID, bool) {
	countWord, ok := r.word(addr, 1)
	if !ok || countWord > 0xFFFF {
		return types.NoTypeID, false
	}
	labelsAddr, ok := r.pointerAtField(addr, 2)
	if !ok {
		return types.NoTypeID, false
	}
	labels := ""
	if labelsAddr != remote.NoAddress {
		labels, ok = remote.ReadCString(r.mem, labelsAddr)
		if !ok {
			return types.NoTypeID, false
		}
	}
	count := int(countWord)
	// The labels string is remote-controlled; excess tokens make the
	// record malformed, not the process dead.
	if len(strings.Fields(labels)) > count {
		return types.NoTypeID, false
	}
	elems := make([]types.TypeID, 0, count)
	for i := 0; i < count; i++ {
		elem, ok := r.readTypeAtField(addr, 3+uint64(i), depth)
		if !ok {
			return types.NoTypeID, false
		}
		elems = append(elems, elem)
	}
	return nonZero(r.b.CreateTupleType(elems, labels, false))
}

func (r *Reader[P]) readFunctionType(addr remote.Address, depth int) (types.TypeID, bool) {
	flagsWord, ok := r.word(addr, 1)
	if !ok {
		return types.NoTypeID, false
	}
	count := int(flagsWord & fnFlagsCountMask)
	convention := builder.MetaConvention((flagsWord >> fnFlagsConventionBit) & fnFlagsConventionMask)
	throws := flagsWord&(1<<fnFlagsThrowsBit) != 0

	result, ok := r.readTypeAtField(addr, 2, depth)
	if !ok {
		return types.NoTypeID, false
	}
	args := make([]types.TypeID, 0, count)
	for i := 0; i < count; i++ {
		arg, ok := r.readTypeAtField(addr, 3+uint64(i), depth)
		if !ok {
			return types.NoTypeID, false
		}
		args = append(args, arg)
	}
	maskWord, ok := r.word(addr, 3+uint64(count))
	if !ok {
		return types.NoTypeID, false
	}
	inout := make([]bool, count)
	for i := range inout {
		inout[i] = maskWord&(1<<uint(i)) != 0
	}
	return nonZero(r.b.CreateFunctionType(args, inout, result, builder.FnFlags{
		Convention: convention,
		Throws:     throws,
	}))
}

// readExistentialType decodes [kind][count][protocol descriptors...].
// A single member stays a bare protocol reference; several compose.
func (r *Reader[P]) readExistentialType(addr remote.Address) (types.TypeID, bool) {
	countWord, ok := r.word(addr, 1)
	if !ok || countWord > 0xFFFF {
		return types.NoTypeID, false
	}
	count := int(countWord)
	members := make([]types.TypeID, 0, count)
	for i := 0; i < count; i++ {
		descAddr, ok := r.pointerAtField(addr, 2+uint64(i))
		if !ok {
			return types.NoTypeID, false
		}
		member, ok := r.readProtocolDescriptor(descAddr)
		if !ok {
			return types.NoTypeID, false
		}
		members = append(members, member)
	}
	if count == 1 {
		return members[0], true
	}
	return nonZero(r.b.CreateProtocolCompositionType(members))
}

// readProtocolDescriptor decodes [kind=protocol][name] where the name
// is exactly "Module.Protocol".
func (r *Reader[P]) readProtocolDescriptor(addr remote.Address) (types.TypeID, bool) {
	kind, ok := r.ReadKindFromMetadata(addr)
	if !ok || kind != RecordProtocol {
		return types.NoTypeID, false
	}
	path, ok := r.stringAtField(addr, 1)
	if !ok {
		return types.NoTypeID, false
	}
	module, name, found := cutLast(path)
	if !found {
		return types.NoTypeID, false
	}
	return nonZero(r.b.CreateProtocolType(module, name))
}

// word reads the index-th pointer-sized field of the record at addr.
func (r *Reader[P]) word(addr remote.Address, index uint64) (uint64, bool) {
	buf := make([]byte, r.ptrSize)
	if !r.mem.ReadBytes(addr.Add(index*r.ptrSize), buf) {
		return 0, false
	}
	var v uint64
	for i, b := range buf {
		v |= uint64(b) << (8 * uint(i))
	}
	return v, true
}

func (r *Reader[P]) pointerAtField(addr remote.Address, index uint64) (remote.Address, bool) {
	w, ok := r.word(addr, index)
	if !ok {
		return remote.NoAddress, false
	}
	return remote.Address(w), true
}

func (r *Reader[P]) stringAtField(addr remote.Address, index uint64) (string, bool) {
	p, ok := r.pointerAtField(addr, index)
	if !ok {
		return "", false
	}
	return remote.ReadCString(r.mem, p)
}

func (r *Reader[P]) readTypeAtField(addr remote.Address, index uint64, depth int) (types.TypeID, bool) {
	p, ok := r.pointerAtField(addr, index)
	if !ok || p == remote.NoAddress {
		return types.NoTypeID, false
	}
	return r.readType(p, depth+1)
}

func nonZero(id types.TypeID) (types.TypeID, bool) {
	return id, id != types.NoTypeID
}

// cutLast splits "A.B.C" into ("A.B", "C").
func cutLast(path string) (string, string, bool) {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			if i == 0 || i == len(path)-1 {
				return "", "", false
			}
			return path[:i], path[i+1:], true
		}
	}
	return "", "", false
}
