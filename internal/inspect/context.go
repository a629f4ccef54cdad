// Package inspect is the public surface of the reflection core: a
// context bound to one remote address space and one pointer width,
// answering type/kind/declaration queries about runtime metadata.
package inspect

import (
	"fmt"

	"remotetype/internal/builder"
	"remotetype/internal/decl"
	"remotetype/internal/demangle"
	"remotetype/internal/metadata"
	"remotetype/internal/remote"
	"remotetype/internal/types"
)

// PointerWidth is the remote process's pointer size in bytes.
type PointerWidth uint8

const (
	Width32 PointerWidth = 4
	Width64 PointerWidth = 8
)

// Config carries the external collaborators of a reflection context.
// Memory and Directory are required; the rest degrade the queries that
// need them. Interner must be the interner the Oracle allocates its
// answers in, so the builder and the oracle agree on TypeIDs; leave it
// nil only when no oracle is wired.
type Config struct {
	Memory    remote.MemoryReader
	Directory builder.Directory
	Bridge    builder.ImporterBridge
	Oracle    builder.TypeResolver
	Decoder   demangle.Decoder
	Interner  *types.Interner
}

// contextImpl hides the width-generic reader instantiation behind a
// fixed interface, so the width branch happens exactly once, at
// construction.
type contextImpl interface {
	readType(addr remote.Address) (types.TypeID, bool)
	readKind(addr remote.Address) (metadata.RecordKind, bool)
	readDescriptor(addr remote.Address) (decl.ID, bool)
}

type concreteImpl[P metadata.Pointer] struct {
	reader *metadata.Reader[P]
}

func (c *concreteImpl[P]) readType(addr remote.Address) (types.TypeID, bool) {
	return c.reader.ReadTypeFromMetadata(addr)
}

func (c *concreteImpl[P]) readKind(addr remote.Address) (metadata.RecordKind, bool) {
	return c.reader.ReadKindFromMetadata(addr)
}

func (c *concreteImpl[P]) readDescriptor(addr remote.Address) (decl.ID, bool) {
	return c.reader.ReadNominalTypeFromDescriptor(addr)
}

// ReflectionContext owns one metadata reader bound permanently to one
// pointer width. It is not safe for concurrent use; serialize callers
// or use one context per goroutine.
type ReflectionContext struct {
	width PointerWidth
	b     *builder.Builder
	impl  contextImpl
}

// NewReflectionContext builds a context for the given width.
func NewReflectionContext(width PointerWidth, cfg Config) (*ReflectionContext, error) {
	if cfg.Memory == nil {
		return nil, fmt.Errorf("inspect: memory reader is required")
	}
	if cfg.Directory == nil {
		return nil, fmt.Errorf("inspect: directory is required")
	}
	if cfg.Oracle != nil && cfg.Interner == nil {
		return nil, fmt.Errorf("inspect: an oracle requires the interner it allocates in")
	}
	in := cfg.Interner
	if in == nil {
		in = types.NewInterner()
	}
	b := builder.New(in, builder.NewResolver(cfg.Directory, cfg.Bridge), cfg.Oracle, cfg.Decoder)

	ctx := &ReflectionContext{width: width, b: b}
	switch width {
	case Width32:
		ctx.impl = &concreteImpl[uint32]{reader: metadata.NewReader[uint32](cfg.Memory, b)}
	case Width64:
		ctx.impl = &concreteImpl[uint64]{reader: metadata.NewReader[uint64](cfg.Memory, b)}
	default:
		return nil, fmt.Errorf("inspect: unsupported pointer width %d", width)
	}
	return ctx, nil
}

// Width returns the pointer width the context was bound to.
func (c *ReflectionContext) Width() PointerWidth {
	return c.width
}

// Interner exposes the interner results live in, for printing and
// structural inspection.
func (c *ReflectionContext) Interner() *types.Interner {
	return c.b.Interner()
}

// GetTypeForRemoteTypeMetadata reconstructs the type described by the
// metadata record at addr.
func (c *ReflectionContext) GetTypeForRemoteTypeMetadata(addr remote.Address) builder.Result[types.TypeID] {
	c.b.Reset()
	if id, ok := c.impl.readType(addr); ok {
		return builder.Success(id)
	}
	return builder.Failed[types.TypeID](c.b.TakeFailure(builder.FailureUnknown, addr.String()))
}

// GetKindForRemoteTypeMetadata decodes only the kind tag at addr.
func (c *ReflectionContext) GetKindForRemoteTypeMetadata(addr remote.Address) builder.Result[metadata.RecordKind] {
	c.b.Reset()
	if kind, ok := c.impl.readKind(addr); ok {
		return builder.Success(kind)
	}
	return builder.Failed[metadata.RecordKind](c.b.TakeFailure(builder.FailureUnknown, addr.String()))
}

// GetDeclForRemoteNominalTypeDescriptor resolves the nominal-type
// descriptor at addr to a declaration.
func (c *ReflectionContext) GetDeclForRemoteNominalTypeDescriptor(addr remote.Address) builder.Result[decl.ID] {
	c.b.Reset()
	if id, ok := c.impl.readDescriptor(addr); ok {
		return builder.Success(id)
	}
	return builder.Failed[decl.ID](c.b.TakeFailure(builder.FailureUnknown, addr.String()))
}

// GetOffsetForProperty is an unimplemented capability: it fails with
// the Unknown kind for every input, deliberately and observably.
func (c *ReflectionContext) GetOffsetForProperty(t types.TypeID, propertyName string) builder.Result[uint64] {
	return builder.Failed[uint64](builder.Failure{Kind: builder.FailureUnknown})
}
