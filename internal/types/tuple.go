package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// TupleInfo stores the element types and labels for a tuple type.
// Labels always has the same length as Elems; unlabeled positions
// hold "".
type TupleInfo struct {
	Elems  []TypeID
	Labels []string
}

// RegisterTuple creates or finds a tuple type with the given elements.
func (in *Interner) RegisterTuple(info TupleInfo) TypeID {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindTuple {
			continue
		}
		have := in.tuples[tt.Payload]
		if slices.Equal(have.Elems, info.Elems) && slices.Equal(have.Labels, info.Labels) {
			return id
		}
	}
	slot := in.appendTupleInfo(info)
	return in.internRaw(Type{Kind: KindTuple, Payload: slot})
}

// TupleInfo returns the element descriptors for a tuple TypeID.
func (in *Interner) TupleInfo(id TypeID) (*TupleInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTuple || int(tt.Payload) >= len(in.tuples) {
		return nil, false
	}
	return &in.tuples[tt.Payload], true
}

func (in *Interner) appendTupleInfo(info TupleInfo) uint32 {
	in.tuples = append(in.tuples, TupleInfo{
		Elems:  slices.Clone(info.Elems),
		Labels: slices.Clone(info.Labels),
	})
	slot, err := safecast.Conv[uint32](len(in.tuples) - 1)
	if err != nil {
		panic(fmt.Errorf("tuple info overflow: %w", err))
	}
	return slot
}
