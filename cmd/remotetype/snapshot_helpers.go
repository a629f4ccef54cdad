package main

import (
	"fmt"
	"strconv"

	"remotetype/internal/dir"
	"remotetype/internal/image"
	"remotetype/internal/inspect"
	"remotetype/internal/remote"
	"remotetype/internal/types"
)

// target is one labeled address a command should decode.
type target struct {
	label string
	addr  remote.Address
}

func loadSnapshot(path string) (*image.Snapshot, error) {
	var st image.Store
	snap, ok, err := st.Load(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no snapshot at %s", path)
	}
	return snap, nil
}

// newContext builds a fresh reflection context over a snapshot. Each
// caller gets its own directory and interner; contexts are
// single-threaded by contract.
func newContext(snap *image.Snapshot) (*inspect.ReflectionContext, *dir.Table, error) {
	table := dir.NewTable(types.NewInterner())
	if err := snap.Populate(table); err != nil {
		return nil, nil, err
	}
	ctx, err := inspect.NewReflectionContext(inspect.PointerWidth(snap.Width), inspect.Config{
		Memory:    snap,
		Directory: table,
		Bridge:    table,
		Oracle:    table,
		Interner:  table.Interner(),
	})
	if err != nil {
		return nil, nil, err
	}
	return ctx, table, nil
}

// resolveTargets parses explicit addresses, or falls back to the
// snapshot's recorded roots when none were given.
func resolveTargets(snap *image.Snapshot, args []string) ([]target, error) {
	if len(args) == 0 {
		if len(snap.Roots) == 0 {
			return nil, fmt.Errorf("no addresses given and the snapshot records no roots")
		}
		out := make([]target, 0, len(snap.Roots))
		for _, r := range snap.Roots {
			out = append(out, target{label: r.Label, addr: remote.Address(r.Addr)})
		}
		return out, nil
	}
	out := make([]target, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseUint(a, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid address %q: %w", a, err)
		}
		out = append(out, target{label: a, addr: remote.Address(v)})
	}
	return out, nil
}
