// Package image captures a remote process's metadata-relevant state in
// a portable snapshot: raw memory segments plus the declaration tables
// the resolver needs. Snapshots serialize to msgpack files and load
// back as a memory reader and a populated directory.
package image

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"remotetype/internal/decl"
	"remotetype/internal/dir"
	"remotetype/internal/remote"
)

// Schema version - increment when the Snapshot format changes.
const snapshotSchemaVersion uint16 = 1

// Segment is a contiguous run of captured remote memory.
type Segment struct {
	Base uint64
	Data []byte
}

// DeclEntry is one declaration row. Parent refers to an earlier entry
// by its 1-based position in Decls, or 0 for top-level declarations.
type DeclEntry struct {
	Name          string
	Kind          uint8 // decl.Kind
	Module        string
	Parent        uint32
	Generic       bool
	Arity         int
	Discriminator string
}

// LocalEntry maps a re-encoded local symbol to a declaration entry.
type LocalEntry struct {
	Mangled string
	Decl    uint32
}

// ForeignEntry is a bridged declaration visible by simple name only.
type ForeignEntry struct {
	Name string
	Kind uint8 // decl.Kind
}

// Root is a labeled metadata address worth decoding, recorded at
// capture time.
type Root struct {
	Label string
	Addr  uint64
}

// Snapshot is the serialized capture of one remote process.
type Snapshot struct {
	Schema   uint16
	Width    uint8 // pointer size in bytes, 4 or 8
	Segments []Segment
	Modules  []string
	Decls    []DeclEntry
	Locals   []LocalEntry
	Foreign  []ForeignEntry
	Roots    []Root
}

// ReadBytes implements remote.MemoryReader over the captured segments.
// Reads spanning a segment boundary fail; captures do not guarantee
// adjacency.
func (s *Snapshot) ReadBytes(addr remote.Address, buf []byte) bool {
	a := uint64(addr)
	for i := range s.Segments {
		seg := &s.Segments[i]
		if a < seg.Base {
			continue
		}
		// Addresses are remote-controlled; keep the bounds arithmetic
		// overflow-free.
		off := a - seg.Base
		if off > uint64(len(seg.Data)) || uint64(len(seg.Data))-off < uint64(len(buf)) {
			continue
		}
		copy(buf, seg.Data[off:])
		return true
	}
	return false
}

// Validate checks structural sanity before the snapshot is used.
func (s *Snapshot) Validate() error {
	if s.Schema != snapshotSchemaVersion {
		return fmt.Errorf("image: unsupported schema %d (want %d)", s.Schema, snapshotSchemaVersion)
	}
	if s.Width != 4 && s.Width != 8 {
		return fmt.Errorf("image: unsupported pointer width %d", s.Width)
	}
	for i, d := range s.Decls {
		if d.Name == "" {
			return fmt.Errorf("image: decl %d has no name", i+1)
		}
		if d.Parent != 0 && int(d.Parent) > i {
			return fmt.Errorf("image: decl %d references parent %d before it is defined", i+1, d.Parent)
		}
	}
	for _, l := range s.Locals {
		if l.Decl == 0 || int(l.Decl) > len(s.Decls) {
			return fmt.Errorf("image: local %q references unknown decl %d", l.Mangled, l.Decl)
		}
	}
	return nil
}

// Populate fills a directory table from the snapshot's declaration
// rows. Entry positions map to table IDs because the table assigns
// them sequentially.
func (s *Snapshot) Populate(table *dir.Table) error {
	if err := s.Validate(); err != nil {
		return err
	}
	for _, m := range s.Modules {
		table.AddModule(m)
	}
	ids := make([]decl.ID, len(s.Decls)+1)
	for i, d := range s.Decls {
		parent := decl.NoID
		if d.Parent != 0 {
			parent = ids[d.Parent]
		}
		ids[i+1] = table.AddDecl(decl.Decl{
			Name:          d.Name,
			Kind:          decl.Kind(d.Kind),
			Module:        d.Module,
			Parent:        parent,
			Generic:       d.Generic,
			Arity:         d.Arity,
			Discriminator: d.Discriminator,
		})
	}
	for _, l := range s.Locals {
		table.AddLocalType(l.Mangled, ids[l.Decl])
	}
	for _, f := range s.Foreign {
		table.AddForeign(decl.Decl{Name: f.Name, Kind: decl.Kind(f.Kind)})
	}
	return nil
}

// Store reads and writes snapshot files. Thread-safe for concurrent
// access.
type Store struct {
	mu sync.RWMutex
}

// Save serializes a snapshot, replacing the destination atomically.
func (st *Store) Save(path string, snap *Snapshot) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	snap.Schema = snapshotSchemaVersion
	if err := snap.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(snap); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Load reads a snapshot file. A missing file reports (nil, false, nil).
func (st *Store) Load(path string) (*Snapshot, bool, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() {
		_ = f.Close()
	}()
	var snap Snapshot
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&snap); err != nil {
		return nil, false, fmt.Errorf("%s: failed to decode snapshot: %w", path, err)
	}
	if err := snap.Validate(); err != nil {
		return nil, false, fmt.Errorf("%s: %w", path, err)
	}
	return &snap, true, nil
}
