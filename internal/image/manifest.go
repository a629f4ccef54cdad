package image

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"remotetype/internal/decl"
)

// Manifest describes a snapshot to assemble from files on disk. It is
// the human-editable input of the pack command; segment data lives in
// separate binary files referenced relative to the manifest.
type Manifest struct {
	Path   string
	Root   string
	Config ManifestConfig
}

type ManifestConfig struct {
	Image    imageSection     `toml:"image"`
	Segments []segmentSection `toml:"segment"`
	Modules  []moduleSection  `toml:"module"`
	Decls    []declSection    `toml:"decl"`
	Locals   []localSection   `toml:"local"`
	Foreign  []foreignSection `toml:"foreign"`
	Roots    []rootSection    `toml:"root"`
}

type imageSection struct {
	Width uint8 `toml:"width"`
}

type segmentSection struct {
	Base uint64 `toml:"base"`
	File string `toml:"file"`
}

type moduleSection struct {
	Name string `toml:"name"`
}

type declSection struct {
	Name          string `toml:"name"`
	Kind          string `toml:"kind"`
	Module        string `toml:"module"`
	Parent        uint32 `toml:"parent"`
	Generic       bool   `toml:"generic"`
	Arity         int    `toml:"arity"`
	Discriminator string `toml:"discriminator"`
}

type localSection struct {
	Mangled string `toml:"mangled"`
	Decl    uint32 `toml:"decl"`
}

type foreignSection struct {
	Name string `toml:"name"`
	Kind string `toml:"kind"`
}

type rootSection struct {
	Label string `toml:"label"`
	Addr  uint64 `toml:"addr"`
}

// LoadManifest parses and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	var cfg ManifestConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("image") {
		return nil, fmt.Errorf("%s: missing [image]", path)
	}
	if !meta.IsDefined("image", "width") {
		return nil, fmt.Errorf("%s: missing [image].width", path)
	}
	if cfg.Image.Width != 4 && cfg.Image.Width != 8 {
		return nil, fmt.Errorf("%s: [image].width must be 4 or 8", path)
	}
	for i, seg := range cfg.Segments {
		if strings.TrimSpace(seg.File) == "" {
			return nil, fmt.Errorf("%s: [[segment]] %d: missing file", path, i+1)
		}
	}
	for i, d := range cfg.Decls {
		if strings.TrimSpace(d.Name) == "" {
			return nil, fmt.Errorf("%s: [[decl]] %d: missing name", path, i+1)
		}
		if _, ok := parseDeclKind(d.Kind); !ok {
			return nil, fmt.Errorf("%s: [[decl]] %d: unknown kind %q", path, i+1, d.Kind)
		}
	}
	for i, f := range cfg.Foreign {
		if _, ok := parseDeclKind(f.Kind); !ok {
			return nil, fmt.Errorf("%s: [[foreign]] %d: unknown kind %q", path, i+1, f.Kind)
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}
	return &Manifest{Path: abs, Root: filepath.Dir(abs), Config: cfg}, nil
}

// Build assembles a snapshot, reading each segment's backing file.
func (m *Manifest) Build() (*Snapshot, error) {
	snap := &Snapshot{
		Schema: snapshotSchemaVersion,
		Width:  m.Config.Image.Width,
	}
	for _, seg := range m.Config.Segments {
		data, err := os.ReadFile(filepath.Join(m.Root, filepath.FromSlash(seg.File)))
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read segment: %w", m.Path, err)
		}
		snap.Segments = append(snap.Segments, Segment{Base: seg.Base, Data: data})
	}
	for _, mod := range m.Config.Modules {
		snap.Modules = append(snap.Modules, mod.Name)
	}
	for _, d := range m.Config.Decls {
		kind, _ := parseDeclKind(d.Kind)
		snap.Decls = append(snap.Decls, DeclEntry{
			Name:          d.Name,
			Kind:          uint8(kind),
			Module:        d.Module,
			Parent:        d.Parent,
			Generic:       d.Generic,
			Arity:         d.Arity,
			Discriminator: d.Discriminator,
		})
	}
	for _, l := range m.Config.Locals {
		snap.Locals = append(snap.Locals, LocalEntry{Mangled: l.Mangled, Decl: l.Decl})
	}
	for _, f := range m.Config.Foreign {
		kind, _ := parseDeclKind(f.Kind)
		snap.Foreign = append(snap.Foreign, ForeignEntry{Name: f.Name, Kind: uint8(kind)})
	}
	for _, r := range m.Config.Roots {
		snap.Roots = append(snap.Roots, Root{Label: r.Label, Addr: r.Addr})
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", m.Path, err)
	}
	return snap, nil
}

func parseDeclKind(s string) (decl.Kind, bool) {
	switch s {
	case "class":
		return decl.KindClass, true
	case "struct":
		return decl.KindStruct, true
	case "enum":
		return decl.KindEnum, true
	case "protocol":
		return decl.KindProtocol, true
	default:
		return 0, false
	}
}
