package demangle

import "testing"

func nominal(kind NodeKind, context *Node, name string) *Node {
	return NewNode(kind, "", context, NewNode(KindIdentifier, name))
}

func TestMangleContextChain(t *testing.T) {
	root := NewNode(KindModule, "Main")
	outer := nominal(KindClass, root, "Outer")
	inner := nominal(KindStruct, outer, "Inner")
	if got := Mangle(inner); got != "Main.Outer.Inner" {
		t.Fatalf("got %q", got)
	}
}

func TestManglePrivateDeclName(t *testing.T) {
	root := NewNode(KindModule, "Main")
	private := NewNode(KindPrivateDeclName, "",
		NewNode(KindIdentifier, "_F00D"),
		NewNode(KindIdentifier, "Secret"),
	)
	node := NewNode(KindStruct, "", root, private)
	if got := Mangle(node); got != "Main.(Secret in _F00D)" {
		t.Fatalf("got %q", got)
	}
}

func TestMangleLocalDeclName(t *testing.T) {
	root := NewNode(KindModule, "Main")
	local := NewNode(KindLocalDeclName, "",
		NewNode(KindIdentifier, "4"),
		NewNode(KindIdentifier, "Local"),
	)
	node := NewNode(KindEnum, "", root, local)
	if got := Mangle(node); got != "Main.Local#4" {
		t.Fatalf("got %q", got)
	}
}

func TestMangleUnwrapsTypeNodes(t *testing.T) {
	root := NewNode(KindModule, "Main")
	node := NewNode(KindType, "", NewNode(KindDeclContext, "", nominal(KindClass, root, "C")))
	if got := Mangle(node); got != "Main.C" {
		t.Fatalf("got %q", got)
	}
	if got := Mangle(nil); got != "" {
		t.Fatalf("nil must render empty, got %q", got)
	}
}
