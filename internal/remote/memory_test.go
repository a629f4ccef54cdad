package remote

import "testing"

type pageMemory map[Address]byte

func (m pageMemory) ReadBytes(addr Address, buf []byte) bool {
	for i := range buf {
		b, ok := m[addr.Add(uint64(i))]
		if !ok {
			return false
		}
		buf[i] = b
	}
	return true
}

func mapString(m pageMemory, addr Address, s string) {
	for i := 0; i < len(s); i++ {
		m[addr.Add(uint64(i))] = s[i]
	}
	m[addr.Add(uint64(len(s)))] = 0
}

func TestReadCString(t *testing.T) {
	mem := make(pageMemory)
	mapString(mem, 0x100, "Main.Point")
	got, ok := ReadCString(mem, 0x100)
	if !ok || got != "Main.Point" {
		t.Fatalf("got %q (%v)", got, ok)
	}
}

func TestReadCStringAtMappingEdge(t *testing.T) {
	// Nothing is mapped past the terminator; the read must still work.
	mem := make(pageMemory)
	mapString(mem, 0x1fc, "abc")
	if got, ok := ReadCString(mem, 0x1fc); !ok || got != "abc" {
		t.Fatalf("got %q (%v)", got, ok)
	}
}

func TestReadCStringFailures(t *testing.T) {
	mem := make(pageMemory)
	// Unterminated run that leaves the mapping.
	for i := Address(0x200); i < 0x210; i++ {
		mem[i] = 'x'
	}
	if _, ok := ReadCString(mem, 0x200); ok {
		t.Fatalf("unterminated string must fail")
	}
	if _, ok := ReadCString(mem, NoAddress); ok {
		t.Fatalf("the null address is never readable")
	}
}

func TestAddress(t *testing.T) {
	a := Address(0x1000)
	if got := a.Add(0x10); got != 0x1010 {
		t.Fatalf("got %v", got)
	}
	if got := a.String(); got != "0x1000" {
		t.Fatalf("got %q", got)
	}
}
