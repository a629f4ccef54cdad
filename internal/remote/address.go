package remote

import "fmt"

// Address is a location in the inspected process's address space.
// The inspector never dereferences it locally; every access goes
// through a MemoryReader.
type Address uint64

// NoAddress marks a null/absent remote pointer.
const NoAddress Address = 0

func (a Address) String() string {
	return fmt.Sprintf("0x%x", uint64(a))
}

// Add offsets the address by n bytes.
func (a Address) Add(n uint64) Address {
	return a + Address(n)
}
