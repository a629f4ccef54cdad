package remote

// MemoryReader provides byte-range reads of a remote address space.
// Implementations decide transport (live process, core dump, captured
// snapshot) and timeout policy; the inspector treats any failed or
// short read as "this structure is unreadable" and degrades only the
// dependent result.
type MemoryReader interface {
	// ReadBytes fills buf from the remote address. It returns false if
	// any part of the range could not be read.
	ReadBytes(addr Address, buf []byte) bool
}

// Maximum length accepted for a remote C string. Longer (or
// unterminated) strings are treated as unreadable.
const maxCStringLen = 4096

// ReadCString reads a NUL-terminated string at addr. A missing
// terminator within the length cap counts as a failed read.
// Bytes are read one at a time so a string ending flush against an
// unmapped page still decodes.
func ReadCString(mem MemoryReader, addr Address) (string, bool) {
	if addr == NoAddress {
		return "", false
	}
	var out []byte
	buf := make([]byte, 1)
	for len(out) < maxCStringLen {
		if !mem.ReadBytes(addr.Add(uint64(len(out))), buf) {
			return "", false
		}
		if buf[0] == 0 {
			return string(out), true
		}
		out = append(out, buf[0])
	}
	return "", false
}
