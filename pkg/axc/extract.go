package axc

import "encoding/hex"

// RawSection returns the payload of the first section of the given type
// without interpreting it, and reports whether such a section exists.
// Callers decide whether absence is fatal. The slice aliases the container
// buffer and must not be retained after File.Close().
func (f *File) RawSection(t SectionType) ([]byte, bool) {
	if f == nil {
		return nil, false
	}
	s := f.Section(t)
	if s == nil {
		return nil, false
	}
	return f.SectionData(s), true
}

// HexEncode renders bytes as lowercase hex, two digits per byte, no
// separators. Empty input yields the empty string. The encoding is
// deterministic, so it is safe to embed in reports that get diffed.
func HexEncode(b []byte) string {
	return hex.EncodeToString(b)
}
