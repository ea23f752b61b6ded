package axc

import (
	"bytes"
	"encoding/binary"
)

const (
	axcHeaderSize  = 48
	axcSectionSize = 20
)

// The fixed header and section directory entries are encoded field by field.
// Container construction is out of scope for this package, so the encoders
// stay unexported; tests use them to build synthetic containers.

func decodeHeader(src []byte) (Header, bool) {
	var h Header
	if len(src) < axcHeaderSize {
		return h, false
	}
	copy(h.Magic[:], src[0:4])
	h.Major = binary.LittleEndian.Uint16(src[4:6])
	h.Minor = binary.LittleEndian.Uint16(src[6:8])
	h.HeaderSize = binary.LittleEndian.Uint32(src[8:12])
	h.SectionCount = binary.LittleEndian.Uint32(src[12:16])
	h.SectionDirOffset = binary.LittleEndian.Uint64(src[16:24])
	h.ImageSize = binary.LittleEndian.Uint64(src[24:32])
	copy(h.UUID[:], src[32:48])
	return h, true
}

func encodeHeader(dst []byte, h Header) bool {
	if len(dst) < axcHeaderSize {
		return false
	}
	copy(dst[0:4], h.Magic[:])
	binary.LittleEndian.PutUint16(dst[4:6], h.Major)
	binary.LittleEndian.PutUint16(dst[6:8], h.Minor)
	binary.LittleEndian.PutUint32(dst[8:12], h.HeaderSize)
	binary.LittleEndian.PutUint32(dst[12:16], h.SectionCount)
	binary.LittleEndian.PutUint64(dst[16:24], h.SectionDirOffset)
	binary.LittleEndian.PutUint64(dst[24:32], h.ImageSize)
	copy(dst[32:48], h.UUID[:])
	return true
}

func decodeSection(src []byte) (Section, bool) {
	var s Section
	if len(src) < axcSectionSize {
		return s, false
	}
	s.Type = binary.LittleEndian.Uint32(src[0:4])
	s.Offset = binary.LittleEndian.Uint64(src[4:12])
	s.Size = binary.LittleEndian.Uint64(src[12:20])
	return s, true
}

func encodeSection(dst []byte, s Section) bool {
	if len(dst) < axcSectionSize {
		return false
	}
	binary.LittleEndian.PutUint32(dst[0:4], s.Type)
	binary.LittleEndian.PutUint64(dst[4:12], s.Offset)
	binary.LittleEndian.PutUint64(dst[12:20], s.Size)
	return true
}

// cString extracts a NUL-terminated string from a fixed-size field.
// It fails when no terminator exists within the field.
func cString(b []byte) (string, bool) {
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		return "", false
	}
	return string(b[:i]), true
}

// tagString cuts a fixed-size field at the first NUL, or keeps the whole
// field when none is present.
func tagString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

func mulUint64(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > ^uint64(0)/b {
		return 0, false
	}
	return a * b, true
}
