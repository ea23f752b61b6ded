// Package axc implements the AXC accelerator container format.
//
// AXC is a single-file, memory-mappable container that packages a compiled
// hardware image together with the metadata sections a host runtime needs to
// route work: the instantiated compute kernels, the device memory banks, and
// the kernel-argument to memory-bank wiring. The package decodes and
// validates; it never talks to a device.
package axc

import (
	"strconv"
	"strings"
)

// AXC global constants must never change.
const (
	// MagicAXC is the file magic for all AXC containers.
	// It is encoded as "AXC\0".
	MagicAXC = "AXC\x00"

	// Current Major Version: Any change indicates a breaking format change.
	CurrentMajor uint16 = 1

	// Current Minor Version: Versions may add new optional sections or fields.
	CurrentMinor uint16 = 0
)

// Capacity contract values. Consumers size fixed-width structures (most
// visibly the per-kernel bank bitmap) from these, so they are part of the
// format, not implementation detail.
const (
	// MaxKernels bounds the number of kernel-typed IP layout entries.
	MaxKernels = 128

	// MaxMemBanks bounds the number of memory topology entries and fixes
	// the width of the derived per-kernel bank bitmap.
	MaxMemBanks = 64

	// KernelNameLen is the fixed on-disk size of a kernel name field.
	// Names are NUL-terminated within it.
	KernelNameLen = 64

	// BankTagLen is the fixed on-disk size of a memory bank tag field.
	// Tags may occupy the full field without a NUL.
	BankTagLen = 16
)

type SectionType uint32

const (
	SectionBitstream      SectionType = 0x0001
	SectionIPLayout       SectionType = 0x0002
	SectionMemTopology    SectionType = 0x0003
	SectionConnectivity   SectionType = 0x0004
	SectionSystemMetadata SectionType = 0x0005
	SectionBuildMetadata  SectionType = 0x0006
)

func (t SectionType) String() string {
	switch t {
	case SectionBitstream:
		return "BITSTREAM"
	case SectionIPLayout:
		return "IP_LAYOUT"
	case SectionMemTopology:
		return "MEM_TOPOLOGY"
	case SectionConnectivity:
		return "CONNECTIVITY"
	case SectionSystemMetadata:
		return "SYSTEM_METADATA"
	case SectionBuildMetadata:
		return "BUILD_METADATA"
	}
	return "UNKNOWN"
}

// ParseSectionType is the inverse of String. It accepts a section name,
// case-insensitively, or a numeric type in decimal or 0x-prefixed hex.
func ParseSectionType(s string) (SectionType, bool) {
	if n, err := strconv.ParseUint(s, 0, 32); err == nil {
		return SectionType(n), true
	}
	switch strings.ToUpper(s) {
	case "BITSTREAM":
		return SectionBitstream, true
	case "IP_LAYOUT":
		return SectionIPLayout, true
	case "MEM_TOPOLOGY":
		return SectionMemTopology, true
	case "CONNECTIVITY":
		return SectionConnectivity, true
	case "SYSTEM_METADATA":
		return SectionSystemMetadata, true
	case "BUILD_METADATA":
		return SectionBuildMetadata, true
	}
	return 0, false
}

// Header is the fixed 48-byte container header at offset 0.
// All multi-byte fields are little-endian on disk.
type Header struct {
	Magic            [4]byte
	Major            uint16
	Minor            uint16
	HeaderSize       uint32
	SectionCount     uint32
	SectionDirOffset uint64
	ImageSize        uint64
	UUID             [16]byte
}

func (h *Header) Valid() bool {
	return string(h.Magic[:]) == MagicAXC
}

func (h *Header) Compatible() bool {
	return h.Major == CurrentMajor
}

// Section is one entry of the section directory: a typed, offset-addressed
// region of the container.
type Section struct {
	Type   uint32
	Offset uint64
	Size   uint64
}

func (s *Section) End() uint64 {
	return s.Offset + s.Size
}
