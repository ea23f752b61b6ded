package axc

import (
	"encoding/binary"
	"fmt"
)

const (
	ipLayoutHeaderSize = 4
	ipRecordSize       = 76
)

// IPKind is the on-disk type tag of an IP layout entry.
type IPKind uint32

const (
	IPProcessor     IPKind = 0
	IPKernel        IPKind = 1
	IPDDRController IPKind = 2
	IPDMAEngine     IPKind = 3
)

// Kernel describes one instantiated compute kernel. Its identity is its
// position in the decoded sequence; non-kernel IP entries never consume a
// position.
type Kernel struct {
	Name     string
	BaseAddr uint64
}

// IPLayout is the decoded IP_LAYOUT section: the kernel-typed entries in
// source order. All data is copied out of the section buffer.
type IPLayout struct {
	entries int
	kernels []Kernel
}

// ParseIPLayoutSection decodes an IP_LAYOUT section payload.
// Pass it File.SectionData(File.Section(SectionIPLayout)).
func ParseIPLayoutSection(sec []byte) (*IPLayout, error) {
	if len(sec) < ipLayoutHeaderSize {
		return nil, fmt.Errorf("%w: ip_layout shorter than entry count", ErrTruncated)
	}
	count := binary.LittleEndian.Uint32(sec[0:4])

	recBytes, ok := mulUint64(uint64(count), ipRecordSize)
	if !ok {
		return nil, fmt.Errorf("%w: ip_layout entry count overflow", ErrTruncated)
	}
	need := uint64(ipLayoutHeaderSize) + recBytes
	if need > uint64(len(sec)) {
		return nil, fmt.Errorf("%w: ip_layout declares %d entries, section holds %d bytes", ErrTruncated, count, len(sec))
	}

	var kernels []Kernel
	off := ipLayoutHeaderSize
	for i := 0; i < int(count); i++ {
		kind := IPKind(binary.LittleEndian.Uint32(sec[off : off+4]))
		if kind != IPKernel {
			// Other IP types (processors, controllers) do not occupy a
			// kernel index.
			off += ipRecordSize
			continue
		}
		if len(kernels) == MaxKernels {
			return nil, fmt.Errorf("%w: ip_layout holds more than %d kernels", ErrCapacityExceeded, MaxKernels)
		}
		name, ok := cString(sec[off+4 : off+4+KernelNameLen])
		if !ok {
			return nil, fmt.Errorf("%w: ip_layout entry %d: kernel name not NUL-terminated", ErrMalformedRecord, i)
		}
		kernels = append(kernels, Kernel{
			Name:     name,
			BaseAddr: binary.LittleEndian.Uint64(sec[off+4+KernelNameLen : off+ipRecordSize]),
		})
		off += ipRecordSize
	}

	return &IPLayout{entries: int(count), kernels: kernels}, nil
}

// Entries returns the total number of IP entries in the section, kernels or not.
func (l *IPLayout) Entries() int {
	if l == nil {
		return 0
	}
	return l.entries
}

// Count returns the number of kernel-typed entries.
func (l *IPLayout) Count() int {
	if l == nil {
		return 0
	}
	return len(l.kernels)
}

func (l *IPLayout) Kernel(i int) (Kernel, error) {
	if l == nil || i < 0 || i >= len(l.kernels) {
		return Kernel{}, fmt.Errorf("%w: kernel index %d out of range", ErrMalformedRecord, i)
	}
	return l.kernels[i], nil
}

// Kernels returns the decoded kernel sequence in source order.
func (l *IPLayout) Kernels() []Kernel {
	if l == nil {
		return nil
	}
	return l.kernels
}
