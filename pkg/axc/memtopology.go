package axc

import (
	"encoding/binary"
	"fmt"
)

const (
	memTopologyHeaderSize = 4
	memRecordSize         = 34
)

// BankKind is the on-disk type tag of a memory bank.
type BankKind uint8

const (
	BankDDR    BankKind = 0
	BankHBM    BankKind = 1
	BankSRAM   BankKind = 2
	BankStream BankKind = 3
)

func (k BankKind) String() string {
	switch k {
	case BankDDR:
		return "DDR"
	case BankHBM:
		return "HBM"
	case BankSRAM:
		return "SRAM"
	case BankStream:
		return "STREAM"
	}
	return "UNKNOWN"
}

// Bank describes one device memory bank. Its identity is its position in
// the decoded sequence; every entry keeps its position regardless of kind
// or in-use flag.
type Bank struct {
	Kind     BankKind
	Used     bool
	Size     uint64
	BaseAddr uint64
	Tag      string
}

// MemTopology is the decoded MEM_TOPOLOGY section: every bank entry,
// verbatim, in source order. All data is copied out of the section buffer.
type MemTopology struct {
	banks []Bank
}

// ParseMemTopologySection decodes a MEM_TOPOLOGY section payload.
// Pass it File.SectionData(File.Section(SectionMemTopology)).
func ParseMemTopologySection(sec []byte) (*MemTopology, error) {
	if len(sec) < memTopologyHeaderSize {
		return nil, fmt.Errorf("%w: mem_topology shorter than entry count", ErrTruncated)
	}
	count := binary.LittleEndian.Uint32(sec[0:4])

	// The ceiling is checked before any record is read: the derived bank
	// bitmap is fixed-width, so an oversized topology can never be valid.
	if uint64(count) > MaxMemBanks {
		return nil, fmt.Errorf("%w: mem_topology declares %d banks, max %d", ErrCapacityExceeded, count, MaxMemBanks)
	}

	need := uint64(memTopologyHeaderSize) + uint64(count)*memRecordSize
	if need > uint64(len(sec)) {
		return nil, fmt.Errorf("%w: mem_topology declares %d banks, section holds %d bytes", ErrTruncated, count, len(sec))
	}

	banks := make([]Bank, 0, count)
	off := memTopologyHeaderSize
	for i := 0; i < int(count); i++ {
		banks = append(banks, Bank{
			Kind:     BankKind(sec[off]),
			Used:     sec[off+1] != 0,
			Size:     binary.LittleEndian.Uint64(sec[off+2 : off+10]),
			BaseAddr: binary.LittleEndian.Uint64(sec[off+10 : off+18]),
			Tag:      tagString(sec[off+18 : off+18+BankTagLen]),
		})
		off += memRecordSize
	}

	return &MemTopology{banks: banks}, nil
}

// Count returns the number of bank entries.
func (m *MemTopology) Count() int {
	if m == nil {
		return 0
	}
	return len(m.banks)
}

func (m *MemTopology) Bank(i int) (Bank, error) {
	if m == nil || i < 0 || i >= len(m.banks) {
		return Bank{}, fmt.Errorf("%w: bank index %d out of range", ErrMalformedRecord, i)
	}
	return m.banks[i], nil
}

// Banks returns the decoded bank sequence in source order.
func (m *MemTopology) Banks() []Bank {
	if m == nil {
		return nil
	}
	return m.banks
}
