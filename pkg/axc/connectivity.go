package axc

import (
	"encoding/binary"
	"fmt"
)

const (
	connectivityHeaderSize = 4
	connRecordSize         = 12
)

// Connection is one wiring fact: the given argument of the given kernel is
// wired to the given memory bank. Indices reference positions in the decoded
// kernel and bank sequences; the decoder does not verify they exist, the
// topology builder decides what dangling references mean.
type Connection struct {
	ArgIndex    int32
	KernelIndex int32
	BankIndex   int32
}

// Connectivity is the decoded CONNECTIVITY section in source order.
type Connectivity struct {
	conns []Connection
}

// ParseConnectivitySection decodes a CONNECTIVITY section payload.
// Pass it File.SectionData(File.Section(SectionConnectivity)).
func ParseConnectivitySection(sec []byte) (*Connectivity, error) {
	if len(sec) < connectivityHeaderSize {
		return nil, fmt.Errorf("%w: connectivity shorter than entry count", ErrTruncated)
	}
	count := binary.LittleEndian.Uint32(sec[0:4])

	recBytes, ok := mulUint64(uint64(count), connRecordSize)
	if !ok {
		return nil, fmt.Errorf("%w: connectivity entry count overflow", ErrTruncated)
	}
	need := uint64(connectivityHeaderSize) + recBytes
	if need > uint64(len(sec)) {
		return nil, fmt.Errorf("%w: connectivity declares %d entries, section holds %d bytes", ErrTruncated, count, len(sec))
	}

	conns := make([]Connection, 0, count)
	off := connectivityHeaderSize
	for i := 0; i < int(count); i++ {
		conns = append(conns, Connection{
			ArgIndex:    int32(binary.LittleEndian.Uint32(sec[off : off+4])),
			KernelIndex: int32(binary.LittleEndian.Uint32(sec[off+4 : off+8])),
			BankIndex:   int32(binary.LittleEndian.Uint32(sec[off+8 : off+12])),
		})
		off += connRecordSize
	}

	return &Connectivity{conns: conns}, nil
}

// Count returns the number of connection records.
func (c *Connectivity) Count() int {
	if c == nil {
		return 0
	}
	return len(c.conns)
}

func (c *Connectivity) Record(i int) (Connection, error) {
	if c == nil || i < 0 || i >= len(c.conns) {
		return Connection{}, fmt.Errorf("%w: connection index %d out of range", ErrMalformedRecord, i)
	}
	return c.conns[i], nil
}

// Connections returns the decoded records in source order.
func (c *Connectivity) Connections() []Connection {
	if c == nil {
		return nil
	}
	return c.conns
}
