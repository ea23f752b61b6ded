package axc

import (
	"encoding/binary"
	"testing"

	"github.com/google/uuid"
)

// Shared builders for synthetic container images. Sections are packed
// back-to-back after the directory, the way production packers lay them out.

type imageSection struct {
	typ     SectionType
	payload []byte
}

func buildImage(t *testing.T, id uuid.UUID, secs ...imageSection) []byte {
	t.Helper()

	dirOff := uint64(axcHeaderSize)
	off := dirOff + uint64(len(secs)*axcSectionSize)

	entries := make([]Section, len(secs))
	for i, s := range secs {
		entries[i] = Section{
			Type:   uint32(s.typ),
			Offset: off,
			Size:   uint64(len(s.payload)),
		}
		off += uint64(len(s.payload))
	}

	img := make([]byte, off)
	hdr := Header{
		Magic:            [4]byte{'A', 'X', 'C', 0},
		Major:            CurrentMajor,
		Minor:            CurrentMinor,
		HeaderSize:       axcHeaderSize,
		SectionCount:     uint32(len(secs)),
		SectionDirOffset: dirOff,
		ImageSize:        off,
		UUID:             [16]byte(id),
	}
	if !encodeHeader(img[:axcHeaderSize], hdr) {
		t.Fatalf("encode header failed")
	}
	for i := range entries {
		start := int(dirOff) + i*axcSectionSize
		if !encodeSection(img[start:start+axcSectionSize], entries[i]) {
			t.Fatalf("encode section %d failed", i)
		}
	}
	for i, s := range secs {
		copy(img[entries[i].Offset:], s.payload)
	}
	return img
}

type ipEntry struct {
	kind IPKind
	name []byte
	base uint64
}

func kernelEntry(name string, base uint64) ipEntry {
	return ipEntry{kind: IPKernel, name: []byte(name), base: base}
}

func ipLayoutPayload(entries ...ipEntry) []byte {
	out := make([]byte, ipLayoutHeaderSize+len(entries)*ipRecordSize)
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(entries)))
	off := ipLayoutHeaderSize
	for _, e := range entries {
		binary.LittleEndian.PutUint32(out[off:off+4], uint32(e.kind))
		copy(out[off+4:off+4+KernelNameLen], e.name)
		binary.LittleEndian.PutUint64(out[off+4+KernelNameLen:off+ipRecordSize], e.base)
		off += ipRecordSize
	}
	return out
}

func memTopologyPayload(banks ...Bank) []byte {
	out := make([]byte, memTopologyHeaderSize+len(banks)*memRecordSize)
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(banks)))
	off := memTopologyHeaderSize
	for _, b := range banks {
		out[off] = byte(b.Kind)
		if b.Used {
			out[off+1] = 1
		}
		binary.LittleEndian.PutUint64(out[off+2:off+10], b.Size)
		binary.LittleEndian.PutUint64(out[off+10:off+18], b.BaseAddr)
		copy(out[off+18:off+18+BankTagLen], b.Tag)
		off += memRecordSize
	}
	return out
}

func connectivityPayload(conns ...Connection) []byte {
	out := make([]byte, connectivityHeaderSize+len(conns)*connRecordSize)
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(conns)))
	off := connectivityHeaderSize
	for _, c := range conns {
		binary.LittleEndian.PutUint32(out[off:off+4], uint32(c.ArgIndex))
		binary.LittleEndian.PutUint32(out[off+4:off+8], uint32(c.KernelIndex))
		binary.LittleEndian.PutUint32(out[off+8:off+12], uint32(c.BankIndex))
		off += connRecordSize
	}
	return out
}
