package axc

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// File is a parsed, validated view over a complete container image.
// It is read-only after Parse and safe for concurrent use.
type File struct {
	Data     []byte
	Header   *Header
	Sections []Section
	mmapped  bool
}

// Open maps an AXC container read-only and validates its structure.
// If mmap is unavailable, it falls back to ReadAt-based loading.
// The returned file must be closed to release any mapping.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size64 := stat.Size()
	if size64 < 0 {
		return nil, ErrTruncated
	}
	if size64 > int64(int(^uint(0)>>1)) {
		// cannot index this file safely as []byte on this architecture.
		return nil, fmt.Errorf("%w: image too large", ErrTruncated)
	}
	size := int(size64)
	if size < axcHeaderSize {
		return nil, ErrTruncated
	}

	// Prefer mmap where available for zero-copy section slices.
	data, err := unix.Mmap(
		int(f.Fd()),
		0,
		size,
		unix.PROT_READ,
		unix.MAP_SHARED,
	)
	if err == nil {
		af, parseErr := parseImage(data, true)
		if parseErr != nil {
			_ = unix.Munmap(data)
			return nil, parseErr
		}
		return af, nil
	}

	// Fallback path that does not require mmap support.
	data, err = readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	return parseImage(data, false)
}

// OpenReaderAt loads and validates a container from a random-access reader without mmap.
func OpenReaderAt(r io.ReaderAt, size int64) (*File, error) {
	if size < 0 || size > int64(int(^uint(0)>>1)) {
		return nil, ErrTruncated
	}
	data, err := readAllAt(r, int(size))
	if err != nil {
		return nil, err
	}
	return parseImage(data, false)
}

// Parse validates an in-memory container image. The buffer is retained by
// the returned File and must not be mutated while the File is in use; the
// File never mutates it.
func Parse(data []byte) (*File, error) {
	return parseImage(data, false)
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrTruncated
	}
	if size == 0 {
		return []byte{}, nil
	}
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

func parseImage(data []byte, mmapped bool) (*File, error) {
	if len(data) < axcHeaderSize {
		return nil, ErrTruncated
	}
	hdr, ok := decodeHeader(data[:axcHeaderSize])
	if !ok {
		return nil, ErrTruncated
	}
	if !hdr.Valid() {
		return nil, ErrInvalidMagic
	}
	if !hdr.Compatible() {
		return nil, fmt.Errorf("%w: found major %d, want %d", ErrUnsupportedMajor, hdr.Major, CurrentMajor)
	}

	// Basic header sanity. HeaderSize must at least cover the fixed header bytes.
	if hdr.HeaderSize < axcHeaderSize {
		return nil, fmt.Errorf("%w: header size %d below fixed header", ErrTruncated, hdr.HeaderSize)
	}
	if uint64(hdr.HeaderSize) > uint64(len(data)) {
		return nil, fmt.Errorf("%w: header size %d exceeds image", ErrTruncated, hdr.HeaderSize)
	}
	if hdr.ImageSize != uint64(len(data)) {
		return nil, fmt.Errorf("%w: image size %d, have %d bytes", ErrTruncated, hdr.ImageSize, len(data))
	}

	// Section directory bounds check
	dirSize, ok := mulUint64(uint64(hdr.SectionCount), axcSectionSize)
	if !ok {
		return nil, fmt.Errorf("%w: section directory size overflow", ErrTruncated)
	}
	dirStart := hdr.SectionDirOffset
	dirEnd := dirStart + dirSize

	if dirStart < uint64(hdr.HeaderSize) {
		return nil, fmt.Errorf("%w: section directory overlaps header", ErrTruncated)
	}
	if dirEnd < dirStart || dirEnd > uint64(len(data)) {
		return nil, fmt.Errorf("%w: section directory out of bounds", ErrTruncated)
	}

	// Copy and decode the section directory out of the image.
	sections := make([]Section, hdr.SectionCount)
	for i := range sections {
		start := int(dirStart) + i*axcSectionSize
		end := start + axcSectionSize
		sec, ok := decodeSection(data[start:end])
		if !ok {
			return nil, ErrTruncated
		}
		sections[i] = sec
	}

	// Validate section bounds and ensure payloads stay clear of the header
	// and the section directory.
	for i := range sections {
		s := &sections[i]

		// Overflow-safe end calculation
		if s.Size > uint64(len(data)) {
			return nil, fmt.Errorf("%w: section %d size out of range", ErrTruncated, i)
		}
		end := s.Offset + s.Size
		if end < s.Offset {
			return nil, fmt.Errorf("%w: section %d offset overflow", ErrTruncated, i)
		}
		if end > uint64(len(data)) {
			return nil, fmt.Errorf("%w: section %d out of bounds", ErrTruncated, i)
		}
		if s.Offset < uint64(hdr.HeaderSize) {
			return nil, fmt.Errorf("%w: section %d overlaps header", ErrTruncated, i)
		}
		if rangesOverlap(s.Offset, end, dirStart, dirEnd) {
			return nil, fmt.Errorf("%w: section %d overlaps section directory", ErrTruncated, i)
		}
	}

	return &File{
		Data:     data,
		Header:   &hdr,
		Sections: sections,
		mmapped:  mmapped,
	}, nil
}

func rangesOverlap(aStart, aEnd, bStart, bEnd uint64) bool {
	if aStart == aEnd || bStart == bEnd {
		return false
	}
	return aStart < bEnd && bStart < aEnd
}

// Close releases file resources and any mmap backing.
func (f *File) Close() error {
	if f == nil {
		return nil
	}
	if f.Data != nil {
		var err error
		if f.mmapped {
			err = unix.Munmap(f.Data)
		}
		f.Data = nil
		f.Header = nil
		f.Sections = nil
		f.mmapped = false
		return err
	}
	f.Header = nil
	f.Sections = nil
	f.mmapped = false
	return nil
}

// UUID returns the container identity from the header.
func (f *File) UUID() uuid.UUID {
	if f == nil || f.Header == nil {
		return uuid.UUID{}
	}
	return uuid.UUID(f.Header.UUID)
}

// Version returns the container's major and minor format version.
func (f *File) Version() (major, minor uint16) {
	if f == nil || f.Header == nil {
		return 0, 0
	}
	return f.Header.Major, f.Header.Minor
}

// Section returns the first section matching the given type, or nil if it does not exist.
func (f *File) Section(t SectionType) *Section {
	for i := range f.Sections {
		if SectionType(f.Sections[i].Type) == t {
			return &f.Sections[i]
		}
	}
	return nil
}

// SectionData returns a zero-copy slice covering the section payload.
// The caller must not retain this slice after File.Close().
func (f *File) SectionData(s *Section) []byte {
	if f == nil || s == nil || f.Data == nil {
		return nil
	}

	start := s.Offset
	end := s.Offset + s.Size

	if end < start || end > uint64(len(f.Data)) {
		return nil
	}

	// Safe because Open() rejects images that don't fit into an int-sized slice.
	return f.Data[int(start):int(end)]
}
