// Package summary builds the run-summary document that accompanies the
// artifacts produced while working with one container: a small JSON file
// that downstream viewers read to find the profile and trace outputs and
// the container's system diagram payload.
package summary

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/quayside/gantry/pkg/axc"
)

// FileType classifies an artifact referenced by the summary.
type FileType uint8

const (
	FileUnknown FileType = iota
	FileProfile
	FileTrace
)

func (t FileType) String() string {
	switch t {
	case FileProfile:
		return "PROFILE"
	case FileTrace:
		return "TRACE"
	}
	return "UNKNOWN"
}

// SchemaVersion identifies the document schema, not the container format.
type SchemaVersion struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// FileRef names one artifact and its type.
type FileRef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// SystemDiagram carries the container's SYSTEM_METADATA payload as lowercase
// hex, so the document stays valid JSON whatever the payload holds.
type SystemDiagram struct {
	PayloadHex string `json:"payload_hex"`
}

// Document is the serialized shape of a run summary.
type Document struct {
	SchemaVersion SchemaVersion  `json:"schema_version"`
	ContainerUUID string         `json:"container_uuid,omitempty"`
	Files         []FileRef      `json:"files"`
	SystemDiagram *SystemDiagram `json:"system_diagram,omitempty"`
}

// Summary accumulates run artifacts for one container and writes the
// document. The zero value is not useful; use New.
type Summary struct {
	uuid    uuid.UUID
	files   []FileRef
	diagram string
}

func New(id uuid.UUID) *Summary {
	return &Summary{uuid: id}
}

// AddFile records an artifact. Entries without a name or with an unknown
// type are dropped rather than emitted half-described.
func (s *Summary) AddFile(name string, t FileType) {
	if name == "" || t == FileUnknown {
		return
	}
	s.files = append(s.files, FileRef{Name: name, Type: t.String()})
}

// SetSystemDiagram stores the raw SYSTEM_METADATA payload. An empty payload
// leaves the document without a system_diagram block.
func (s *Summary) SetSystemDiagram(payload []byte) {
	s.diagram = axc.HexEncode(payload)
}

// Document renders the current state. Files is always present, empty or not,
// so consumers can range over it without a nil check.
func (s *Summary) Document() Document {
	doc := Document{
		SchemaVersion: SchemaVersion{Major: 1, Minor: 0, Patch: 0},
		Files:         s.files,
	}
	if doc.Files == nil {
		doc.Files = []FileRef{}
	}
	if s.uuid != (uuid.UUID{}) {
		doc.ContainerUUID = s.uuid.String()
	}
	if s.diagram != "" {
		doc.SystemDiagram = &SystemDiagram{PayloadHex: s.diagram}
	}
	return doc
}

// WriteTo writes the document as indented JSON with a trailing newline.
func (s *Summary) WriteTo(w io.Writer) (int64, error) {
	buf, err := json.MarshalIndent(s.Document(), "", "  ")
	if err != nil {
		return 0, err
	}
	buf = append(buf, '\n')
	n, err := w.Write(buf)
	return int64(n), err
}

// WriteFile writes the document to path, replacing any previous summary.
func (s *Summary) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write run summary: %w", err)
	}
	if _, err := s.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write run summary: %w", err)
	}
	return f.Close()
}

// DefaultPath places the summary next to the container: the container file
// name with its extension replaced by ".run_summary".
func DefaultPath(containerPath string) string {
	base := strings.TrimSuffix(containerPath, filepath.Ext(containerPath))
	return base + ".run_summary"
}
