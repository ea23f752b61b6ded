package summary

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

var testUUID = uuid.MustParse("3f2504e0-4f89-41d3-9a0c-0305e82c3301")

func TestDocumentShape(t *testing.T) {
	t.Parallel()

	s := New(testUUID)
	s.AddFile("profile_kernels.csv", FileProfile)
	s.AddFile("timeline_trace.csv", FileTrace)
	s.AddFile("", FileProfile)            // nameless, dropped
	s.AddFile("mystery.bin", FileUnknown) // untyped, dropped
	s.SetSystemDiagram([]byte{0xde, 0xad, 0xbe, 0xef})

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if doc.SchemaVersion.Major != 1 || doc.SchemaVersion.Minor != 0 || doc.SchemaVersion.Patch != 0 {
		t.Fatalf("schema version: %+v", doc.SchemaVersion)
	}
	if doc.ContainerUUID != testUUID.String() {
		t.Fatalf("container uuid: got %q", doc.ContainerUUID)
	}
	if len(doc.Files) != 2 {
		t.Fatalf("files: %+v", doc.Files)
	}
	if doc.Files[0] != (FileRef{Name: "profile_kernels.csv", Type: "PROFILE"}) {
		t.Fatalf("first file: %+v", doc.Files[0])
	}
	if doc.Files[1].Type != "TRACE" {
		t.Fatalf("second file: %+v", doc.Files[1])
	}
	if doc.SystemDiagram == nil || doc.SystemDiagram.PayloadHex != "deadbeef" {
		t.Fatalf("system diagram: %+v", doc.SystemDiagram)
	}
}

func TestDocumentOmitsEmptyBlocks(t *testing.T) {
	t.Parallel()

	s := New(uuid.UUID{})
	s.SetSystemDiagram(nil)

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}

	out := buf.String()
	if bytes.Contains(buf.Bytes(), []byte("system_diagram")) {
		t.Fatalf("empty diagram serialized: %s", out)
	}
	if bytes.Contains(buf.Bytes(), []byte("container_uuid")) {
		t.Fatalf("zero uuid serialized: %s", out)
	}
	// files stays present even when empty.
	if !bytes.Contains(buf.Bytes(), []byte(`"files": []`)) {
		t.Fatalf("files array missing: %s", out)
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "image.run_summary")
	s := New(testUUID)
	s.AddFile("trace.csv", FileTrace)

	if err := s.WriteFile(path); err != nil {
		t.Fatalf("write file: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Files) != 1 || doc.Files[0].Name != "trace.csv" {
		t.Fatalf("files: %+v", doc.Files)
	}
	if raw[len(raw)-1] != '\n' {
		t.Fatalf("missing trailing newline")
	}
}

func TestDefaultPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "axc extension", in: "image.axc", want: "image.run_summary"},
		{name: "no extension", in: "image", want: "image.run_summary"},
		{name: "nested path", in: "out/build/net.axc", want: "out/build/net.run_summary"},
		{name: "dotted name", in: "net.v2.axc", want: "net.v2.run_summary"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := DefaultPath(tc.in); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
