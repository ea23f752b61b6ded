package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/quayside/gantry/pkg/axc"
)

// ContainerInfo describes the loaded container header.
type ContainerInfo struct {
	Path         string      `json:"path,omitempty"`
	UUID         string      `json:"uuid"`
	Version      VersionInfo `json:"version"`
	ImageSize    uint64      `json:"image_size"`
	SectionCount int         `json:"section_count"`
}

type VersionInfo struct {
	Major uint16 `json:"major"`
	Minor uint16 `json:"minor"`
}

// SectionInfo is one section directory entry.
type SectionInfo struct {
	Type     uint32 `json:"type"`
	TypeName string `json:"type_name"`
	Offset   uint64 `json:"offset"`
	Size     uint64 `json:"size"`
}

// SectionDump is a section entry together with its raw payload in hex.
type SectionDump struct {
	SectionInfo
	PayloadHex string `json:"payload_hex"`
}

func (s *Server) handleContainer(c *echo.Context) error {
	major, minor := s.file.Version()
	return c.JSON(http.StatusOK, ContainerInfo{
		Path:         s.path,
		UUID:         s.file.UUID().String(),
		Version:      VersionInfo{Major: major, Minor: minor},
		ImageSize:    s.file.Header.ImageSize,
		SectionCount: len(s.file.Sections),
	})
}

func (s *Server) handleListSections(c *echo.Context) error {
	infos := make([]SectionInfo, 0, len(s.file.Sections))
	for i := range s.file.Sections {
		infos = append(infos, sectionInfo(&s.file.Sections[i]))
	}
	return c.JSON(http.StatusOK, infos)
}

func (s *Server) handleGetSection(c *echo.Context) error {
	arg := c.Param("type")
	t, ok := axc.ParseSectionType(arg)
	if !ok {
		return writeBadRequest(c, fmt.Sprintf("unknown section type %q", arg))
	}
	sec := s.file.Section(t)
	if sec == nil {
		return writeNotFound(c, fmt.Sprintf("container has no %s section", t))
	}
	return c.JSON(http.StatusOK, SectionDump{
		SectionInfo: sectionInfo(sec),
		PayloadHex:  axc.HexEncode(s.file.SectionData(sec)),
	})
}

func sectionInfo(sec *axc.Section) SectionInfo {
	return SectionInfo{
		Type:     sec.Type,
		TypeName: axc.SectionType(sec.Type).String(),
		Offset:   sec.Offset,
		Size:     sec.Size,
	}
}
