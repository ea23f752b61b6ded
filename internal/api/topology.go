package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/quayside/gantry/internal/summary"
	"github.com/quayside/gantry/pkg/axc"
)

// TopologyResponse is the derived kernel/memory model of the container.
type TopologyResponse struct {
	UUID        string           `json:"uuid"`
	Kernels     []KernelInfo     `json:"kernels"`
	Banks       []BankInfo       `json:"banks"`
	Connections []ConnectionInfo `json:"connections"`
}

type KernelInfo struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	BaseAddr uint64 `json:"base_addr"`
	Mask     uint64 `json:"mask"`
	Banks    []int  `json:"banks,omitempty"`
}

type BankInfo struct {
	Index    int    `json:"index"`
	Kind     string `json:"kind"`
	Used     bool   `json:"used"`
	Size     uint64 `json:"size"`
	BaseAddr uint64 `json:"base_addr"`
	Tag      string `json:"tag,omitempty"`
}

type ConnectionInfo struct {
	ArgIndex    int32 `json:"arg_index"`
	KernelIndex int32 `json:"kernel_index"`
	BankIndex   int32 `json:"bank_index"`
}

func (s *Server) handleTopology(c *echo.Context) error {
	if s.model == nil {
		if errors.Is(s.modelErr, axc.ErrSectionNotFound) {
			return writeNotFound(c, s.modelErr.Error())
		}
		return writeError(c, http.StatusUnprocessableEntity, "decode_error", s.modelErr.Error(), "", "")
	}

	resp := TopologyResponse{
		UUID:        s.model.UUID.String(),
		Kernels:     make([]KernelInfo, 0, len(s.model.Kernels)),
		Banks:       make([]BankInfo, 0, len(s.model.Banks)),
		Connections: make([]ConnectionInfo, 0, len(s.model.Connections)),
	}
	for i, k := range s.model.Kernels {
		mask := s.model.Mask(i)
		resp.Kernels = append(resp.Kernels, KernelInfo{
			Index:    i,
			Name:     k.Name,
			BaseAddr: k.BaseAddr,
			Mask:     uint64(mask),
			Banks:    mask.Banks(),
		})
	}
	for i, b := range s.model.Banks {
		resp.Banks = append(resp.Banks, BankInfo{
			Index:    i,
			Kind:     b.Kind.String(),
			Used:     b.Used,
			Size:     b.Size,
			BaseAddr: b.BaseAddr,
			Tag:      b.Tag,
		})
	}
	for _, conn := range s.model.Connections {
		resp.Connections = append(resp.Connections, ConnectionInfo{
			ArgIndex:    conn.ArgIndex,
			KernelIndex: conn.KernelIndex,
			BankIndex:   conn.BankIndex,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSummary(c *echo.Context) error {
	sum := summary.New(s.file.UUID())
	if payload, ok := s.file.RawSection(axc.SectionSystemMetadata); ok {
		sum.SetSystemDiagram(payload)
	}
	return c.JSON(http.StatusOK, sum.Document())
}
