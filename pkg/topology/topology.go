// Package topology builds the validated in-memory model of an accelerator
// container: the decoded kernel and memory bank sequences, the raw
// connectivity records, and the derived per-kernel bank accessibility
// bitmap the runtime uses to route buffers.
package topology

import (
	"fmt"
	"math/bits"

	"github.com/google/uuid"
	"github.com/quayside/gantry/pkg/axc"
)

// AccessMask is a fixed-width bitmap over memory bank indices. Bit i is set
// when some connection record links the kernel to bank i. Its width is
// axc.MaxMemBanks.
type AccessMask uint64

// Has reports whether the kernel can reach the given bank.
func (m AccessMask) Has(bank int) bool {
	if bank < 0 || bank >= axc.MaxMemBanks {
		return false
	}
	return m&(1<<uint(bank)) != 0
}

// First returns the lowest accessible bank index. This is the default
// routing rule: a buffer whose argument does not pin a bank goes to the
// first bank its kernel can reach.
func (m AccessMask) First() (int, bool) {
	if m == 0 {
		return 0, false
	}
	return bits.TrailingZeros64(uint64(m)), true
}

// Count returns the number of accessible banks.
func (m AccessMask) Count() int {
	return bits.OnesCount64(uint64(m))
}

// Banks returns the accessible bank indices in ascending order.
func (m AccessMask) Banks() []int {
	if m == 0 {
		return nil
	}
	out := make([]int, 0, m.Count())
	for b := 0; b < axc.MaxMemBanks; b++ {
		if m&(1<<uint(b)) != 0 {
			out = append(out, b)
		}
	}
	return out
}

// Model is the decoded and derived view of one container. It is built once
// and never mutated; it shares no memory with the container buffer, so the
// buffer may be released as soon as the build returns.
type Model struct {
	UUID        uuid.UUID
	Kernels     []axc.Kernel
	Banks       []axc.Bank
	Connections []axc.Connection

	// Masks holds one AccessMask per kernel, index-aligned with Kernels.
	Masks []AccessMask
}

// Build assembles a model from decoded sequences. The capacity ceilings are
// re-checked because inputs may be built by hand rather than decoded.
//
// Connection records with a kernel index outside the decoded kernel range,
// or a bank index outside the bitmap width, contribute nothing to the masks
// but stay visible in Connections for auditing. Empty inputs are fine.
func Build(kernels []axc.Kernel, banks []axc.Bank, conns []axc.Connection, id uuid.UUID) (*Model, error) {
	if len(kernels) > axc.MaxKernels {
		return nil, fmt.Errorf("%w: %d kernels, max %d", axc.ErrCapacityExceeded, len(kernels), axc.MaxKernels)
	}
	if len(banks) > axc.MaxMemBanks {
		return nil, fmt.Errorf("%w: %d banks, max %d", axc.ErrCapacityExceeded, len(banks), axc.MaxMemBanks)
	}

	masks := make([]AccessMask, len(kernels))
	for _, c := range conns {
		if c.KernelIndex < 0 || int(c.KernelIndex) >= len(kernels) {
			continue
		}
		// The bank bound is the bitmap width, not the decoded bank count.
		if c.BankIndex < 0 || int(c.BankIndex) >= axc.MaxMemBanks {
			continue
		}
		masks[c.KernelIndex] |= 1 << uint(c.BankIndex)
	}

	return &Model{
		UUID:        id,
		Kernels:     append([]axc.Kernel(nil), kernels...),
		Banks:       append([]axc.Bank(nil), banks...),
		Connections: append([]axc.Connection(nil), conns...),
		Masks:       masks,
	}, nil
}

// FromContainer locates and decodes the three metadata sections of a parsed
// container and builds the model. All three are required; the first missing
// one aborts the build.
func FromContainer(f *axc.File) (*Model, error) {
	ipSec := f.Section(axc.SectionIPLayout)
	if ipSec == nil {
		return nil, fmt.Errorf("%w: IP_LAYOUT", axc.ErrSectionNotFound)
	}
	layout, err := axc.ParseIPLayoutSection(f.SectionData(ipSec))
	if err != nil {
		return nil, fmt.Errorf("ip_layout: %w", err)
	}

	memSec := f.Section(axc.SectionMemTopology)
	if memSec == nil {
		return nil, fmt.Errorf("%w: MEM_TOPOLOGY", axc.ErrSectionNotFound)
	}
	mem, err := axc.ParseMemTopologySection(f.SectionData(memSec))
	if err != nil {
		return nil, fmt.Errorf("mem_topology: %w", err)
	}

	connSec := f.Section(axc.SectionConnectivity)
	if connSec == nil {
		return nil, fmt.Errorf("%w: CONNECTIVITY", axc.ErrSectionNotFound)
	}
	conns, err := axc.ParseConnectivitySection(f.SectionData(connSec))
	if err != nil {
		return nil, fmt.Errorf("connectivity: %w", err)
	}

	return Build(layout.Kernels(), mem.Banks(), conns.Connections(), f.UUID())
}

// Mask returns the accessibility bitmap for a kernel index, zero when the
// index is out of range.
func (m *Model) Mask(kernel int) AccessMask {
	if m == nil || kernel < 0 || kernel >= len(m.Masks) {
		return 0
	}
	return m.Masks[kernel]
}

// KernelIndex finds a kernel by name and returns its index.
func (m *Model) KernelIndex(name string) (int, bool) {
	if m == nil {
		return 0, false
	}
	for i := range m.Kernels {
		if m.Kernels[i].Name == name {
			return i, true
		}
	}
	return 0, false
}
