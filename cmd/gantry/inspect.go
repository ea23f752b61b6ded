package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/quayside/gantry/pkg/axc"
	"github.com/quayside/gantry/pkg/topology"
)

func inspectCmd() *cli.Command {
	var (
		showAll      bool
		showSections bool
		showTopology bool
		showConns    bool
		rawType      string
		asJSON       bool
	)

	return &cli.Command{
		Name:  "inspect",
		Usage: "Inspect the contents of an .axc accelerator container",
		Flags: append(containerFlags(),
			&cli.BoolFlag{Name: "all", Usage: "show all sections and derived state", Destination: &showAll},
			&cli.BoolFlag{Name: "sections", Usage: "show section directory", Destination: &showSections},
			&cli.BoolFlag{Name: "topology", Usage: "show kernels, memory banks and derived bank masks", Destination: &showTopology},
			&cli.BoolFlag{Name: "connections", Usage: "show raw connectivity records", Destination: &showConns},
			&cli.StringFlag{Name: "raw", Usage: "hex-dump one section payload (name or numeric type)", Destination: &rawType},
			&cli.BoolFlag{Name: "json", Usage: "emit a JSON document instead of text", Destination: &asJSON},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			_ = ctx
			cfg := LoadConfig()
			applyLoggingConfig(c, cfg)

			if showAll {
				showSections = true
				showTopology = true
				showConns = true
			}

			path, err := resolveContainerPath(containerPath, cfg.DefaultContainer)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			containerPath = path
			stat, err := os.Stat(containerPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: stat container path %q: %v", containerPath, err), 1)
			}

			f, err := axc.Open(containerPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open container: %v", err), 1)
			}
			defer func() { _ = f.Close() }()

			if rawType != "" {
				return dumpRawSection(f, rawType)
			}
			if asJSON {
				return writeInspectJSON(f, showTopology)
			}

			fmt.Printf("AXC Inspect: %s\n", containerPath)
			fmt.Printf("File: %s (%s)\n", filepath.Base(containerPath), formatBytes(uint64(stat.Size())))
			printHeader(f)

			if showSections {
				printSections(f)
			}
			if showTopology {
				if err := printTopology(f); err != nil {
					return cli.Exit(fmt.Sprintf("error: derive topology: %v", err), 1)
				}
			}
			if showConns {
				if err := printConnections(f); err != nil {
					return cli.Exit(fmt.Sprintf("error: decode connectivity: %v", err), 1)
				}
			}
			return nil
		},
	}
}

func printHeader(f *axc.File) {
	h := f.Header
	if h == nil {
		return
	}
	fmt.Printf("AXC Header: v%d.%d sections=%d header=%dB uuid=%s\n",
		h.Major, h.Minor, h.SectionCount, h.HeaderSize, f.UUID())
}

func printSections(f *axc.File) {
	section("Sections")
	fmt.Printf("%-4s %-18s %-12s %s\n", "idx", "type", "offset", "size")
	for i, s := range f.Sections {
		fmt.Printf("%-4d %-18s %-12d %s\n",
			i, axc.SectionType(s.Type), s.Offset, formatBytes(s.Size))
	}
}

func printTopology(f *axc.File) error {
	model, err := topology.FromContainer(f)
	if err != nil {
		return err
	}

	section("Kernels")
	fmt.Printf("%-4s %-32s %-18s %-18s %s\n", "idx", "name", "base_addr", "mask", "banks")
	for i, k := range model.Kernels {
		mask := model.Mask(i)
		fmt.Printf("%-4d %-32s %#-18x %#-18x %s\n",
			i, k.Name, k.BaseAddr, uint64(mask), formatBankList(mask.Banks()))
	}

	section("Memory Banks")
	fmt.Printf("%-4s %-8s %-6s %-12s %-18s %s\n", "idx", "kind", "used", "size", "base_addr", "tag")
	for i, b := range model.Banks {
		fmt.Printf("%-4d %-8s %-6t %-12s %#-18x %s\n",
			i, b.Kind, b.Used, formatBytes(b.Size), b.BaseAddr, b.Tag)
	}
	return nil
}

func printConnections(f *axc.File) error {
	section("Connectivity")
	data, ok := f.RawSection(axc.SectionConnectivity)
	if !ok {
		fmt.Println("(no CONNECTIVITY section)")
		return nil
	}
	conns, err := axc.ParseConnectivitySection(data)
	if err != nil {
		return err
	}
	fmt.Printf("%-4s %-8s %-8s %s\n", "idx", "kernel", "arg", "bank")
	for i, c := range conns.Connections() {
		fmt.Printf("%-4d %-8d %-8d %d\n", i, c.KernelIndex, c.ArgIndex, c.BankIndex)
	}
	return nil
}

func dumpRawSection(f *axc.File, arg string) error {
	t, ok := axc.ParseSectionType(arg)
	if !ok {
		return cli.Exit(fmt.Sprintf("error: unknown section type %q", arg), 1)
	}
	payload, ok := f.RawSection(t)
	if !ok {
		return cli.Exit(fmt.Sprintf("error: container has no %s section", t), 1)
	}
	fmt.Println(axc.HexEncode(payload))
	return nil
}

// inspectDoc is the --json rendering of a container.
type inspectDoc struct {
	Path     string           `json:"path"`
	UUID     string           `json:"uuid"`
	Version  string           `json:"version"`
	Sections []inspectSection `json:"sections"`
	Topology *inspectTopology `json:"topology,omitempty"`
}

type inspectSection struct {
	Type     uint32 `json:"type"`
	TypeName string `json:"type_name"`
	Offset   uint64 `json:"offset"`
	Size     uint64 `json:"size"`
}

type inspectTopology struct {
	Kernels []inspectKernel `json:"kernels"`
	Banks   []inspectBank   `json:"banks"`
}

type inspectKernel struct {
	Name     string `json:"name"`
	BaseAddr uint64 `json:"base_addr"`
	Mask     uint64 `json:"mask"`
	Banks    []int  `json:"banks,omitempty"`
}

type inspectBank struct {
	Kind     string `json:"kind"`
	Used     bool   `json:"used"`
	Size     uint64 `json:"size"`
	BaseAddr uint64 `json:"base_addr"`
	Tag      string `json:"tag,omitempty"`
}

func writeInspectJSON(f *axc.File, withTopology bool) error {
	major, minor := f.Version()
	doc := inspectDoc{
		Path:     containerPath,
		UUID:     f.UUID().String(),
		Version:  fmt.Sprintf("%d.%d", major, minor),
		Sections: make([]inspectSection, 0, len(f.Sections)),
	}
	for _, s := range f.Sections {
		doc.Sections = append(doc.Sections, inspectSection{
			Type:     s.Type,
			TypeName: axc.SectionType(s.Type).String(),
			Offset:   s.Offset,
			Size:     s.Size,
		})
	}
	if withTopology {
		model, err := topology.FromContainer(f)
		if err != nil {
			return cli.Exit(fmt.Sprintf("error: derive topology: %v", err), 1)
		}
		top := &inspectTopology{
			Kernels: make([]inspectKernel, 0, len(model.Kernels)),
			Banks:   make([]inspectBank, 0, len(model.Banks)),
		}
		for i, k := range model.Kernels {
			mask := model.Mask(i)
			top.Kernels = append(top.Kernels, inspectKernel{
				Name:     k.Name,
				BaseAddr: k.BaseAddr,
				Mask:     uint64(mask),
				Banks:    mask.Banks(),
			})
		}
		for _, b := range model.Banks {
			top.Banks = append(top.Banks, inspectBank{
				Kind:     b.Kind.String(),
				Used:     b.Used,
				Size:     b.Size,
				BaseAddr: b.BaseAddr,
				Tag:      b.Tag,
			})
		}
		doc.Topology = top
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func section(title string) {
	line := strings.Repeat("-", len(title)+8)
	fmt.Printf("\n%s\n--- %s ---\n%s\n", line, title, line)
}

func formatBankList(banks []int) string {
	if len(banks) == 0 {
		return "-"
	}
	parts := make([]string, len(banks))
	for i, b := range banks {
		parts[i] = fmt.Sprintf("%d", b)
	}
	return strings.Join(parts, ",")
}

func formatBytes(b uint64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
		tb = 1024 * gb
	)
	switch {
	case b >= tb:
		return fmt.Sprintf("%.2f TiB", float64(b)/float64(tb))
	case b >= gb:
		return fmt.Sprintf("%.2f GiB", float64(b)/float64(gb))
	case b >= mb:
		return fmt.Sprintf("%.2f MiB", float64(b)/float64(mb))
	case b >= kb:
		return fmt.Sprintf("%.2f KiB", float64(b)/float64(kb))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
