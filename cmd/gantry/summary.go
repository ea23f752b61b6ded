package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/quayside/gantry/internal/summary"
	"github.com/quayside/gantry/pkg/axc"
)

func summaryCmd() *cli.Command {
	var (
		outPath  string
		profiles []string
		traces   []string
	)

	return &cli.Command{
		Name:  "summary",
		Usage: "Write a run summary document for an .axc container",
		Flags: append(containerFlags(),
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output path (default: container path with a .run_summary extension)",
				Destination: &outPath,
			},
			&cli.StringSliceFlag{
				Name:        "profile",
				Usage:       "profile report to reference (repeatable)",
				Destination: &profiles,
			},
			&cli.StringSliceFlag{
				Name:        "trace",
				Usage:       "trace file to reference (repeatable)",
				Destination: &traces,
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			_ = ctx
			cfg := LoadConfig()
			applyLoggingConfig(c, cfg)

			path, err := resolveContainerPath(containerPath, cfg.DefaultContainer)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			containerPath = path

			f, err := axc.Open(containerPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open container: %v", err), 1)
			}
			defer func() { _ = f.Close() }()

			sum := summary.New(f.UUID())
			for _, p := range profiles {
				sum.AddFile(p, summary.FileProfile)
			}
			for _, tr := range traces {
				sum.AddFile(tr, summary.FileTrace)
			}
			if payload, ok := f.RawSection(axc.SectionSystemMetadata); ok {
				sum.SetSystemDiagram(payload)
			}

			if outPath == "" {
				outPath = summary.DefaultPath(containerPath)
			}
			if err := sum.WriteFile(outPath); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			fmt.Printf("wrote %s\n", outPath)
			return nil
		},
	}
}
