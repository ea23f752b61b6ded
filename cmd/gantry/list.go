package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/quayside/gantry/internal/logger"
	"github.com/quayside/gantry/pkg/axc"
)

func listCmd() *cli.Command {
	var containersDir string

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List AXC containers in a directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Usage:       "path to directory containing .axc containers",
				Destination: &containersDir,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			dir, err := resolveContainersDir(containersDir, LoadConfig().ContainersDir)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			containers, err := discoverContainers(dir)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if len(containers) == 0 {
				log.Info("no containers found", "path", dir)
				return nil
			}

			fmt.Printf("Containers in %s:\n\n", dir)
			for _, path := range containers {
				name := filepath.Base(path)
				info, err := os.Stat(path)
				if err != nil {
					fmt.Printf("  %s\n", name)
					continue
				}
				size := formatBytes(uint64(info.Size()))

				// Pull the identity out of the header when the file parses.
				id := ""
				if f, err := axc.Open(path); err == nil {
					id = f.UUID().String()
					_ = f.Close()
				}

				if id != "" {
					fmt.Printf("  %-40s %10s  %s\n", name, size, id)
				} else {
					fmt.Printf("  %-40s %10s\n", name, size)
				}
			}
			fmt.Printf("\n%d container(s) found\n", len(containers))
			return nil
		},
	}
}
