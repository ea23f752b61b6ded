package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/quayside/gantry/internal/logger"
)

var (
	containerPath string
	logLevel      string
	logFormat     string
	debug         bool
)

func containerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "container",
			Aliases:     []string{"f"},
			Usage:       "path to .axc container",
			Destination: &containerPath,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func newLogger() logger.Logger {
	level := logger.ParseLevel(logLevel)
	if debug {
		level = slog.LevelDebug
	}
	if logFormat == "json" {
		return logger.JSON(os.Stderr, level)
	}
	return logger.Pretty(os.Stderr, level)
}
