// Package cli implements the clustersketch command-line interface.
//
// This package provides commands for drawing gene cluster figures from
// GenBank files, scanning proteins against HMM profile databases,
// converting clusters to and from binary blobs, and serving figures over
// HTTP. The CLI is built using cobra and supports verbose logging via
// the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - draw: Render gene cluster figures as SVG
//   - scan: Annotate clusters with HMM domain hits and store the result
//   - store: Convert and inspect cluster blob files
//   - serve: Serve rendered figures over HTTP
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context to allow structured progress
// tracking.
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/clustersketch/clustersketch/pkg/buildinfo"
	"github.com/clustersketch/clustersketch/pkg/config"
	"github.com/clustersketch/clustersketch/pkg/errors"
	"github.com/clustersketch/clustersketch/pkg/hmmer"
)

// appName is the application name used for directories and display.
const appName = "clustersketch"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Clustersketch draws biosynthetic gene clusters as SVG figures",
		Long:         `Clustersketch is a CLI tool for visualizing biosynthetic gene clusters: it parses GenBank annotation files, optionally annotates proteins with HMM domain hits, aligns clusters on shared reference genes, and renders them as deterministic SVG figures.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.drawCommand())
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadStyle reads the arrow style file, falling back to defaults when no
// path is given. Unknown keys are warnings, not errors, so old config
// files keep working.
func (c *CLI) loadStyle(path string) (config.ArrowStyle, error) {
	if path == "" {
		return config.Default(), nil
	}
	style, unknown, err := config.Load(path)
	if err != nil {
		return style, err
	}
	for _, key := range unknown {
		c.Logger.Warn("unknown style option", "key", key, "file", path)
	}
	return style, nil
}

// newScanner builds an HMM scanner from database paths. An empty list
// disables scanning.
func newScanner(databases []string, cpus int) (*hmmer.Scanner, error) {
	if len(databases) == 0 {
		return nil, nil
	}
	var opts []hmmer.Option
	if cpus > 0 {
		opts = append(opts, hmmer.WithCPUs(cpus))
	}
	s, err := hmmer.New(databases, opts...)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "initializing HMM scanner")
	}
	return s, nil
}

// parseList splits a comma-separated flag value, dropping empty items.
func parseList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
