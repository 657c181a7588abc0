// Package commands implements the docnav subcommands.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docnav/internal/config"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/observability"
)

// Global is shared state bound into every subcommand's Run.
type Global struct {
	Logger *slog.Logger
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewGlobal returns process-wide defaults.
func NewGlobal() *Global {
	return &Global{Logger: slog.Default(), Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// CLI definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docnav.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" help:"Generate the nav and sidebar configuration from the docs tree"`
	Render   RenderCmd   `cmd:"" help:"Render a markdown page to HTML"`
	Diagram  DiagramCmd  `cmd:"" help:"Render a single diagram to SVG"`
	Serve    ServeCmd    `cmd:"" help:"Serve the site configuration and diagram API over HTTP"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply installs a text logger until the configuration selects one.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = slog.New(slog.NewTextHandler(g.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.Logger)
	return nil
}

// loadConfig reads the configuration file and switches logging to its settings.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	g.Logger = observability.NewLogger(g.Stderr, cfg.Logging, c.Verbose)
	slog.SetDefault(g.Logger)
	return cfg, nil
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// readInput reads path, or stdin when path is "-".
func readInput(g *Global, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(g.Stdin)
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read stdin").Build()
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read input").
			WithContext("path", path).
			Build()
	}
	return data, nil
}

// writeOutput writes data to path, or stdout when path is "" or "-".
func writeOutput(g *Global, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := g.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write output").
			WithContext("path", path).
			Build()
	}
	return nil
}
