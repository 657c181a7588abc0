package commands

import (
	"context"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/diagram"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/markdown"
	"git.home.luguber.info/inful/docnav/internal/observability"
	"git.home.luguber.info/inful/docnav/internal/site"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	File   string `arg:"" default:"-" help:"Markdown file to render (- for stdin)"`
	Output string `short:"o" help:"Write HTML here instead of stdout"`
	SVGDir string `name:"svg-dir" help:"Pre-render the page's diagrams into this directory as <id>.svg" type:"path"`
}

func (c *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	src, err := readInput(g, c.File)
	if err != nil {
		return err
	}

	engine, err := markdown.New(markdown.OptionsFromConfig(cfg.Markdown, nil))
	if err != nil {
		return err
	}
	html, err := engine.Render(src)
	if err != nil {
		return err
	}
	if err := writeOutput(g, c.Output, html); err != nil {
		return err
	}

	if c.SVGDir == "" {
		return nil
	}
	ctx, cancel := signalContext()
	defer cancel()
	return prerenderDiagrams(ctx, cfg, engine.Diagrams(src), c.SVGDir)
}

// prerenderDiagrams renders each diagram through one shared renderer so the
// engine is initialized once for the page.
func prerenderDiagrams(ctx context.Context, cfg *config.Config, diagrams []markdown.Diagram, dir string) error {
	if len(diagrams) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create svg directory").
			WithContext("path", dir).
			Build()
	}

	renderer := diagram.NewRenderer(diagram.NewMermaidCLIFromConfig(cfg.Diagram), diagram.Options{
		DefaultConfig: diagram.Config(cfg.Diagram.Engine),
	})
	decode := false
	for _, d := range diagrams {
		svg, err := renderer.Render(ctx, diagram.Params{ID: d.ID, Code: d.Source, Decode: &decode})
		if err != nil {
			return err
		}
		path := filepath.Join(dir, d.ID+".svg")
		if _, err := site.WriteFileIfChanged(path, []byte(svg)); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write svg").
				WithContext("path", path).
				Build()
		}
		observability.DebugContext(ctx, "Diagram pre-rendered", logfields.DiagramID(d.ID), logfields.Path(path))
	}
	observability.InfoContext(ctx, "Diagrams pre-rendered", logfields.Entries(len(diagrams)), logfields.Dir(dir))
	return nil
}
