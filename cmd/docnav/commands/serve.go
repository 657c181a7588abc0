package commands

import (
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docnav/internal/diagram"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/markdown"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/observability"
	"git.home.luguber.info/inful/docnav/internal/server/httpserver"
	"git.home.luguber.info/inful/docnav/internal/site"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr    string `help:"Override server.addr"`
	NoWatch bool   `name:"no-watch" help:"Do not regenerate when the docs tree changes"`
}

func (c *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Addr = c.Addr
	}

	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewPrometheusRecorder(reg)

	engine, err := markdown.New(markdown.OptionsFromConfig(cfg.Markdown, rec))
	if err != nil {
		return err
	}
	gen := site.NewGenerator(cfg, site.WithRecorder(rec))
	renderer := diagram.NewRenderer(diagram.NewMermaidCLIFromConfig(cfg.Diagram), diagram.Options{
		DefaultConfig: diagram.Config(cfg.Diagram.Engine),
		AutoDecode:    true,
		Recorder:      rec,
	})
	srv := httpserver.New(cfg.Server, httpserver.Deps{
		Site:     gen,
		Diagrams: renderer,
		Markdown: engine,
		Registry: reg,
		Recorder: rec,
		Logger:   g.Logger,
	})

	ctx, cancel := signalContext()
	defer cancel()

	if _, err := gen.Generate(ctx); err != nil {
		observability.ErrorContext(ctx, "Initial generation failed", logfields.Error(err))
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return srv.Run(ctx) })
	if !c.NoWatch || cfg.Watch.Interval > 0 {
		eg.Go(func() error { return regenerateLoop(ctx, cfg, gen, !c.NoWatch, cfg.Watch.Interval) })
	}
	return eg.Wait()
}
