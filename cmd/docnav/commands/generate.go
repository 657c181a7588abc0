package commands

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/docnav/internal/config"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/observability"
	"git.home.luguber.info/inful/docnav/internal/site"
	"git.home.luguber.info/inful/docnav/internal/watch"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Root     string        `help:"Override docs.root" type:"path"`
	Output   string        `short:"o" help:"Override output.path" type:"path"`
	Format   string        `short:"f" help:"Override output.format (json|yaml|ts)"`
	Watch    bool          `short:"w" help:"Regenerate when the docs tree changes"`
	Interval time.Duration `help:"Also regenerate on a fixed interval (e.g. 30s)"`
}

func (c *GenerateCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if err := c.apply(cfg); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	gen := site.NewGenerator(cfg)
	report, err := gen.Generate(ctx)
	if !c.Watch && c.Interval <= 0 {
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(g.Stdout, report.Summary())
		return nil
	}
	if err != nil {
		observability.ErrorContext(ctx, "Initial generation failed", logfields.Error(err))
	}
	return regenerateLoop(ctx, cfg, gen, c.Watch, c.Interval)
}

func (c *GenerateCmd) apply(cfg *config.Config) error {
	if c.Root != "" {
		cfg.Docs.Root = c.Root
	}
	if c.Output != "" {
		cfg.Output.Path = c.Output
	}
	if c.Format != "" {
		format, err := config.NormalizeOutputFormat(c.Format)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid --format").
				WithContext("format", c.Format).
				Build()
		}
		cfg.Output.Format = format
	}
	if c.Interval <= 0 {
		c.Interval = cfg.Watch.Interval
	}
	return nil
}

// regenerateLoop regenerates on file changes and/or on a fixed interval until ctx is done.
func regenerateLoop(ctx context.Context, cfg *config.Config, gen *site.Generator, onChange bool, interval time.Duration) error {
	regenerate := func(ctx context.Context, reason string) {
		if _, err := gen.Generate(ctx); err != nil && ctx.Err() == nil {
			observability.ErrorContext(ctx, "Regeneration failed", logfields.Event(reason), logfields.Error(err))
		}
	}

	if interval > 0 {
		sched, err := watch.NewScheduler()
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to create scheduler").Build()
		}
		if _, err := sched.Every(ctx, interval, "regenerate", func(ctx context.Context) {
			regenerate(ctx, "interval")
		}); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to schedule regeneration").Build()
		}
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				observability.WarnContext(ctx, "Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	if !onChange {
		<-ctx.Done()
		return nil
	}

	w, err := watch.New(watch.Options{
		Root:       cfg.Docs.Root,
		Extensions: cfg.Docs.Extensions,
		Exclude:    cfg.Docs.Exclude,
		Ignore:     []string{cfg.Output.Path},
		Debounce:   cfg.Watch.Debounce,
	}, func(ctx context.Context, b watch.Batch) {
		observability.InfoContext(ctx, "Docs tree changed",
			logfields.Event(b.Reason),
			logfields.Entries(b.Count))
		regenerate(ctx, "change")
	})
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to start watcher").Build()
	}
	observability.InfoContext(ctx, "Watching docs tree", logfields.Dir(cfg.Docs.Root))
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "watcher stopped").Build()
	}
	return nil
}
