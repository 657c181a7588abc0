// Package site runs the scanner and the navigation builder once per build
// and writes the resulting site configuration.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"git.home.luguber.info/inful/docnav/internal/config"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/navigation"
	"git.home.luguber.info/inful/docnav/internal/observability"
	"git.home.luguber.info/inful/docnav/internal/scanner"
)

// Generator produces SiteConfig values from the documentation tree.
// It is safe for concurrent use; builds run one at a time.
type Generator struct {
	cfg      *config.Config
	fsys     fs.FS
	recorder metrics.Recorder

	buildMu sync.Mutex

	mu      sync.RWMutex
	current *SiteConfig
	last    *Report
}

// Option customizes a Generator.
type Option func(*Generator)

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(g *Generator) { g.recorder = rec }
}

// WithFS reads the documentation tree from fsys instead of docs.root.
func WithFS(fsys fs.FS) Option {
	return func(g *Generator) { g.fsys = fsys }
}

// NewGenerator creates a generator for cfg.
func NewGenerator(cfg *config.Config, opts ...Option) *Generator {
	g := &Generator{cfg: cfg, recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(g)
	}
	if g.fsys == nil {
		g.fsys = os.DirFS(cfg.Docs.Root)
	}
	return g
}

// Current returns the last successfully built configuration, or nil.
func (g *Generator) Current() *SiteConfig {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.current
}

// LastReport returns the report of the most recent build, or nil.
func (g *Generator) LastReport() *Report {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.last
}

// Build scans the tree and builds the nav and sidebar without writing anything.
func (g *Generator) Build(ctx context.Context) (*SiteConfig, *Report, error) {
	g.buildMu.Lock()
	defer g.buildMu.Unlock()

	site, report, err := g.build(ctx)
	g.recorder.IncGenerateOutcome(report.Outcome)
	if err == nil {
		g.remember(site, report)
	}
	return site, report, err
}

// Generate builds the site configuration and writes it to output.path. The
// file is left untouched when its content would not change.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	g.buildMu.Lock()
	defer g.buildMu.Unlock()

	site, report, err := g.build(ctx)
	if err != nil {
		g.recorder.IncGenerateOutcome(report.Outcome)
		return report, err
	}

	report.OutputPath = g.cfg.Output.Path
	written, err := g.write(site)
	report.Written = written
	if err != nil {
		report.finish(err, false)
		g.recorder.IncGenerateOutcome(report.Outcome)
		g.remember(nil, report)
		return report, err
	}
	g.recorder.IncGenerateOutcome(report.Outcome)
	g.remember(site, report)

	observability.InfoContext(observability.WithBuildID(ctx, report.BuildID), "Site configuration generated",
		logfields.Path(report.OutputPath),
		logfields.Format(string(g.cfg.Output.Format)),
		logfields.Entries(report.SidebarLinks),
		logfields.DurationMS(float64(report.Duration().Microseconds())/1000))
	return report, nil
}

func (g *Generator) build(ctx context.Context) (*SiteConfig, *Report, error) {
	ctx, buildID := observability.NewBuild(ctx)
	report := newReport(buildID)
	defer func() { g.recorder.ObserveGenerateDuration(report.Duration()) }()

	sc := scanner.New(g.fsys, scanner.Options{
		Index:      g.cfg.Docs.Index,
		Extensions: g.cfg.Docs.Extensions,
		Exclude:    g.cfg.Docs.Exclude,
	})
	builder := navigation.NewBuilder(sc, navigation.OptionsFromConfig(g.cfg))

	nav, err := builder.BuildNav(observability.WithStage(ctx, "nav"))
	if err != nil {
		return g.interrupted(report, sc, err)
	}
	sidebar, err := builder.BuildSidebarMap(observability.WithStage(ctx, "sidebar"))
	if err != nil {
		return g.interrupted(report, sc, err)
	}
	// Listings degrade to empty on cancellation, so a partial tree is never published.
	if err := ctx.Err(); err != nil {
		return g.interrupted(report, sc, err)
	}

	site := &SiteConfig{Nav: nav, Sidebar: sidebar}
	g.fillReport(report, site, sc, builder)
	report.finish(nil, false)
	return site, report, nil
}

func (g *Generator) interrupted(report *Report, sc *scanner.Scanner, err error) (*SiteConfig, *Report, error) {
	canceled := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
	report.DirReadFailures = sc.ReadFailures()
	report.finish(err, canceled)
	g.remember(nil, report)
	return nil, report, ferrors.WrapError(err, ferrors.CategoryRuntime, "site generation interrupted").
		WithContext("build_id", report.BuildID).
		Build()
}

func (g *Generator) fillReport(report *Report, site *SiteConfig, sc *scanner.Scanner, builder *navigation.Builder) {
	report.NavItems = len(site.Nav)
	report.SidebarSections = len(site.Sidebar)
	for _, groups := range site.Sidebar {
		for _, group := range groups {
			report.SidebarLinks += group.LeafCount()
		}
	}
	report.DirReadFailures = sc.ReadFailures()
	report.DepthPruned = builder.DepthPruned()

	g.recorder.SetNavItems(report.NavItems)
	g.recorder.SetSidebarSections(report.SidebarSections)
	g.recorder.AddDirReadFailures(report.DirReadFailures)
}

func (g *Generator) remember(site *SiteConfig, report *Report) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if site != nil {
		g.current = site
	}
	g.last = report
}

func (g *Generator) write(site *SiteConfig) (bool, error) {
	data, err := Encode(site, g.cfg.Output.Format)
	if err != nil {
		return false, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to encode site configuration").Build()
	}
	changed, err := WriteFileIfChanged(g.cfg.Output.Path, data)
	if err != nil {
		return false, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write site configuration").
			WithContext("path", g.cfg.Output.Path).
			Build()
	}
	return changed, nil
}

// WriteFileIfChanged atomically replaces path with data unless it already
// holds exactly data. It reports whether the file was written.
func WriteFileIfChanged(path string, data []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("ensure output dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return false, fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return false, fmt.Errorf("atomic rename: %w", err)
	}
	return true, nil
}
