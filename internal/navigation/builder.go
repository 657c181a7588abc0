// Package navigation builds the navigation bar and sidebar of a documentation
// site from directory listings.
package navigation

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/frontmatter"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/scanner"
)

// Source is the directory listing surface the builder reads from.
// *scanner.Scanner satisfies it.
type Source interface {
	List(ctx context.Context, rel string) []scanner.DirectoryEntry
	HasIndex(ctx context.Context, rel string) bool
	IsMarkdown(name string) bool
	IsIndex(name string) bool
	Index() string
	ReadFile(rel string) ([]byte, error)
}

// Options controls labels, links and traversal limits.
type Options struct {
	HomeLabel         string
	HomeLink          string
	OverviewLabel     string
	OverviewStyle     config.OverviewStyle
	RootGroupLabel    string
	Collapsed         bool
	FrontmatterTitles bool
	MaxDepth          int
	Concurrency       int
}

// OptionsFromConfig maps the nav, sidebar and docs sections of cfg onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		HomeLabel:         cfg.Nav.HomeLabel,
		HomeLink:          cfg.Nav.HomeLink,
		OverviewLabel:     cfg.Sidebar.OverviewLabel,
		OverviewStyle:     cfg.Sidebar.OverviewStyle,
		RootGroupLabel:    cfg.Sidebar.RootGroupLabel,
		Collapsed:         cfg.Sidebar.Collapsed,
		FrontmatterTitles: cfg.Sidebar.FrontmatterTitles,
		MaxDepth:          cfg.Docs.MaxDepth,
		Concurrency:       cfg.Docs.Concurrency,
	}
}

// Builder converts listings into nav items and sidebar trees.
type Builder struct {
	src  Source
	opts Options

	mu     sync.Mutex
	pruned int
}

// NewBuilder creates a builder reading from src. Zero-valued options fall back to defaults.
func NewBuilder(src Source, opts Options) *Builder {
	if opts.HomeLabel == "" {
		opts.HomeLabel = "Home"
	}
	if opts.HomeLink == "" {
		opts.HomeLink = "/"
	}
	if opts.OverviewLabel == "" {
		opts.OverviewLabel = "Overview"
	}
	if opts.OverviewStyle == "" {
		opts.OverviewStyle = config.OverviewStyleLiteral
	}
	if opts.RootGroupLabel == "" {
		opts.RootGroupLabel = "Document Overview"
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 16
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}
	return &Builder{src: src, opts: opts}
}

// DepthPruned returns how many directories were skipped for exceeding the depth limit.
func (b *Builder) DepthPruned() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pruned
}

// BuildNav returns the Home entry followed by one item per top-level
// directory that has an index document, in listing order.
func (b *Builder) BuildNav(ctx context.Context) ([]NavItem, error) {
	var dirs []string
	for _, e := range b.src.List(ctx, "") {
		if e.IsDir() {
			dirs = append(dirs, e.Name)
		}
	}

	found := make([]bool, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Concurrency)
	for i, name := range dirs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			found[i] = b.src.HasIndex(gctx, name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	nav := make([]NavItem, 0, len(dirs)+1)
	nav = append(nav, NavItem{Text: b.opts.HomeLabel, Link: b.opts.HomeLink})
	for i, name := range dirs {
		if found[i] {
			nav = append(nav, NavItem{Text: Title(name), Link: DirLink(name)})
		}
	}
	return nav, nil
}

// BuildSidebar returns the sidebar items of rel: the overview first, then
// the remaining pages, then one nested node per non-empty subdirectory.
func (b *Builder) BuildSidebar(ctx context.Context, rel string) []SidebarNode {
	return b.walk(ctx, rel, 0)
}

// BuildSidebarMap builds the sidebar of every top-level section. Pages
// directly inside a section are grouped under the root group label; each
// non-empty subdirectory becomes its own group. Root pages other than the
// index are published under "/".
func (b *Builder) BuildSidebarMap(ctx context.Context) (Sidebar, error) {
	entries := b.src.List(ctx, "")

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name)
		}
	}

	sections := make([][]SidebarNode, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Concurrency)
	for i, name := range dirs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sections[i] = b.section(gctx, name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sidebar := Sidebar{}
	var rootPages []SidebarNode
	for _, e := range entries {
		if e.IsDir() || !b.src.IsMarkdown(e.Name) || b.src.IsIndex(e.Name) {
			continue
		}
		stem := Stem(e.Name)
		rootPages = append(rootPages, SidebarNode{Text: b.pageTitle(ctx, "", e.Name), Link: PageLink("", stem)})
	}
	if len(rootPages) > 0 {
		sidebar["/"] = []SidebarNode{{Text: b.opts.RootGroupLabel, Items: rootPages}}
	}

	for i, name := range dirs {
		if len(sections[i]) == 0 {
			slog.DebugContext(ctx, "Pruned empty section", logfields.Section(name))
			continue
		}
		sidebar[DirLink(name)] = sections[i]
	}
	return sidebar, nil
}

func (b *Builder) section(ctx context.Context, name string) []SidebarNode {
	entries := b.src.List(ctx, name)

	var groups []SidebarNode
	if pages := b.pages(ctx, name, entries); len(pages) > 0 {
		groups = append(groups, SidebarNode{Text: b.opts.RootGroupLabel, Items: pages})
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if items := b.walk(ctx, joinRel(name, e.Name), 2); len(items) > 0 {
			groups = append(groups, SidebarNode{Text: Title(e.Name), Collapsed: b.opts.Collapsed, Items: items})
		}
	}
	return groups
}

func (b *Builder) walk(ctx context.Context, rel string, depth int) []SidebarNode {
	if depth > b.opts.MaxDepth {
		b.mu.Lock()
		b.pruned++
		b.mu.Unlock()
		slog.WarnContext(ctx, "Directory exceeds maximum depth, skipping", logfields.Dir(rel), logfields.Depth(depth))
		return nil
	}

	entries := b.src.List(ctx, rel)
	items := b.pages(ctx, rel, entries)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if sub := b.walk(ctx, joinRel(rel, e.Name), depth+1); len(sub) > 0 {
			items = append(items, SidebarNode{Text: Title(e.Name), Collapsed: b.opts.Collapsed, Items: sub})
		}
	}
	return items
}

// pages returns the overview item (when the index exists) followed by the other markdown files of rel.
func (b *Builder) pages(ctx context.Context, rel string, entries []scanner.DirectoryEntry) []SidebarNode {
	var overview *SidebarNode
	var items []SidebarNode
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if b.src.IsIndex(e.Name) {
			overview = &SidebarNode{Text: b.overviewTitle(ctx, rel, e.Name), Link: DirLink(rel)}
			continue
		}
		if !b.src.IsMarkdown(e.Name) {
			continue
		}
		items = append(items, SidebarNode{Text: b.pageTitle(ctx, rel, e.Name), Link: PageLink(rel, Stem(e.Name))})
	}
	if overview != nil {
		items = append([]SidebarNode{*overview}, items...)
	}
	return items
}

func (b *Builder) overviewTitle(ctx context.Context, rel, name string) string {
	if title, ok := b.frontmatterTitle(ctx, rel, name); ok {
		return title
	}
	if b.opts.OverviewStyle == config.OverviewStyleFormatted {
		return Title(Stem(name))
	}
	return b.opts.OverviewLabel
}

func (b *Builder) pageTitle(ctx context.Context, rel, name string) string {
	if title, ok := b.frontmatterTitle(ctx, rel, name); ok {
		return title
	}
	return Title(Stem(name))
}

func (b *Builder) frontmatterTitle(ctx context.Context, rel, name string) (string, bool) {
	if !b.opts.FrontmatterTitles {
		return "", false
	}
	file := joinRel(rel, name)
	content, err := b.src.ReadFile(file)
	if err != nil {
		slog.DebugContext(ctx, "Failed to read page for title", logfields.File(file), logfields.Error(err))
		return "", false
	}
	doc, err := frontmatter.Parse(content)
	if err != nil {
		slog.DebugContext(ctx, "Ignoring malformed frontmatter", logfields.File(file), logfields.Error(err))
		return "", false
	}
	return doc.Title()
}
