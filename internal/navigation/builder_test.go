package navigation

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/scanner"
)

func page() *fstest.MapFile { return &fstest.MapFile{Data: []byte("# page\n")} }

func newBuilder(fsys fstest.MapFS, opts Options) *Builder {
	return NewBuilder(scanner.New(fsys, scanner.Options{Exclude: []string{".*"}}), opts)
}

func TestOnlyIndexDirectory(t *testing.T) {
	b := newBuilder(fstest.MapFS{"guide/index.md": page()}, Options{})
	ctx := context.Background()

	nav, err := b.BuildNav(ctx)
	require.NoError(t, err)
	assert.Equal(t, []NavItem{
		{Text: "Home", Link: "/"},
		{Text: "Guide", Link: "/guide/"},
	}, nav)

	sidebar, err := b.BuildSidebarMap(ctx)
	require.NoError(t, err)
	require.Len(t, sidebar, 1)
	require.Len(t, sidebar["/guide/"], 1)
	assert.Equal(t, []SidebarNode{{Text: "Overview", Link: "/guide/"}}, sidebar["/guide/"][0].Items)
}

func TestBuildNav_SkipsDirectoriesWithoutIndex(t *testing.T) {
	fsys := fstest.MapFS{
		"section-10/index.md":  page(),
		"section-2/index.md":   page(),
		"drafts/notes.md":      page(),
		"api_docs/index.md":    page(),
		".vitepress/config.ts": page(),
		"readme.md":            page(),
	}
	b := newBuilder(fsys, Options{HomeLabel: "首页", Concurrency: 2})

	nav, err := b.BuildNav(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []NavItem{
		{Text: "首页", Link: "/"},
		{Text: "Api docs", Link: "/api_docs/"},
		{Text: "Section 2", Link: "/section-2/"},
		{Text: "Section 10", Link: "/section-10/"},
	}, nav)
}

func TestBuildSidebar_OrderAndPruning(t *testing.T) {
	fsys := fstest.MapFS{
		"guide/index.md":              page(),
		"guide/setup.md":              page(),
		"guide/advanced-usage.md":     page(),
		"guide/image.png":             page(),
		"guide/deep/deeper/empty.txt": page(),
		"guide/tips/first_tip.md":     page(),
	}
	b := newBuilder(fsys, Options{Collapsed: true})

	items := b.BuildSidebar(context.Background(), "guide")
	assert.Equal(t, []SidebarNode{
		{Text: "Overview", Link: "/guide/"},
		{Text: "Advanced usage", Link: "/guide/advanced-usage"},
		{Text: "Setup", Link: "/guide/setup"},
		{Text: "Tips", Collapsed: true, Items: []SidebarNode{
			{Text: "First tip", Link: "/guide/tips/first_tip"},
		}},
	}, items)
}

func TestBuildSidebarMap_Grouping(t *testing.T) {
	fsys := fstest.MapFS{
		"index.md":                      page(),
		"about.md":                      page(),
		"android/index.md":              page(),
		"android/faq.md":                page(),
		"android/basics/build-flow.md":  page(),
		"android/libs/jetpack/room.md":  page(),
		"android/libs/okhttp.md":        page(),
		"android/assets/logo/empty.txt": page(),
		"empty/nested/none.txt":         page(),
	}
	b := newBuilder(fsys, Options{})

	sidebar, err := b.BuildSidebarMap(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Sidebar{
		"/": {
			{Text: "Document Overview", Items: []SidebarNode{{Text: "About", Link: "/about"}}},
		},
		"/android/": {
			{Text: "Document Overview", Items: []SidebarNode{
				{Text: "Overview", Link: "/android/"},
				{Text: "Faq", Link: "/android/faq"},
			}},
			{Text: "Basics", Items: []SidebarNode{
				{Text: "Build flow", Link: "/android/basics/build-flow"},
			}},
			{Text: "Libs", Items: []SidebarNode{
				{Text: "Okhttp", Link: "/android/libs/okhttp"},
				{Text: "Jetpack", Items: []SidebarNode{
					{Text: "Room", Link: "/android/libs/jetpack/room"},
				}},
			}},
		},
	}, sidebar)
}

func TestBuildSidebarMap_NoEmptyBranches(t *testing.T) {
	fsys := fstest.MapFS{
		"a/index.md":         page(),
		"a/b/c/d/e.md":       page(),
		"a/b/x/y/z.txt":      page(),
		"a/q/index.md":       page(),
		"b/only/dirs/here/k": page(),
		"c/one.md":           page(),
	}
	b := newBuilder(fsys, Options{})

	sidebar, err := b.BuildSidebarMap(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, sidebar, "/b/")

	var check func(n SidebarNode)
	check = func(n SidebarNode) {
		assert.Positive(t, n.LeafCount(), "node %q has no page beneath it", n.Text)
		for _, child := range n.Items {
			check(child)
		}
	}
	for key, groups := range sidebar {
		require.NotEmpty(t, groups, key)
		for _, g := range groups {
			check(g)
		}
	}
}

func TestOverviewStyles(t *testing.T) {
	fsys := fstest.MapFS{"docs/index.md": page()}

	literal := newBuilder(fsys, Options{OverviewLabel: "概览"})
	assert.Equal(t, "概览", literal.BuildSidebar(context.Background(), "docs")[0].Text)

	formatted := newBuilder(fsys, Options{OverviewStyle: config.OverviewStyleFormatted})
	assert.Equal(t, "Index", formatted.BuildSidebar(context.Background(), "docs")[0].Text)
}

func TestDepthLimit(t *testing.T) {
	fsys := fstest.MapFS{
		"a/b/page.md":     page(),
		"a/b/c/deeper.md": page(),
	}
	b := newBuilder(fsys, Options{MaxDepth: 2})

	sidebar, err := b.BuildSidebarMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []SidebarNode{
		{Text: "B", Items: []SidebarNode{{Text: "Page", Link: "/a/b/page"}}},
	}, sidebar["/a/"])
	assert.Equal(t, 1, b.DepthPruned())
}

func TestFrontmatterTitles(t *testing.T) {
	fsys := fstest.MapFS{
		"guide/index.md":  &fstest.MapFile{Data: []byte("---\ntitle: Start Here\n---\n# x\n")},
		"guide/a-page.md": &fstest.MapFile{Data: []byte("---\ntitle: Custom\n---\nbody\n")},
		"guide/broken.md": &fstest.MapFile{Data: []byte("---\ntitle: [\n---\n")},
		"guide/plain.md":  page(),
	}

	on := newBuilder(fsys, Options{FrontmatterTitles: true})
	assert.Equal(t, []SidebarNode{
		{Text: "Start Here", Link: "/guide/"},
		{Text: "Custom", Link: "/guide/a-page"},
		{Text: "Broken", Link: "/guide/broken"},
		{Text: "Plain", Link: "/guide/plain"},
	}, on.BuildSidebar(context.Background(), "guide"))

	off := newBuilder(fsys, Options{})
	assert.Equal(t, "A page", off.BuildSidebar(context.Background(), "guide")[1].Text)
}

func TestBuildNav_CanceledContext(t *testing.T) {
	b := newBuilder(fstest.MapFS{"guide/index.md": page()}, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	nav, err := b.BuildNav(ctx)
	require.NoError(t, err)
	assert.Equal(t, []NavItem{{Text: "Home", Link: "/"}}, nav)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Nav.HomeLabel = "Start"
	cfg.Sidebar.Collapsed = true

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, "Start", opts.HomeLabel)
	assert.True(t, opts.Collapsed)
	assert.Equal(t, cfg.Docs.MaxDepth, opts.MaxDepth)
	assert.Equal(t, cfg.Sidebar.OverviewStyle, opts.OverviewStyle)
}
