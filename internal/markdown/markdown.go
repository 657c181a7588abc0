// Package markdown renders documentation pages to HTML with goldmark, GitHub
// flavored extensions and the fence adapter.
package markdown

import (
	"bytes"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/docnav/internal/config"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/frontmatter"
	"git.home.luguber.info/inful/docnav/internal/markdown/fence"
	"git.home.luguber.info/inful/docnav/internal/metrics"
)

// Options controls how pages are rendered.
type Options struct {
	Fence fence.Options
	// Unsafe passes raw HTML in markdown through to the output.
	Unsafe bool
	// HeadingIDs generates id attributes for headings.
	HeadingIDs bool
}

// OptionsFromConfig maps the markdown section of cfg onto Options.
func OptionsFromConfig(cfg config.MarkdownConfig, rec metrics.Recorder) Options {
	return Options{
		Fence: fence.Options{
			DiagramTag:     cfg.DiagramTag,
			Component:      cfg.DiagramComponent,
			RegexpLanguage: cfg.RegexpLanguage,
			Recorder:       rec,
		},
		Unsafe:     true,
		HeadingIDs: true,
	}
}

// Diagram is a diagram fence found in a page.
type Diagram struct {
	ID     string `json:"id"`
	Source string `json:"source"`
}

// Engine renders markdown pages. It is safe for concurrent use.
type Engine struct {
	md    goldmark.Markdown
	fence *fence.Renderer
}

// New builds an engine. It fails when the fence adapter cannot be installed.
func New(opts Options) (*Engine, error) {
	var rendererOpts []renderer.Option
	if opts.Unsafe {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
		opts.Fence.HTMLOptions = append(opts.Fence.HTMLOptions, html.WithUnsafe())
	}

	ext, err := fence.NewExtender(opts.Fence)
	if err != nil {
		return nil, err
	}

	var parserOpts []parser.Option
	if opts.HeadingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, ext),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &Engine{md: md, fence: ext.Renderer()}, nil
}

// Render converts a page to HTML. YAML frontmatter is stripped first.
func (e *Engine) Render(content []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.RenderTo(&buf, content); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderTo writes the HTML of a page to w.
func (e *Engine) RenderTo(w io.Writer, content []byte) error {
	body := frontmatter.Strip(content)
	if err := e.md.Convert(body, w); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRender, "failed to render markdown").Build()
	}
	return nil
}

// Diagrams returns the diagram fences of a page in document order, with the
// same ids Render gives their placeholders.
func (e *Engine) Diagrams(content []byte) []Diagram {
	body := frontmatter.Strip(content)
	root := e.md.Parser().Parse(text.NewReader(body))

	var out []Diagram
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok || e.fence.Kind(block, body) != fence.KindDiagram {
			return ast.WalkContinue, nil
		}
		out = append(out, Diagram{
			ID:     e.fence.DiagramID(block),
			Source: string(fence.Content(block, body)),
		})
		return ast.WalkSkipChildren, nil
	})
	return out
}
