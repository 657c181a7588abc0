// Package fence replaces goldmark's fenced code block rendering with the
// site's conventions for diagrams, callouts, regular expressions and jison
// grammars. Every other fence is delegated to the stock HTML renderer.
package fence

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/metrics"
)

// Priority places the fence renderer ahead of the stock HTML renderer (1000).
const Priority = 100

// Options configures the fence renderer. Zero values fall back to the defaults
// used by the site theme.
type Options struct {
	// DiagramTag is the info prefix that marks diagram fences.
	DiagramTag string
	// Component is the element name of the client-side diagram component.
	Component string
	// IDPrefix prefixes placeholder ids; defaults to DiagramTag.
	IDPrefix string
	// RegexpLanguage is the language regexp fences are highlighted as.
	RegexpLanguage string

	// Fallback renders the fences this package does not handle. It defaults
	// to goldmark's HTML renderer built with HTMLOptions.
	Fallback    renderer.NodeRenderer
	HTMLOptions []html.Option

	Recorder metrics.Recorder
}

func (o Options) withDefaults() Options {
	if o.DiagramTag == "" {
		o.DiagramTag = "mermaid"
	}
	if o.Component == "" {
		o.Component = "Mermaid"
	}
	if o.IDPrefix == "" {
		o.IDPrefix = o.DiagramTag
	}
	if o.RegexpLanguage == "" {
		o.RegexpLanguage = "javascript"
	}
	if o.Recorder == nil {
		o.Recorder = metrics.NoopRecorder{}
	}
	return o
}

// Renderer is a goldmark NodeRenderer for ast.KindFencedCodeBlock.
type Renderer struct {
	opts     Options
	fallback renderer.NodeRenderer
	fence    renderer.NodeRendererFunc
}

// NewRenderer captures the fallback's fenced code block function. It fails
// when the fallback does not render fenced code blocks.
func NewRenderer(opts Options) (*Renderer, error) {
	opts = opts.withDefaults()
	fallback := opts.Fallback
	if fallback == nil {
		fallback = html.NewRenderer(opts.HTMLOptions...)
	}

	c := &capture{}
	fallback.RegisterFuncs(c)
	if c.fence == nil {
		return nil, ferrors.MarkdownError("fallback renderer does not render fenced code blocks").
			WithContext("renderer", fmt.Sprintf("%T", fallback)).
			Build()
	}
	return &Renderer{opts: opts, fallback: fallback, fence: c.fence}, nil
}

// capture records the function a NodeRenderer registers for fenced code blocks.
type capture struct {
	fence renderer.NodeRendererFunc
}

func (c *capture) Register(kind ast.NodeKind, fn renderer.NodeRendererFunc) {
	if kind == ast.KindFencedCodeBlock {
		c.fence = fn
	}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *Renderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

// SetOption forwards renderer options (unsafe, xhtml, ...) to the fallback.
func (r *Renderer) SetOption(name renderer.OptionName, value any) {
	if so, ok := r.fallback.(renderer.SetOptioner); ok {
		so.SetOption(name, value)
	}
}

// Kind classifies a fenced code block of source.
func (r *Renderer) Kind(n *ast.FencedCodeBlock, source []byte) Kind {
	return Classify(Info(n, source), r.opts.DiagramTag)
}

// DiagramID returns the placeholder id of a diagram fence. The id derives
// from the byte offset of the fence's info string, so it is unique within a
// document and stable across renders of the same source.
func (r *Renderer) DiagramID(n *ast.FencedCodeBlock) string {
	pos := 0
	if n.Info != nil {
		pos = n.Info.Segment.Start
	}
	return fmt.Sprintf("%s-%d", r.opts.IDPrefix, pos)
}

func (r *Renderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.FencedCodeBlock)
	kind := r.Kind(n, source)
	if entering {
		r.opts.Recorder.IncFenceRendered(kind.String())
	}

	switch kind {
	case KindDefault:
		return r.fence(w, source, node, entering)
	case KindRegexp:
		if !entering {
			return ast.WalkContinue, nil
		}
		return r.renderRegexp(w, Content(n, source))
	}

	if !entering {
		return ast.WalkContinue, nil
	}
	content := Content(n, source)
	switch kind {
	case KindDiagram:
		_, _ = fmt.Fprintf(w, `<%s id="%s" graph="%s" />`+"\n", r.opts.Component, r.DiagramID(n), EncodeURIComponent(string(content)))
	case KindWarning:
		writeCallout(w, "warning", "WARNING", content)
	case KindNote:
		writeCallout(w, "tip", "NOTE", content)
	case KindJison:
		writeJison(w, content)
	}
	return ast.WalkContinue, nil
}

// renderRegexp re-tags the block and wraps its content in slashes, then
// hands a synthetic block to the fallback.
func (r *Renderer) renderRegexp(w util.BufWriter, content []byte) (ast.WalkStatus, error) {
	lang := r.opts.RegexpLanguage
	body := "/" + strings.TrimRightFunc(string(content), unicode.IsSpace) + "/\n"
	src := []byte(lang + body)

	synthetic := ast.NewFencedCodeBlock(ast.NewTextSegment(text.NewSegment(0, len(lang))))
	synthetic.Lines().Append(text.NewSegment(len(lang), len(src)))

	status, err := r.fence(w, src, synthetic, true)
	if err != nil {
		return status, err
	}
	return r.fence(w, src, synthetic, false)
}

var paragraphBreak = regexp.MustCompile(`\n{2,}`)

func writeCallout(w util.BufWriter, class, title string, content []byte) {
	escaped := string(util.EscapeHTML(bytes.TrimSpace(content)))

	_, _ = fmt.Fprintf(w, `<div class="%s custom-block"><p class="custom-block-title">%s</p>`, class, title)
	for _, p := range paragraphBreak.Split(escaped, -1) {
		if p == "" {
			continue
		}
		_, _ = w.WriteString("<p>")
		_, _ = w.WriteString(strings.ReplaceAll(p, "\n", "<br>"))
		_, _ = w.WriteString("</p>")
	}
	_, _ = w.WriteString("</div>\n")
}

var jisonEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

func writeJison(w util.BufWriter, content []byte) {
	_, _ = w.WriteString(`<div class="language-"><button class="copy"></button><span class="lang">jison</span><pre><code>`)
	_, _ = w.WriteString(jisonEscaper.Replace(string(content)))
	_, _ = w.WriteString("</code></pre></div>\n")
}

// Info returns the trimmed info string of a fence.
func Info(n *ast.FencedCodeBlock, source []byte) string {
	if n.Info == nil {
		return ""
	}
	return strings.TrimSpace(string(n.Info.Segment.Value(source)))
}

// Content returns the raw lines of a fence.
func Content(n *ast.FencedCodeBlock, source []byte) []byte {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}
	return buf.Bytes()
}

// Extender installs the fence renderer into a goldmark.Markdown.
type Extender struct {
	renderer *Renderer
}

// NewExtender builds the renderer for use as a goldmark extension.
func NewExtender(opts Options) (*Extender, error) {
	r, err := NewRenderer(opts)
	if err != nil {
		return nil, err
	}
	return &Extender{renderer: r}, nil
}

// Renderer returns the installed fence renderer.
func (e *Extender) Renderer() *Renderer { return e.renderer }

// Extend implements goldmark.Extender.
func (e *Extender) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(e.renderer, Priority)))
}

var (
	_ goldmark.Extender     = (*Extender)(nil)
	_ renderer.NodeRenderer = (*Renderer)(nil)
	_ renderer.SetOptioner  = (*Renderer)(nil)
)
