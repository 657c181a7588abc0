package handlers

import (
	"bytes"
	"log/slog"
	"net/http"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/markdown"
)

// MarkdownHandlers render posted markdown to HTML with the configured fence renderer.
type MarkdownHandlers struct {
	engine       *markdown.Engine
	errorAdapter *ferrors.HTTPErrorAdapter
}

// NewMarkdownHandlers creates markdown handlers over engine.
func NewMarkdownHandlers(engine *markdown.Engine, logger *slog.Logger) *MarkdownHandlers {
	return &MarkdownHandlers{engine: engine, errorAdapter: ferrors.NewHTTPErrorAdapter(logger)}
}

// HandleRender converts the raw request body to HTML.
func (h *MarkdownHandlers) HandleRender(w http.ResponseWriter, r *http.Request) {
	src, err := readBody(w, r)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := h.engine.RenderTo(&buf, src); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// HandleDiagrams lists the diagram fences of the posted markdown with the ids the renderer assigns them.
func (h *MarkdownHandlers) HandleDiagrams(w http.ResponseWriter, r *http.Request) {
	src, err := readBody(w, r)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	diagrams := h.engine.Diagrams(src)
	if diagrams == nil {
		diagrams = []markdown.Diagram{}
	}
	if err := writeJSON(w, http.StatusOK, diagrams); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			ferrors.WrapError(err, ferrors.CategoryInternal, "failed to write diagrams response").Build())
	}
}
