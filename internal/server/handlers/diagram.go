package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docnav/internal/diagram"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/server/responses"
)

// DiagramHandlers render diagram sources posted by the browser component.
type DiagramHandlers struct {
	// mu serializes access to the renderer, which tracks engine initialization state.
	mu           sync.Mutex
	renderer     *diagram.Renderer
	logger       *slog.Logger
	errorAdapter *ferrors.HTTPErrorAdapter
}

// NewDiagramHandlers creates diagram handlers over renderer.
func NewDiagramHandlers(renderer *diagram.Renderer, logger *slog.Logger) *DiagramHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiagramHandlers{renderer: renderer, logger: logger, errorAdapter: ferrors.NewHTTPErrorAdapter(logger)}
}

// HandleRender renders one diagram. A request without an id gets a generated one.
func (h *DiagramHandlers) HandleRender(w http.ResponseWriter, r *http.Request) {
	var req responses.DiagramRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	if strings.TrimSpace(req.Graph) == "" {
		h.errorAdapter.WriteErrorResponse(w, r,
			ferrors.ValidationError("graph is required").WithContext("id", req.ID).Build())
		return
	}
	if req.ID == "" {
		req.ID = "mermaid-" + uuid.NewString()
	}

	params := diagram.Params{ID: req.ID, Code: req.Graph, Decode: req.Decode}
	if req.Config != nil {
		params.Config = diagram.Config(req.Config)
	}

	h.mu.Lock()
	svg, err := h.renderer.Render(r.Context(), params)
	h.mu.Unlock()
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.logger.Debug("Diagram rendered", logfields.DiagramID(req.ID))

	if err := writeJSON(w, http.StatusOK, responses.DiagramResponse{ID: req.ID, SVG: svg}); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			ferrors.WrapError(err, ferrors.CategoryInternal, "failed to write diagram response").Build())
	}
}
