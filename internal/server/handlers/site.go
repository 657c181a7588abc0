package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/docnav/internal/config"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/server/responses"
	"git.home.luguber.info/inful/docnav/internal/site"
)

// SiteSource is the generator surface the site handlers need.
type SiteSource interface {
	Current() *site.SiteConfig
	LastReport() *site.Report
	Generate(ctx context.Context) (*site.Report, error)
}

// SiteHandlers serve the generated navigation and sidebar.
type SiteHandlers struct {
	source       SiteSource
	errorAdapter *ferrors.HTTPErrorAdapter
}

// NewSiteHandlers creates site handlers over source.
func NewSiteHandlers(source SiteSource, logger *slog.Logger) *SiteHandlers {
	return &SiteHandlers{source: source, errorAdapter: ferrors.NewHTTPErrorAdapter(logger)}
}

// HandleSite returns the current site configuration. The optional format
// query parameter selects json (default), yaml or ts.
func (h *SiteHandlers) HandleSite(w http.ResponseWriter, r *http.Request) {
	current := h.source.Current()
	if current == nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			ferrors.RuntimeError("site configuration has not been generated yet").Retryable().Build())
		return
	}

	raw := r.URL.Query().Get("format")
	if raw == "" {
		if err := writeJSONPretty(w, r, http.StatusOK, current); err != nil {
			h.errorAdapter.WriteErrorResponse(w, r,
				ferrors.WrapError(err, ferrors.CategoryInternal, "failed to write site response").Build())
		}
		return
	}

	format, err := config.NormalizeOutputFormat(raw)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			ferrors.WrapError(err, ferrors.CategoryValidation, "unsupported format").
				WithContext("format", raw).
				Build())
		return
	}
	data, err := site.Encode(current, format)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeFor(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// HandleRegenerate runs a generation synchronously and returns its report.
func (h *SiteHandlers) HandleRegenerate(w http.ResponseWriter, r *http.Request) {
	report, err := h.source.Generate(r.Context())
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	resp := responses.RegenerateResponse{Status: "generated", Report: report}
	if !report.Written {
		resp.Status = "unchanged"
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			ferrors.WrapError(err, ferrors.CategoryInternal, "failed to write regenerate response").Build())
	}
}

func contentTypeFor(format config.OutputFormat) string {
	switch format {
	case config.OutputFormatYAML:
		return "application/yaml; charset=utf-8"
	case config.OutputFormatTS:
		return "text/javascript; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}
