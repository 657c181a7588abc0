package handlers

import (
	"log/slog"
	"net/http"
	"time"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/server/responses"
	"git.home.luguber.info/inful/docnav/internal/site"
	"git.home.luguber.info/inful/docnav/internal/version"
)

// ReportSource exposes the most recent generation report.
type ReportSource interface {
	LastReport() *site.Report
}

// MonitoringHandlers contains monitoring-related HTTP handlers.
type MonitoringHandlers struct {
	reports      ReportSource
	startTime    time.Time
	errorAdapter *ferrors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates monitoring handlers. reports may be nil.
func NewMonitoringHandlers(reports ReportSource, logger *slog.Logger) *MonitoringHandlers {
	return &MonitoringHandlers{
		reports:      reports,
		startTime:    time.Now(),
		errorAdapter: ferrors.NewHTTPErrorAdapter(logger),
	}
}

// HandleHealthCheck reports liveness. The status degrades when the last generation failed.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	health := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
	}
	if h.reports != nil {
		if last := h.reports.LastReport(); last != nil {
			health.LastBuild = last
			if last.Error != "" {
				health.Status = "degraded"
			}
		}
	}

	if err := writeJSONPretty(w, r, http.StatusOK, health); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			ferrors.WrapError(err, ferrors.CategoryInternal, "failed to write health response").Build())
	}
}
