package site

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/docnav/internal/metrics"
)

// Report summarizes one generation.
type Report struct {
	BuildID         string              `json:"build_id"`
	Start           time.Time           `json:"start"`
	End             time.Time           `json:"end"`
	NavItems        int                 `json:"nav_items"`
	SidebarSections int                 `json:"sidebar_sections"`
	SidebarLinks    int                 `json:"sidebar_links"`
	DirReadFailures int64               `json:"dir_read_failures"`
	DepthPruned     int                 `json:"depth_pruned"`
	OutputPath      string              `json:"output_path,omitempty"`
	Written         bool                `json:"written"`
	Outcome         metrics.ResultLabel `json:"outcome"`
	Error           string              `json:"error,omitempty"`
}

func newReport(buildID string) *Report {
	return &Report{BuildID: buildID, Start: time.Now()}
}

// Duration is the wall time of the generation.
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return time.Since(r.Start)
	}
	return r.End.Sub(r.Start)
}

func (r *Report) finish(err error, canceled bool) {
	r.End = time.Now()
	r.Outcome = metrics.ResultOf(err, canceled)
	if err != nil {
		r.Error = err.Error()
	}
}

// Summary renders a one-line human readable form of the report.
func (r *Report) Summary() string {
	s := fmt.Sprintf("outcome=%s nav=%d sections=%d links=%d read_failures=%d duration=%s",
		r.Outcome, r.NavItems, r.SidebarSections, r.SidebarLinks, r.DirReadFailures, r.Duration().Round(time.Millisecond))
	if r.DepthPruned > 0 {
		s += fmt.Sprintf(" depth_pruned=%d", r.DepthPruned)
	}
	if r.OutputPath != "" {
		if r.Written {
			s += " wrote=" + r.OutputPath
		} else {
			s += " unchanged=" + r.OutputPath
		}
	}
	if r.Error != "" {
		s += " error=" + r.Error
	}
	return s
}
