// Package responses defines request and response payloads of the docnav HTTP API.
package responses

import (
	"time"

	"git.home.luguber.info/inful/docnav/internal/site"
)

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string       `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
	Version   string       `json:"version"`
	Uptime    float64      `json:"uptime"`
	LastBuild *site.Report `json:"last_build,omitempty"`
}

// DiagramRequest is the body of POST /api/diagram.
type DiagramRequest struct {
	ID     string         `json:"id"`
	Graph  string         `json:"graph"`
	Config map[string]any `json:"config,omitempty"`
	// Decode overrides the server's percent-decoding default when set.
	Decode *bool `json:"decode,omitempty"`
}

// DiagramResponse carries the rendered SVG.
type DiagramResponse struct {
	ID  string `json:"id"`
	SVG string `json:"svg"`
}

// RegenerateResponse reports the result of POST /api/site/regenerate.
type RegenerateResponse struct {
	Status string       `json:"status"`
	Report *site.Report `json:"report"`
}
