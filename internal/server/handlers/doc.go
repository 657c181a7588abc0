// Package handlers implements the docnav HTTP API: site configuration,
// diagram and markdown rendering, and health monitoring.
//
// Handlers report failures as classified errors through
// foundation/errors.HTTPErrorAdapter so every error body has the same shape.
package handlers
