package config

import (
	"git.home.luguber.info/inful/docnav/internal/foundation/normalization"
)

// OutputFormat selects the serialization of the generated site configuration.
type OutputFormat string

const (
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	// OutputFormatTS writes an ES module exporting `nav` and `sidebar`.
	OutputFormatTS OutputFormat = "ts"
)

var outputFormatNormalizer = normalization.NewNormalizer(map[string]OutputFormat{
	"json": OutputFormatJSON,
	"yaml": OutputFormatYAML,
	"yml":  OutputFormatYAML,
	"ts":   OutputFormatTS,
	"mjs":  OutputFormatTS,
}, OutputFormatJSON)

// NormalizeOutputFormat maps raw onto an OutputFormat, reporting unknown values.
func NormalizeOutputFormat(raw string) (OutputFormat, error) {
	return outputFormatNormalizer.NormalizeWithError(raw)
}

// OverviewStyle selects how the index document is labelled in the sidebar.
type OverviewStyle string

const (
	// OverviewStyleLiteral uses sidebar.overview_label verbatim.
	OverviewStyleLiteral OverviewStyle = "literal"
	// OverviewStyleFormatted applies the title formatter to the index file stem.
	OverviewStyleFormatted OverviewStyle = "formatted"
)

var overviewStyleNormalizer = normalization.NewNormalizer(map[string]OverviewStyle{
	"literal":   OverviewStyleLiteral,
	"formatted": OverviewStyleFormatted,
}, OverviewStyleLiteral)

// NormalizeOverviewStyle maps raw onto an OverviewStyle, reporting unknown values.
func NormalizeOverviewStyle(raw string) (OverviewStyle, error) {
	return overviewStyleNormalizer.NormalizeWithError(raw)
}
