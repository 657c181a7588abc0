package config

import (
	"fmt"
	"path"
	"strings"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// ValidateConfig validates a configuration after defaults have been applied.
// Enum fields are normalized in place.
func ValidateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.Docs.Root) == "" {
		return invalid("docs.root", "must not be empty")
	}
	if strings.ContainsAny(cfg.Docs.Index, `/\`) {
		return invalid("docs.index", "must be a file name, not a path")
	}
	for i, ext := range cfg.Docs.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return invalid(fmt.Sprintf("docs.extensions[%d]", i), fmt.Sprintf("%q must start with a dot", ext))
		}
	}
	for i, pattern := range cfg.Docs.Exclude {
		if _, err := path.Match(pattern, ""); err != nil {
			return invalid(fmt.Sprintf("docs.exclude[%d]", i), fmt.Sprintf("bad glob %q: %v", pattern, err))
		}
	}

	format, err := NormalizeOutputFormat(string(cfg.Output.Format))
	if err != nil {
		return invalid("output.format", err.Error())
	}
	cfg.Output.Format = format

	style, err := NormalizeOverviewStyle(string(cfg.Sidebar.OverviewStyle))
	if err != nil {
		return invalid("sidebar.overview_style", err.Error())
	}
	cfg.Sidebar.OverviewStyle = style

	if !strings.HasPrefix(cfg.Nav.HomeLink, "/") && !strings.Contains(cfg.Nav.HomeLink, "://") {
		return invalid("nav.home_link", "must be an absolute path or URL")
	}
	if cfg.Watch.Interval < 0 {
		return invalid("watch.interval", "must not be negative")
	}
	return nil
}

func invalid(field, reason string) error {
	return ferrors.ConfigError(fmt.Sprintf("invalid %s: %s", field, reason)).
		WithContext("field", field).
		Build()
}
