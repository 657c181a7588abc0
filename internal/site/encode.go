package site

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/navigation"
)

// SiteConfig is the configuration object read by the site generator at build start.
type SiteConfig struct {
	Nav     []navigation.NavItem `json:"nav" yaml:"nav"`
	Sidebar navigation.Sidebar   `json:"sidebar" yaml:"sidebar"`
}

const generatedHeader = "// Code generated by docnav. DO NOT EDIT.\n"

// Encode serializes site in the given output format.
func Encode(site *SiteConfig, format config.OutputFormat) ([]byte, error) {
	switch format {
	case config.OutputFormatJSON, "":
		data, err := json.MarshalIndent(site, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal site json: %w", err)
		}
		return append(data, '\n'), nil

	case config.OutputFormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(site); err != nil {
			return nil, fmt.Errorf("marshal site yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("marshal site yaml: %w", err)
		}
		return buf.Bytes(), nil

	case config.OutputFormatTS:
		nav, err := json.MarshalIndent(site.Nav, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal nav: %w", err)
		}
		sidebar, err := json.MarshalIndent(site.Sidebar, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal sidebar: %w", err)
		}
		var buf bytes.Buffer
		buf.WriteString(generatedHeader)
		fmt.Fprintf(&buf, "\nexport const nav = %s;\n", nav)
		fmt.Fprintf(&buf, "\nexport const sidebar = %s;\n", sidebar)
		buf.WriteString("\nexport default {nav, sidebar};\n")
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}
