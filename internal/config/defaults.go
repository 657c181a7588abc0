package config

import (
	"runtime"
	"time"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

var defaultAppliers = []DefaultApplier{
	&docsDefaultApplier{},
	&navDefaultApplier{},
	&sidebarDefaultApplier{},
	&outputDefaultApplier{},
	&markdownDefaultApplier{},
	&diagramDefaultApplier{},
	&runtimeDefaultApplier{},
}

func applyDefaults(cfg *Config) error {
	for _, applier := range defaultAppliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}

type docsDefaultApplier struct{}

func (d *docsDefaultApplier) Domain() string { return "docs" }

func (d *docsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Docs.Root == "" {
		cfg.Docs.Root = "docs"
	}
	if cfg.Docs.Index == "" {
		cfg.Docs.Index = "index.md"
	}
	if len(cfg.Docs.Extensions) == 0 {
		cfg.Docs.Extensions = []string{".md"}
	}
	if cfg.Docs.Exclude == nil {
		cfg.Docs.Exclude = []string{".*", "node_modules", "public"}
	}
	if cfg.Docs.MaxDepth <= 0 {
		cfg.Docs.MaxDepth = 16
	}
	if cfg.Docs.Concurrency <= 0 {
		cfg.Docs.Concurrency = min(runtime.GOMAXPROCS(0), 8)
	}
	return nil
}

type navDefaultApplier struct{}

func (n *navDefaultApplier) Domain() string { return "nav" }

func (n *navDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Nav.HomeLabel == "" {
		cfg.Nav.HomeLabel = "Home"
	}
	if cfg.Nav.HomeLink == "" {
		cfg.Nav.HomeLink = "/"
	}
	return nil
}

type sidebarDefaultApplier struct{}

func (s *sidebarDefaultApplier) Domain() string { return "sidebar" }

func (s *sidebarDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Sidebar.OverviewLabel == "" {
		cfg.Sidebar.OverviewLabel = "Overview"
	}
	if cfg.Sidebar.RootGroupLabel == "" {
		cfg.Sidebar.RootGroupLabel = "Document Overview"
	}
	if cfg.Sidebar.OverviewStyle == "" {
		cfg.Sidebar.OverviewStyle = OverviewStyleLiteral
	}
	return nil
}

type outputDefaultApplier struct{}

func (o *outputDefaultApplier) Domain() string { return "output" }

func (o *outputDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Output.Format == "" {
		cfg.Output.Format = OutputFormatJSON
	}
	if cfg.Output.Path == "" {
		cfg.Output.Path = "docs/.vitepress/generated/site." + string(cfg.Output.Format)
	}
	return nil
}

type markdownDefaultApplier struct{}

func (m *markdownDefaultApplier) Domain() string { return "markdown" }

func (m *markdownDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Markdown.DiagramTag == "" {
		cfg.Markdown.DiagramTag = "mermaid"
	}
	if cfg.Markdown.DiagramComponent == "" {
		cfg.Markdown.DiagramComponent = "Mermaid"
	}
	if cfg.Markdown.RegexpLanguage == "" {
		cfg.Markdown.RegexpLanguage = "javascript"
	}
	return nil
}

type diagramDefaultApplier struct{}

func (d *diagramDefaultApplier) Domain() string { return "diagram" }

func (d *diagramDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Diagram.Command == "" {
		cfg.Diagram.Command = "mmdc"
	}
	if cfg.Diagram.Timeout <= 0 {
		cfg.Diagram.Timeout = 30 * time.Second
	}
	return nil
}

type runtimeDefaultApplier struct{}

func (r *runtimeDefaultApplier) Domain() string { return "runtime" }

func (r *runtimeDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	return nil
}
