package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}\n"))
	require.NoError(t, err)

	assert.Equal(t, "docs", cfg.Docs.Root)
	assert.Equal(t, "index.md", cfg.Docs.Index)
	assert.Equal(t, []string{".md"}, cfg.Docs.Extensions)
	assert.Equal(t, []string{".*", "node_modules", "public"}, cfg.Docs.Exclude)
	assert.Equal(t, 16, cfg.Docs.MaxDepth)
	assert.Positive(t, cfg.Docs.Concurrency)
	assert.Equal(t, "Home", cfg.Nav.HomeLabel)
	assert.Equal(t, "/", cfg.Nav.HomeLink)
	assert.Equal(t, "Overview", cfg.Sidebar.OverviewLabel)
	assert.Equal(t, OverviewStyleLiteral, cfg.Sidebar.OverviewStyle)
	assert.Equal(t, "Document Overview", cfg.Sidebar.RootGroupLabel)
	assert.Equal(t, OutputFormatJSON, cfg.Output.Format)
	assert.Equal(t, "docs/.vitepress/generated/site.json", cfg.Output.Path)
	assert.Equal(t, "mermaid", cfg.Markdown.DiagramTag)
	assert.Equal(t, "Mermaid", cfg.Markdown.DiagramComponent)
	assert.Equal(t, "javascript", cfg.Markdown.RegexpLanguage)
	assert.Equal(t, "mmdc", cfg.Diagram.Command)
	assert.Equal(t, 30*time.Second, cfg.Diagram.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
}

func TestParse_ExplicitValues(t *testing.T) {
	yml := `
docs:
  root: content
  exclude: []
  max_depth: 4
nav:
  home_label: 首页
sidebar:
  overview_label: 概览
  overview_style: Formatted
  collapsed: true
output:
  format: yml
  path: out/site.yaml
watch:
  debounce: 2s
  interval: 10m
logging:
  level: DEBUG
  format: json
`
	cfg, err := Parse([]byte(yml))
	require.NoError(t, err)

	assert.Equal(t, "content", cfg.Docs.Root)
	assert.Empty(t, cfg.Docs.Exclude)
	assert.Equal(t, 4, cfg.Docs.MaxDepth)
	assert.Equal(t, "首页", cfg.Nav.HomeLabel)
	assert.Equal(t, "概览", cfg.Sidebar.OverviewLabel)
	assert.Equal(t, OverviewStyleFormatted, cfg.Sidebar.OverviewStyle)
	assert.True(t, cfg.Sidebar.Collapsed)
	assert.Equal(t, OutputFormatYAML, cfg.Output.Format)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
	assert.Equal(t, 10*time.Minute, cfg.Watch.Interval)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	t.Setenv("DOCNAV_TEST_ROOT", "handbook")
	cfg, err := Parse([]byte("docs:\n  root: ${DOCNAV_TEST_ROOT}\n"))
	require.NoError(t, err)
	assert.Equal(t, "handbook", cfg.Docs.Root)
}

func TestParse_LogLevelEnvOverride(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	cfg, err := Parse([]byte("logging:\n  level: debug\n"))
	require.NoError(t, err)
	assert.Equal(t, LogLevelError, cfg.Logging.Level)
}

func TestParse_ValidationErrors(t *testing.T) {
	cases := map[string]string{
		"bad format":     "output:\n  format: toml\n",
		"bad style":      "sidebar:\n  overview_style: fancy\n",
		"index path":     "docs:\n  index: sub/index.md\n",
		"extension dot":  "docs:\n  extensions: [md]\n",
		"bad glob":       "docs:\n  exclude: ['[']\n",
		"relative home":  "nav:\n  home_link: home\n",
		"negative watch": "watch:\n  interval: -1s\n",
	}
	for name, yml := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(yml))
			require.Error(t, err)
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig), "got %v", err)
		})
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("docs: [unterminated\n"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.Contains(t, err.Error(), "configuration file not found")
}

func TestInit_WritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "docs", cfg.Docs.Root)
	assert.Equal(t, "default", cfg.Diagram.Engine["theme"])

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	require.NoError(t, Init(path, true))
	_, err = os.Stat(path)
	require.NoError(t, err)
}
