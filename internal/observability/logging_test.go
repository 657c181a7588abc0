package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnav/internal/config"
)

func TestContextValuesAccumulate(t *testing.T) {
	ctx := WithBuildID(context.Background(), "build-123")
	ctx = WithStage(ctx, "sidebar")
	ctx = WithPage(ctx, "guide/intro.md")

	lc := GetContext(ctx)
	assert.Equal(t, "build-123", lc.BuildID)
	assert.Equal(t, "sidebar", lc.Stage)
	assert.Equal(t, "guide/intro.md", lc.Page)
}

func TestNewBuild_GeneratesUUID(t *testing.T) {
	ctx, id := NewBuild(context.Background())
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, GetContext(ctx).BuildID)
}

func TestInfoContext_IncludesContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := WithStage(WithBuildID(context.Background(), "b-1"), "scan")
	InfoContext(ctx, "scanned", slog.Int("entries", 3))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "scanned", rec["msg"])
	assert.Equal(t, "b-1", rec["build_id"])
	assert.Equal(t, "scan", rec["stage"])
	assert.EqualValues(t, 3, rec["entries"])
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.LoggingConfig{Level: config.LogLevelWarn, Format: config.LogFormatJSON}, false)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	logger = NewLogger(&buf, config.LoggingConfig{Level: config.LogLevelError, Format: config.LogFormatText}, true)
	logger.Debug("verbose wins")
	assert.Contains(t, buf.String(), "msg=\"verbose wins\"")
}
