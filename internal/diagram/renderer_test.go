package diagram

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// fakeEngine counts initializations and echoes sources.
type fakeEngine struct {
	inits   int
	renders int
	configs []Config
	sources []string

	initErr   error
	renderErr error
}

func (f *fakeEngine) Initialize(_ context.Context, cfg Config) error {
	if f.initErr != nil {
		return f.initErr
	}
	f.inits++
	f.configs = append(f.configs, cfg)
	return nil
}

func (f *fakeEngine) Render(_ context.Context, id, source string) (string, error) {
	if f.renderErr != nil {
		return "", f.renderErr
	}
	f.renders++
	f.sources = append(f.sources, source)
	return fmt.Sprintf("<svg id=%q>%s</svg>", id, source), nil
}

func boolPtr(b bool) *bool { return &b }

func TestRender_InitializesOncePerConfig(t *testing.T) {
	engine := &fakeEngine{}
	r := NewRenderer(engine, Options{})
	ctx := context.Background()
	cfg := Config{"theme": "dark", "flowchart": map[string]any{"curve": "basis"}}

	first, err := r.Render(ctx, Params{ID: "mermaid-3", Code: "graph TD", Config: cfg})
	require.NoError(t, err)
	second, err := r.Render(ctx, Params{ID: "mermaid-3", Code: "graph TD", Config: cfg})
	require.NoError(t, err)

	assert.Equal(t, 1, engine.inits)
	assert.Equal(t, 2, engine.renders)
	assert.Equal(t, first, second)

	equal := Config{"flowchart": map[string]any{"curve": "basis"}, "theme": "dark"}
	_, err = r.Render(ctx, Params{ID: "x", Code: "a", Config: equal})
	require.NoError(t, err)
	assert.Equal(t, 1, engine.inits, "deeply equal configs share a fingerprint")

	_, err = r.Render(ctx, Params{ID: "x", Code: "a", Config: Config{"theme": "forest"}})
	require.NoError(t, err)
	assert.Equal(t, 2, engine.inits)
}

func TestRender_DefaultConfig(t *testing.T) {
	engine := &fakeEngine{}
	r := NewRenderer(engine, Options{DefaultConfig: Config{"theme": "default"}})

	_, err := r.Render(context.Background(), Params{ID: "a", Code: "graph"})
	require.NoError(t, err)
	require.Len(t, engine.configs, 1)
	assert.Equal(t, Config{"theme": "default"}, engine.configs[0])
}

func TestRender_ConfigRequired(t *testing.T) {
	engine := &fakeEngine{}
	r := NewRenderer(engine, Options{})

	_, err := r.Render(context.Background(), Params{ID: "a", Code: "graph"})
	require.ErrorIs(t, err, ErrConfigRequired)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	assert.Zero(t, engine.inits)
	assert.Zero(t, engine.renders)
}

func TestRender_Decode(t *testing.T) {
	ctx := context.Background()
	cfg := Config{}

	engine := &fakeEngine{}
	r := NewRenderer(engine, Options{})
	_, err := r.Render(ctx, Params{Code: "A--%3EB%0A", Config: cfg})
	require.NoError(t, err)
	_, err = r.Render(ctx, Params{Code: "A--%3EB%0A", Config: cfg, Decode: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, []string{"A--%3EB%0A", "A-->B\n"}, engine.sources)

	engine = &fakeEngine{}
	auto := NewRenderer(engine, Options{AutoDecode: true})
	_, err = auto.Render(ctx, Params{Code: "a%20b+c", Config: cfg})
	require.NoError(t, err)
	_, err = auto.Render(ctx, Params{Code: "a%20b", Config: cfg, Decode: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, []string{"a b+c", "a%20b"}, engine.sources)

	_, err = auto.Render(ctx, Params{Code: "bad%zz", Config: cfg})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestRender_EngineFailures(t *testing.T) {
	ctx := context.Background()
	parseErr := errors.New("Parse error on line 1")

	engine := &fakeEngine{renderErr: parseErr}
	r := NewRenderer(engine, Options{DefaultConfig: Config{}})
	_, err := r.Render(ctx, Params{ID: "d", Code: "graph ???"})
	require.ErrorIs(t, err, parseErr)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryDiagram))

	failing := &fakeEngine{initErr: errors.New("bad theme")}
	r = NewRenderer(failing, Options{DefaultConfig: Config{}})
	_, err = r.Render(ctx, Params{Code: "graph"})
	require.Error(t, err)

	failing.initErr = nil
	_, err = r.Render(ctx, Params{Code: "graph"})
	require.NoError(t, err)
	assert.Equal(t, 1, failing.inits, "a failed initialization is retried on the next call")
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	engine := &fakeEngine{}
	r := NewRenderer(engine, Options{DefaultConfig: Config{"theme": "a"}})

	_, err := r.Render(ctx, Params{Code: "x"})
	require.NoError(t, err)
	require.Equal(t, 1, engine.inits)

	require.NoError(t, r.Reset(ctx, nil))
	assert.Equal(t, 2, engine.inits, "reset re-applies the stored default")

	require.NoError(t, r.Reset(ctx, Config{"theme": "b"}))
	assert.Equal(t, 3, engine.inits)
	assert.Equal(t, Config{"theme": "b"}, r.DefaultConfig())

	_, err = r.Render(ctx, Params{Code: "x"})
	require.NoError(t, err)
	assert.Equal(t, 3, engine.inits)

	empty := &fakeEngine{}
	bare := NewRenderer(empty, Options{})
	require.NoError(t, bare.Reset(ctx, nil))
	assert.Zero(t, empty.inits)
}

func TestSetDefaultConfig(t *testing.T) {
	ctx := context.Background()
	engine := &fakeEngine{}
	r := NewRenderer(engine, Options{})

	require.NoError(t, r.SetDefaultConfig(ctx, Config{"theme": "neutral"}))
	assert.Equal(t, 1, engine.inits)

	_, err := r.Render(ctx, Params{Code: "x"})
	require.NoError(t, err)
	assert.Equal(t, 1, engine.inits)
}

func TestRenderersAreIndependent(t *testing.T) {
	ctx := context.Background()
	a, b := &fakeEngine{}, &fakeEngine{}
	ra := NewRenderer(a, Options{DefaultConfig: Config{"theme": "a"}})
	rb := NewRenderer(b, Options{DefaultConfig: Config{"theme": "a"}})

	_, err := ra.Render(ctx, Params{Code: "x"})
	require.NoError(t, err)
	_, err = rb.Render(ctx, Params{Code: "x"})
	require.NoError(t, err)

	assert.Equal(t, 1, a.inits)
	assert.Equal(t, 1, b.inits)
}

func TestFingerprint(t *testing.T) {
	k1, err := Fingerprint(Config{"b": 1, "a": []any{"x"}})
	require.NoError(t, err)
	k2, err := Fingerprint(Config{"a": []any{"x"}, "b": 1})
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	_, err = Fingerprint(Config{"fn": func() {}})
	require.Error(t, err)
}
