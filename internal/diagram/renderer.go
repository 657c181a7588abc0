// Package diagram renders diagram sources through a diagram engine, skipping
// engine re-initialization while the configuration stays the same.
package diagram

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"time"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/metrics"
)

// ErrConfigRequired is returned when neither the call nor the renderer supplies a configuration.
var ErrConfigRequired = errors.New("diagram rendering requires a configuration")

// Config is an engine configuration object, for mermaid the argument of mermaid.initialize.
type Config map[string]any

// Engine draws diagrams. Initialize is called only when the configuration changes.
type Engine interface {
	Initialize(ctx context.Context, cfg Config) error
	Render(ctx context.Context, id, source string) (string, error)
}

// Options configures a Renderer.
type Options struct {
	DefaultConfig Config
	// AutoDecode percent-decodes sources for calls that leave Params.Decode unset.
	AutoDecode bool
	Recorder   metrics.Recorder
}

// Params describes one render call.
type Params struct {
	ID   string
	Code string
	// Config overrides the default configuration for this call.
	Config Config
	// Decode selects percent-decoding of Code; nil defers to Options.AutoDecode.
	Decode *bool
}

// Renderer tracks the configuration the engine was last initialized with.
// It is not safe for concurrent use.
type Renderer struct {
	engine        Engine
	autoDecode    bool
	recorder      metrics.Recorder
	defaultConfig Config

	lastKey     string
	initialized bool
}

// NewRenderer creates a renderer over engine. The engine is not initialized until first use.
func NewRenderer(engine Engine, opts Options) *Renderer {
	rec := opts.Recorder
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Renderer{
		engine:        engine,
		autoDecode:    opts.AutoDecode,
		recorder:      rec,
		defaultConfig: opts.DefaultConfig,
	}
}

// DefaultConfig returns the configuration used when a call supplies none.
func (r *Renderer) DefaultConfig() Config { return r.defaultConfig }

// Render draws p.Code with the engine. The engine is initialized first when
// the effective configuration differs from the last successful
// initialization. Results are never cached.
func (r *Renderer) Render(ctx context.Context, p Params) (string, error) {
	cfg := p.Config
	if cfg == nil {
		cfg = r.defaultConfig
	}
	if cfg == nil {
		return "", ferrors.WrapError(ErrConfigRequired, ferrors.CategoryValidation, "no diagram configuration").
			WithContext("id", p.ID).
			Build()
	}
	if err := r.ensureInitialized(ctx, cfg); err != nil {
		return "", err
	}

	source := p.Code
	decode := r.autoDecode
	if p.Decode != nil {
		decode = *p.Decode
	}
	if decode {
		decoded, err := url.PathUnescape(source)
		if err != nil {
			return "", ferrors.WrapError(err, ferrors.CategoryValidation, "diagram source is not percent-encoded").
				WithContext("id", p.ID).
				Build()
		}
		source = decoded
	}

	start := time.Now()
	svg, err := r.engine.Render(ctx, p.ID, source)
	r.recorder.ObserveDiagramRender(time.Since(start), metrics.ResultOf(err, ctx.Err() != nil))
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryDiagram, "diagram render failed").
			WithContext("id", p.ID).
			Build()
	}
	return svg, nil
}

// Reset forgets the last initialization. A non-nil cfg replaces the default
// configuration; the engine is re-initialized with the default when one is set.
func (r *Renderer) Reset(ctx context.Context, cfg Config) error {
	if cfg != nil {
		r.defaultConfig = cfg
	}
	r.lastKey = ""
	r.initialized = false
	if r.defaultConfig == nil {
		return nil
	}
	return r.ensureInitialized(ctx, r.defaultConfig)
}

// SetDefaultConfig replaces the default configuration and initializes the engine with it.
func (r *Renderer) SetDefaultConfig(ctx context.Context, cfg Config) error {
	r.defaultConfig = cfg
	if cfg == nil {
		return nil
	}
	return r.ensureInitialized(ctx, cfg)
}

func (r *Renderer) ensureInitialized(ctx context.Context, cfg Config) error {
	key, err := Fingerprint(cfg)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryValidation, "diagram configuration is not serializable").Build()
	}
	if r.initialized && key == r.lastKey {
		return nil
	}
	if err := r.engine.Initialize(ctx, cfg); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryDiagram, "diagram engine initialization failed").Build()
	}
	r.recorder.IncDiagramEngineInit()
	r.lastKey = key
	r.initialized = true
	return nil
}

// Fingerprint serializes cfg to a comparable key. Map keys are sorted, so
// configurations that are deeply equal share a fingerprint.
func Fingerprint(cfg Config) (string, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
