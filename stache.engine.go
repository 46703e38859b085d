package stache

import (
	"context"
	"time"

	"github.com/itsatony/go-stache/internal"
	"go.uber.org/zap"
)

// Engine is the main entry point for rendering. It holds the modifier
// registry, partial loader and starting delimiters; it never holds render
// state, so one Engine may serve concurrent Render calls.
type Engine struct {
	registry *modifierRegistry
	config   *engineConfig
	sigils   string
	matchers *internal.Matchers // compiled for the starting delimiters, read-only
	logger   *zap.Logger
}

// New creates a new Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := newModifierRegistry(logger)
	registerBuiltins(registry)
	for _, entry := range config.modifiers {
		if err := registry.register(entry.sigil, entry.modifier); err != nil {
			return nil, err
		}
	}

	sigils := internal.MergeSigils(registry.sigils())
	delims := internal.Delimiters{Open: config.openDelim, Close: config.closeDelim}
	matchers, err := internal.Compile(delims, sigils, logger)
	if err != nil {
		return nil, NewInvalidDelimitersError(delims.Open, delims.Close, err)
	}

	logger.Debug(LogMsgEngineCreated,
		zap.Strings(LogFieldModifiers, registry.sigils()),
		zap.Int(LogFieldDepth, config.maxPartialDepth),
	)

	return &Engine{
		registry: registry,
		config:   config,
		sigils:   sigils,
		matchers: matchers,
		logger:   logger,
	}, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Render classifies data into a Context and renders template against it.
// ctx is handed to the partial loader; the core itself never blocks.
func (e *Engine) Render(ctx context.Context, template string, data map[string]any) (string, error) {
	return e.RenderContext(ctx, template, NewContext(data))
}

// RenderContext renders template against an already classified Context.
func (e *Engine) RenderContext(ctx context.Context, template string, c Context) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	e.logger.Debug(LogMsgRenderStart, zap.Int(LogFieldSource, len(template)))

	r := e.newRenderer(ctx)
	out, err := r.Render(template, c)
	if err != nil {
		return "", err
	}

	e.logger.Debug(LogMsgRenderEnd,
		zap.Int(LogFieldOutput, len(out)),
		zap.Duration(LogFieldDuration, time.Since(start)),
	)
	return out, nil
}

// Modifiers returns the registered sigils in sorted order. The default
// modifier is listed as the empty string.
func (e *Engine) Modifiers() []string {
	return e.registry.sigils()
}

// Delimiters returns the delimiters every render call starts with.
func (e *Engine) Delimiters() (open, close string) {
	return e.matchers.Delimiters.Open, e.matchers.Delimiters.Close
}

// MaxPartialDepth returns the configured partial nesting limit.
func (e *Engine) MaxPartialDepth() int {
	return e.config.maxPartialDepth
}

func (e *Engine) newRenderer(ctx context.Context) *Renderer {
	return &Renderer{
		engine:   e,
		ctx:      ctx,
		matchers: e.matchers,
	}
}

// Renderer carries the mutable state of one render call: the current
// delimiters with their compiled matchers and the partial depth. Section
// iterations and partials re-enter the same Renderer, so a delimiter change
// persists for the rest of the call. A Renderer is not safe for concurrent
// use.
type Renderer struct {
	engine   *Engine
	ctx      context.Context
	matchers *internal.Matchers
	depth    int
}

// Render expands sections and then tags of template against c, sharing
// this call's state.
func (r *Renderer) Render(template string, c Context) (string, error) {
	segs, err := r.expandSections(template, c)
	if err != nil {
		return "", err
	}
	return r.renderTags(segs, c)
}

// Delimiters returns the active delimiters.
func (r *Renderer) Delimiters() (open, close string) {
	return r.matchers.Delimiters.Open, r.matchers.Delimiters.Close
}

// SetDelimiters switches the active delimiters and recompiles the matchers.
func (r *Renderer) SetDelimiters(open, close string) error {
	delims := internal.Delimiters{Open: open, Close: close}
	if delims == r.matchers.Delimiters {
		return nil
	}
	matchers, err := internal.Compile(delims, r.engine.sigils, r.engine.logger)
	if err != nil {
		return NewInvalidDelimitersError(open, close, err)
	}
	r.matchers = matchers
	r.engine.logger.Debug(LogMsgDelimitersChanged,
		zap.String(LogFieldOpenDelim, open),
		zap.String(LogFieldCloseDelim, close),
	)
	return nil
}

// Context returns the context.Context of the render call.
func (r *Renderer) Context() context.Context {
	return r.ctx
}

// Depth returns the current partial nesting depth (0 at the top level).
func (r *Renderer) Depth() int {
	return r.depth
}

// renderPartial loads name and renders it against the current context.
// Loader errors are returned unchanged.
func (r *Renderer) renderPartial(name string, c Context) (string, error) {
	loader := r.engine.config.loader
	if loader == nil {
		return "", NewNoPartialLoaderError(name)
	}

	maxDepth := r.engine.config.maxPartialDepth
	if maxDepth > 0 && r.depth >= maxDepth {
		return "", NewPartialRecursionError(name, r.depth+1, maxDepth)
	}

	source, err := loader.Load(r.ctx, name)
	if err != nil {
		return "", err
	}

	r.depth++
	defer func() { r.depth-- }()

	r.engine.logger.Debug(LogMsgPartialIncluded,
		zap.String(LogFieldName, name),
		zap.Int(LogFieldDepth, r.depth),
	)
	return r.Render(source, c)
}
