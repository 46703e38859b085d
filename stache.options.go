package stache

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	openDelim       string
	closeDelim      string
	maxPartialDepth int
	loader          PartialLoader
	modifiers       []modifierEntry
	logger          *zap.Logger
}

// modifierEntry is a custom modifier queued for registration.
type modifierEntry struct {
	sigil    string
	modifier Modifier
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		openDelim:       DefaultOpenDelim,
		closeDelim:      DefaultCloseDelim,
		maxPartialDepth: DefaultMaxPartialDepth,
		loader:          nil,
		logger:          nil,
	}
}

// WithDelimiters sets the delimiters every render call starts with.
// Default: "{{" and "}}"
func WithDelimiters(open, close string) Option {
	return func(c *engineConfig) {
		if open != "" {
			c.openDelim = open
		}
		if close != "" {
			c.closeDelim = close
		}
	}
}

// WithMaxPartialDepth sets the maximum partial nesting depth.
// Use 0 for unlimited depth.
// Default: 32
func WithMaxPartialDepth(depth int) Option {
	return func(c *engineConfig) {
		c.maxPartialDepth = depth
	}
}

// WithPartialLoader sets the collaborator resolving partial names to
// template text.
// Default: nil (partial tags fail with ErrNoPartialLoader)
func WithPartialLoader(loader PartialLoader) Option {
	return func(c *engineConfig) {
		c.loader = loader
	}
}

// WithModifier registers a handler for a custom sigil. Built-in sigils
// cannot be replaced; New fails with ErrModifierExists.
func WithModifier(sigil string, m Modifier) Option {
	return func(c *engineConfig) {
		c.modifiers = append(c.modifiers, modifierEntry{sigil: sigil, modifier: m})
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}
