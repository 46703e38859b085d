// Package stache is a small logic-less template engine in the Mustache
// family. Templates are plain text with tags bounded by a delimiter pair,
// {{ and }} by default:
//
//	{{name}}               escaped substitution
//	{{{name}}}             raw substitution
//	{{! comment }}         discarded
//	{{#items}}…{{/items}}  section
//	{{> header}}           partial
//	{{=<% %>=}}            delimiter change
//
// A render call first expands sections and then resolves the remaining tags.
// Tags are dispatched on their sigil through a per-engine modifier registry;
// custom sigils can be added with WithModifier.
//
// Basic usage:
//
//	engine := stache.MustNew()
//	out, err := engine.Render(ctx, "Hello {{name}}!", map[string]any{"name": "World"})
//
// Partials are resolved through a PartialLoader supplied by the caller.
// Memory, filesystem, cached and SQL backed loaders are provided.
//
// Missing names render as the empty string, and markup without a matching
// closer is left in the output untouched.
package stache

import (
	"context"
	"sync"
)

var (
	defaultEngine     *Engine
	defaultEngineOnce sync.Once
)

// Render renders template against data with a default engine that has no
// partial loader.
func Render(template string, data map[string]any) (string, error) {
	defaultEngineOnce.Do(func() {
		defaultEngine = MustNew()
	})
	return defaultEngine.Render(context.Background(), template, data)
}
