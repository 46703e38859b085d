package stache

import (
	"sort"
	"strings"

	"github.com/itsatony/go-stache/internal"
	"go.uber.org/zap"
)

// Modifier renders one tag. name is the trimmed tag body after the sigil;
// c is the context active at the tag's position.
type Modifier func(r *Renderer, name string, c Context) (string, error)

// modifierRegistry maps sigils to modifiers. It is filled while the engine
// is built and only read afterwards.
type modifierRegistry struct {
	modifiers map[string]Modifier
	logger    *zap.Logger
}

func newModifierRegistry(logger *zap.Logger) *modifierRegistry {
	return &modifierRegistry{
		modifiers: make(map[string]Modifier),
		logger:    logger,
	}
}

// register adds a modifier with first-come-wins semantics.
func (reg *modifierRegistry) register(sigil string, m Modifier) error {
	if sigil != SigilDefault && !internal.ValidSigil(sigil) {
		return NewInvalidSigilError(sigil)
	}
	if m == nil {
		return NewNilModifierError(sigil)
	}
	if _, exists := reg.modifiers[sigil]; exists {
		reg.logger.Warn(LogMsgModifierCollision, zap.String(LogFieldSigil, sigil))
		return NewModifierExistsError(sigil)
	}
	reg.modifiers[sigil] = m
	reg.logger.Debug(LogMsgModifierRegistered, zap.String(LogFieldSigil, sigil))
	return nil
}

// mustRegister is used for built-ins that must always be available.
func (reg *modifierRegistry) mustRegister(sigil string, m Modifier) {
	if err := reg.register(sigil, m); err != nil {
		panic(err)
	}
}

// dispatch runs the modifier registered for sigil.
func (reg *modifierRegistry) dispatch(r *Renderer, sigil, name string, c Context) (string, error) {
	m, ok := reg.modifiers[sigil]
	if !ok {
		return "", NewUnknownModifierError(sigil, name)
	}
	return m(r, name, c)
}

// sigils returns the registered sigils in sorted order.
func (reg *modifierRegistry) sigils() []string {
	out := make([]string, 0, len(reg.modifiers))
	for s := range reg.modifiers {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// registerBuiltins installs the five built-in modifiers.
func registerBuiltins(reg *modifierRegistry) {
	reg.mustRegister(SigilDefault, renderEscaped)
	reg.mustRegister(SigilComment, renderComment)
	reg.mustRegister(SigilRaw, renderRaw)
	reg.mustRegister(SigilPartial, renderPartial)
	reg.mustRegister(SigilDelimiter, renderDelimiter)
}

// htmlEscaper maps the five HTML-significant characters to references.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes &, <, >, " and ' in s. All other bytes pass through.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

func renderEscaped(_ *Renderer, name string, c Context) (string, error) {
	return EscapeHTML(c.Get(name).String()), nil
}

func renderComment(_ *Renderer, _ string, _ Context) (string, error) {
	return "", nil
}

func renderRaw(_ *Renderer, name string, c Context) (string, error) {
	return c.Get(name).String(), nil
}

func renderPartial(r *Renderer, name string, c Context) (string, error) {
	return r.renderPartial(name, c)
}

func renderDelimiter(r *Renderer, body string, _ Context) (string, error) {
	tokens := strings.Fields(body)
	if len(tokens) != 2 {
		return "", NewMalformedDelimiterTagError(body)
	}
	if err := r.SetDelimiters(tokens[0], tokens[1]); err != nil {
		return "", err
	}
	return "", nil
}
