package stache

import (
	"errors"
	"strconv"
	"strings"

	"github.com/itsatony/go-cuserr"
)

// Sentinel errors wrapped by the matching NewXxxError constructors, so
// callers can branch with errors.Is.
var (
	ErrUnknownModifier       = errors.New(ErrMsgUnknownModifier)
	ErrMalformedDelimiterTag = errors.New(ErrMsgMalformedDelimiterTag)
	ErrPartialRecursionLimit = errors.New(ErrMsgPartialRecursion)
	ErrNoPartialLoader       = errors.New(ErrMsgNoPartialLoader)
	ErrPartialNotFound       = errors.New(ErrMsgPartialNotFound)
	ErrModifierExists        = errors.New(ErrMsgModifierExists)
	ErrInvalidSigil          = errors.New(ErrMsgInvalidSigil)
	ErrInvalidDelimiters     = errors.New(ErrMsgInvalidDelimiters)
	ErrLoaderClosed          = errors.New(ErrMsgLoaderClosed)
)

// NewUnknownModifierError creates an error for a tag whose sigil has no handler
func NewUnknownModifierError(sigil, tagName string) error {
	return cuserr.WrapStdError(ErrUnknownModifier, ErrCodeModifier, ErrMsgUnknownModifier).
		WithMetadata(MetaKeySigil, sigil).
		WithMetadata(MetaKeyTag, tagName)
}

// NewMalformedDelimiterTagError creates an error for a delimiter tag body that
// does not split into exactly two tokens
func NewMalformedDelimiterTagError(body string) error {
	return cuserr.WrapStdError(ErrMalformedDelimiterTag, ErrCodeModifier, ErrMsgMalformedDelimiterTag).
		WithMetadata(MetaKeyTag, body).
		WithMetadata(MetaKeyTokens, strconv.Itoa(len(strings.Fields(body))))
}

// NewPartialRecursionError creates an error for partial nesting beyond the limit
func NewPartialRecursionError(name string, depth, maxDepth int) error {
	return cuserr.WrapStdError(ErrPartialRecursionLimit, ErrCodePartial, ErrMsgPartialRecursion).
		WithMetadata(MetaKeyPartial, name).
		WithMetadata(MetaKeyDepth, strconv.Itoa(depth)).
		WithMetadata(MetaKeyMaxDepth, strconv.Itoa(maxDepth))
}

// NewNoPartialLoaderError creates an error for a partial tag rendered by an
// engine without a loader
func NewNoPartialLoaderError(name string) error {
	return cuserr.WrapStdError(ErrNoPartialLoader, ErrCodePartial, ErrMsgNoPartialLoader).
		WithMetadata(MetaKeyPartial, name)
}

// NewPartialNotFoundError creates the error bundled loaders return for an
// unknown partial name
func NewPartialNotFoundError(name string) error {
	return cuserr.WrapStdError(ErrPartialNotFound, ErrCodeLoader, ErrMsgPartialNotFound).
		WithMetadata(MetaKeyPartial, name)
}

// NewInvalidPartialNameError creates an error for names a loader refuses,
// such as paths escaping a filesystem root
func NewInvalidPartialNameError(name string) error {
	return cuserr.NewValidationError(ErrCodeLoader, ErrMsgInvalidPartialName).
		WithMetadata(MetaKeyPartial, name)
}

// NewModifierExistsError creates a modifier collision error
func NewModifierExistsError(sigil string) error {
	return cuserr.WrapStdError(ErrModifierExists, ErrCodeRegistry, ErrMsgModifierExists).
		WithMetadata(MetaKeySigil, sigil)
}

// NewInvalidSigilError creates an error for a sigil that cannot be registered
func NewInvalidSigilError(sigil string) error {
	return cuserr.WrapStdError(ErrInvalidSigil, ErrCodeRegistry, ErrMsgInvalidSigil).
		WithMetadata(MetaKeySigil, sigil)
}

// NewNilModifierError creates an error for a nil modifier registration
func NewNilModifierError(sigil string) error {
	return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgNilModifier).
		WithMetadata(MetaKeySigil, sigil)
}

// NewInvalidDelimitersError creates an error for an unusable delimiter pair
func NewInvalidDelimitersError(open, close string, cause error) error {
	msg := ErrMsgInvalidDelimiters
	if cause != nil {
		msg = msg + ": " + cause.Error()
	}
	return cuserr.WrapStdError(ErrInvalidDelimiters, ErrCodeConfig, msg).
		WithMetadata(MetaKeyOpen, open).
		WithMetadata(MetaKeyClose, close)
}

// NewLoaderClosedError creates an error for use of a closed loader
func NewLoaderClosedError() error {
	return cuserr.WrapStdError(ErrLoaderClosed, ErrCodeLoader, ErrMsgLoaderClosed)
}

// NewLoaderError wraps a backend failure of a bundled loader
func NewLoaderError(msg string, name string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeLoader, msg).
		WithMetadata(MetaKeyPartial, name)
}

// NewLoaderConfigError creates an error for an unusable loader configuration
func NewLoaderConfigError(msg string) error {
	return cuserr.NewValidationError(ErrCodeLoader, msg)
}

// NewUnknownLoaderDriverError creates an error for an unregistered driver name
func NewUnknownLoaderDriverError(driver string) error {
	return cuserr.NewValidationError(ErrCodeLoader, ErrMsgUnknownLoaderDriver).
		WithMetadata(MetaKeyDriver, driver)
}

// IsUnknownModifier reports whether err is an unknown modifier error
func IsUnknownModifier(err error) bool {
	return errors.Is(err, ErrUnknownModifier)
}

// IsMalformedDelimiterTag reports whether err is a malformed delimiter tag error
func IsMalformedDelimiterTag(err error) bool {
	return errors.Is(err, ErrMalformedDelimiterTag)
}

// IsPartialRecursionLimit reports whether err is a partial recursion limit error
func IsPartialRecursionLimit(err error) bool {
	return errors.Is(err, ErrPartialRecursionLimit)
}

// IsPartialNotFound reports whether err reports an unknown partial
func IsPartialNotFound(err error) bool {
	return errors.Is(err, ErrPartialNotFound)
}
