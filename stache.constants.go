package stache

import (
	"time"

	"github.com/itsatony/go-stache/internal"
)

// Delimiter constants
const (
	DefaultOpenDelim  = internal.StrOpenDelim
	DefaultCloseDelim = internal.StrCloseDelim
)

// Built-in sigils. SigilDefault selects the handler for tags without a sigil.
const (
	SigilDefault   = ""
	SigilRaw       = "{"
	SigilComment   = "!"
	SigilPartial   = ">"
	SigilDelimiter = "="
)

// ImplicitIteratorName is the name under which a scalar sequence item is
// exposed to the section body.
const ImplicitIteratorName = "."

// Engine defaults
const (
	// DefaultMaxPartialDepth bounds partial nesting; 0 disables the limit.
	DefaultMaxPartialDepth = 32

	// MaxContextDepth bounds how deep nested data is classified; deeper
	// values are Absent.
	MaxContextDepth = 64
)

// Truthiness string forms
const (
	StrTrue  = "true"
	StrFalse = "false"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	ErrMsgUnknownModifier       = "no modifier registered for sigil"
	ErrMsgMalformedDelimiterTag = "delimiter tag must hold exactly two whitespace-separated tokens"
	ErrMsgPartialRecursion      = "partial recursion limit exceeded"
	ErrMsgNoPartialLoader       = "no partial loader configured"
	ErrMsgPartialNotFound       = "partial not found"
	ErrMsgModifierExists        = "modifier already registered for sigil"
	ErrMsgInvalidSigil          = "sigil must be empty or a single punctuation character other than '#' and '/'"
	ErrMsgNilModifier           = "modifier cannot be nil"
	ErrMsgInvalidDelimiters     = "invalid delimiters"
	ErrMsgInvalidPartialName    = "invalid partial name"
	ErrMsgLoaderClosed          = "partial loader is closed"
	ErrMsgLoaderFailed          = "partial loader failed"
	ErrMsgUnknownLoaderDriver   = "unknown partial loader driver"
	ErrMsgEmptyLoaderRoot       = "filesystem loader root cannot be empty"
	ErrMsgEmptyConnString       = "connection string cannot be empty"
	ErrMsgDatabaseOpen          = "failed to open partial database"
	ErrMsgDatabaseMigrate       = "failed to migrate partial database"
	ErrMsgDatabaseQuery         = "partial database query failed"
	ErrMsgInvalidTablePrefix    = "table prefix may only contain letters, digits and underscores"
	ErrMsgPatternMissingName    = "filesystem pattern must contain [name]"
)

// Error code constants for categorization
const (
	ErrCodeModifier = "STACHE_MODIFIER"
	ErrCodePartial  = "STACHE_PARTIAL"
	ErrCodeRegistry = "STACHE_REGISTRY"
	ErrCodeConfig   = "STACHE_CONFIG"
	ErrCodeLoader   = "STACHE_LOADER"
)

// Error metadata keys
const (
	MetaKeySigil    = "sigil"
	MetaKeyTag      = "tag"
	MetaKeyPartial  = "partial"
	MetaKeyDepth    = "depth"
	MetaKeyMaxDepth = "max_depth"
	MetaKeyTokens   = "tokens"
	MetaKeyOpen     = "open_delim"
	MetaKeyClose    = "close_delim"
	MetaKeyDriver   = "driver"
)

// Log message constants
const (
	LogMsgEngineCreated      = "engine created"
	LogMsgModifierRegistered = "modifier registered"
	LogMsgModifierCollision  = "modifier registration collision - first-come-wins"
	LogMsgRenderStart        = "starting render"
	LogMsgRenderEnd          = "render complete"
	LogMsgSectionExpanded    = "section expanded"
	LogMsgPartialIncluded    = "partial included"
	LogMsgDelimitersChanged  = "delimiters changed"
	LogMsgLoaderCacheHit     = "partial cache hit"
	LogMsgLoaderCacheMiss    = "partial cache miss"
)

// Log field constants
const (
	LogFieldSigil      = "sigil"
	LogFieldName       = "name"
	LogFieldKind       = "kind"
	LogFieldItems      = "items"
	LogFieldDepth      = "depth"
	LogFieldSource     = "source_length"
	LogFieldOutput     = "output_length"
	LogFieldOpenDelim  = "open_delim"
	LogFieldCloseDelim = "close_delim"
	LogFieldDuration   = "duration"
	LogFieldModifiers  = "modifiers"
)

// Value kind names for logging and debugging
const (
	KindNameAbsent   = "absent"
	KindNameScalar   = "scalar"
	KindNameSingle   = "single"
	KindNameSequence = "sequence"
)

// Loader driver names
const (
	LoaderDriverMemory     = "memory"
	LoaderDriverFilesystem = "filesystem"
	LoaderDriverPostgres   = "postgres"
	LoaderDriverSQLite     = "sqlite"
)

// Filesystem loader defaults
const (
	// DefaultFilesystemPattern maps a partial name to a file path relative to
	// the loader root. [name] is replaced with the partial name.
	DefaultFilesystemPattern = "[name].mustache"
	FilesystemPatternStart   = "["
	FilesystemPatternEnd     = "]"
	FilesystemPatternName    = "name"
)

// Cache loader defaults
const (
	DefaultCacheTTL         = 5 * time.Minute
	DefaultCacheMaxEntries  = 1000
	DefaultNegativeCacheTTL = 30 * time.Second
)

// SQL loader defaults
const (
	DefaultSQLTablePrefix     = "stache_"
	DefaultSQLQueryTimeout    = 30 * time.Second
	DefaultSQLMaxOpenConns    = 25
	DefaultSQLMaxIdleConns    = 5
	DefaultSQLConnMaxLifetime = 5 * time.Minute
	SQLPartialsTableSuffix    = "partials"
	SQLiteMaxOpenConns        = 1
)
