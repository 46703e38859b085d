package internal

// Default delimiters
const (
	StrOpenDelim  = "{{"
	StrCloseDelim = "}}"
)

// Structural markers that follow the open delimiter of a section
const (
	CharSectionOpen  = '#'
	CharSectionClose = '/'
	CharNewline      = '\n'
)

// SigilCandidates lists the punctuation recognised as a tag sigil when it
// directly follows the open delimiter. A candidate without a registered
// handler is dispatched anyway and reported as an unknown modifier.
const SigilCandidates = "!$%&*+:;<=>?@^{|~"

// Error message constants for matcher compilation
const (
	ErrMsgEmptyOpenDelim  = "open delimiter cannot be empty"
	ErrMsgEmptyCloseDelim = "close delimiter cannot be empty"
)

// Log message constants
const (
	LogMsgMatchersCompiled = "matchers compiled"
)

// Log field constants
const (
	LogFieldOpenDelim  = "open_delim"
	LogFieldCloseDelim = "close_delim"
	LogFieldSigils     = "sigils"
)
