package internal

import (
	"strings"
)

// Delimiters is an immutable open/close marker pair bounding tags and sections.
type Delimiters struct {
	Open  string
	Close string
}

// DefaultDelimiters returns the {{ }} pair.
func DefaultDelimiters() Delimiters {
	return Delimiters{
		Open:  StrOpenDelim,
		Close: StrCloseDelim,
	}
}

// Validate reports an error when either marker is empty.
func (d Delimiters) Validate() error {
	if d.Open == "" {
		return &MatcherError{Message: ErrMsgEmptyOpenDelim}
	}
	if d.Close == "" {
		return &MatcherError{Message: ErrMsgEmptyCloseDelim}
	}
	return nil
}

// String returns the pair in the form used by a delimiter tag body.
func (d Delimiters) String() string {
	return d.Open + " " + d.Close
}

// sectionOpener returns the marker starting a section (e.g., "{{#").
func (d Delimiters) sectionOpener() string {
	return d.Open + string(CharSectionOpen)
}

// sectionCloser returns the full closing tag for a raw section name.
func (d Delimiters) sectionCloser(rawName string) string {
	return d.Open + string(CharSectionClose) + rawName + d.Close
}

// closeTail is the last byte of the close marker; a tag swallows any run of
// it that directly follows the close marker.
func (d Delimiters) closeTail() byte {
	return d.Close[len(d.Close)-1]
}

// ValidSigil reports whether s can name a modifier: a single punctuation
// byte that is not section syntax.
func ValidSigil(s string) bool {
	if len(s) != 1 {
		return false
	}
	ch := s[0]
	if ch == CharSectionOpen || ch == CharSectionClose {
		return false
	}
	if ch <= ' ' || ch >= 0x7f {
		return false
	}
	return !isLetter(ch) && !isDigit(ch) && ch != '_' && ch != '.'
}

// MergeSigils returns SigilCandidates extended with any extra sigils.
func MergeSigils(extra []string) string {
	var sb strings.Builder
	sb.WriteString(SigilCandidates)
	for _, s := range extra {
		if ValidSigil(s) && !strings.Contains(sb.String(), s) {
			sb.WriteString(s)
		}
	}
	return sb.String()
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// MatcherError represents a delimiter or sigil configuration error
type MatcherError struct {
	Message string
}

func (e *MatcherError) Error() string {
	return e.Message
}
