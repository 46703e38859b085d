package internal

import (
	"strings"

	"go.uber.org/zap"
)

// SectionMatch is a located section block.
type SectionMatch struct {
	Start   int    // Offset of the opening marker
	End     int    // Offset just past the closing tag
	RawName string // Name exactly as written, used to find the closer
	Name    string // Trimmed name used for lookup
	Inner   string // Body between opener and closer, trimmed
}

// TagMatch is a located tag.
type TagMatch struct {
	Start int
	End   int
	Sigil string // Empty for the default modifier
	Name  string // Trimmed
}

// SectionMatcher locates section blocks for one delimiter pair.
type SectionMatcher struct {
	delims Delimiters
}

// TagMatcher locates tags for one delimiter pair and sigil set.
type TagMatcher struct {
	delims Delimiters
	sigils string
}

// Matchers bundles the two matchers compiled for a delimiter pair.
type Matchers struct {
	Delimiters Delimiters
	Section    SectionMatcher
	Tag        TagMatcher
}

// Compile builds the section and tag matchers for d. sigils is the set of
// characters treated as a sigil after the open delimiter.
func Compile(d Delimiters, sigils string, logger *zap.Logger) (*Matchers, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgMatchersCompiled,
		zap.String(LogFieldOpenDelim, d.Open),
		zap.String(LogFieldCloseDelim, d.Close),
		zap.String(LogFieldSigils, sigils),
	)
	return &Matchers{
		Delimiters: d,
		Section:    SectionMatcher{delims: d},
		Tag:        TagMatcher{delims: d, sigils: sigils},
	}, nil
}

// Find returns the leftmost section at or after from whose opener has a
// closer with the same raw name. The closer is the nearest one after the
// opener; nesting depth is not tracked.
func (m SectionMatcher) Find(s string, from int) (SectionMatch, bool) {
	opener := m.delims.sectionOpener()
	closeDelim := m.delims.Close

	for i := from; i < len(s); {
		idx := strings.Index(s[i:], opener)
		if idx < 0 {
			return SectionMatch{}, false
		}
		start := i + idx
		nameStart := start + len(opener)

		c := strings.Index(s[nameStart:], closeDelim)
		if c < 0 {
			// No later opener can be closed either
			return SectionMatch{}, false
		}
		rawName := s[nameStart : nameStart+c]
		bodyStart := nameStart + c + len(closeDelim)

		closer := m.delims.sectionCloser(rawName)
		q := strings.Index(s[bodyStart:], closer)
		if q < 0 {
			i = start + 1
			continue
		}

		return SectionMatch{
			Start:   start,
			End:     bodyStart + q + len(closer),
			RawName: rawName,
			Name:    strings.TrimSpace(rawName),
			Inner:   strings.TrimSpace(s[bodyStart : bodyStart+q]),
		}, true
	}
	return SectionMatch{}, false
}

// Find returns the leftmost tag at or after from. Section markers are
// skipped so unmatched sections stay literal.
func (m TagMatcher) Find(s string, from int) (TagMatch, bool) {
	open := m.delims.Open

	for i := from; i < len(s); {
		idx := strings.Index(s[i:], open)
		if idx < 0 {
			return TagMatch{}, false
		}
		start := i + idx
		if match, ok := m.matchAt(s, start); ok {
			return match, true
		}
		i = start + 1
	}
	return TagMatch{}, false
}

// matchAt tries a tag whose open delimiter starts at start. A sigil is tried
// first; when no name can follow it the character is read as part of a
// default tag name instead.
func (m TagMatcher) matchAt(s string, start int) (TagMatch, bool) {
	body := start + len(m.delims.Open)
	if body < len(s) && (s[body] == CharSectionOpen || s[body] == CharSectionClose) {
		return TagMatch{}, false
	}

	if body < len(s) && strings.IndexByte(m.sigils, s[body]) >= 0 {
		sigil := s[body : body+1]
		if nameEnd, end, ok := m.closeAfter(s, body+1, sigil); ok {
			return TagMatch{
				Start: start,
				End:   end,
				Sigil: sigil,
				Name:  strings.TrimSpace(s[body+1 : nameEnd]),
			}, true
		}
	}

	if nameEnd, end, ok := m.closeAfter(s, body, ""); ok {
		return TagMatch{
			Start: start,
			End:   end,
			Name:  strings.TrimSpace(s[body:nameEnd]),
		}, true
	}
	return TagMatch{}, false
}

// closeAfter finds the earliest close for a non-empty, single-line name
// beginning at pos. The sigil may be repeated right before the close.
func (m TagMatcher) closeAfter(s string, pos int, sigil string) (nameEnd int, end int, ok bool) {
	closeDelim := m.delims.Close

	for k := pos + 1; k <= len(s); k++ {
		if s[k-1] == CharNewline {
			return 0, 0, false
		}
		rest := s[k:]
		if sigil != "" && strings.HasPrefix(rest, sigil) && strings.HasPrefix(rest[len(sigil):], closeDelim) {
			return k, m.swallowTail(s, k+len(sigil)+len(closeDelim)), true
		}
		if strings.HasPrefix(rest, closeDelim) {
			return k, m.swallowTail(s, k+len(closeDelim)), true
		}
	}
	return 0, 0, false
}

// swallowTail extends end over repeated trailing close characters.
func (m TagMatcher) swallowTail(s string, end int) int {
	tail := m.delims.closeTail()
	for end < len(s) && s[end] == tail {
		end++
	}
	return end
}
