package stache

import (
	"strings"

	"go.uber.org/zap"
)

// segment is a run of section-expanded text. Final segments hold rendered
// iteration output and are not scanned for tags again.
type segment struct {
	text  string
	final bool
}

// appendRaw adds text as a tag-scannable segment, merging it with a
// preceding one so a tag split by a section splice is still found.
func appendRaw(segs []segment, text string) []segment {
	if text == "" {
		return segs
	}
	if n := len(segs); n > 0 && !segs[n-1].final {
		segs[n-1].text += text
		return segs
	}
	return append(segs, segment{text: text})
}

// expandSections replaces every section block of template under the
// current delimiters. The scan moves forward with a cursor:
//   - sequence: the body is rendered once per item context and emitted as
//     final output;
//   - other truthy values: the body is spliced back in front of the cursor
//     so nested sections and tags resolve against c;
//   - absent or falsy values: the block is dropped.
func (r *Renderer) expandSections(template string, c Context) ([]segment, error) {
	var segs []segment
	rest := template

	for {
		match, ok := r.matchers.Section.Find(rest, 0)
		if !ok {
			return appendRaw(segs, rest), nil
		}
		segs = appendRaw(segs, rest[:match.Start])
		value := c.Get(match.Name)

		switch {
		case value.Kind() == KindSequence:
			var sb strings.Builder
			for _, item := range value.Items() {
				out, err := r.Render(match.Inner, item)
				if err != nil {
					return nil, err
				}
				sb.WriteString(out)
			}
			segs = append(segs, segment{text: sb.String(), final: true})
			rest = rest[match.End:]
		case value.Truthy():
			rest = match.Inner + rest[match.End:]
		default:
			rest = rest[match.End:]
		}

		r.engine.logger.Debug(LogMsgSectionExpanded,
			zap.String(LogFieldName, match.Name),
			zap.Stringer(LogFieldKind, value.Kind()),
			zap.Int(LogFieldItems, len(value.Items())),
		)
	}
}
