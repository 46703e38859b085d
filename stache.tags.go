package stache

import (
	"strings"
)

// renderTags replaces the tags of every scannable segment through the
// modifier registry. The matchers are read again after each dispatch, so a
// delimiter tag applies to the text right after it. Modifier output is
// written as-is and never scanned.
func (r *Renderer) renderTags(segs []segment, c Context) (string, error) {
	var sb strings.Builder

	for _, seg := range segs {
		if seg.final {
			sb.WriteString(seg.text)
			continue
		}

		pos := 0
		for {
			match, ok := r.matchers.Tag.Find(seg.text, pos)
			if !ok {
				break
			}
			sb.WriteString(seg.text[pos:match.Start])

			out, err := r.engine.registry.dispatch(r, match.Sigil, match.Name, c)
			if err != nil {
				return "", err
			}
			sb.WriteString(out)
			pos = match.End
		}
		sb.WriteString(seg.text[pos:])
	}

	return sb.String(), nil
}
