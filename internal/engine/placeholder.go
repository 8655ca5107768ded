package engine

import (
	"strings"

	"github.com/aretw0/tessera/pkg/domain"
)

const (
	placeholderOpen  = "[["
	placeholderClose = "]]"
)

// Substitutor resolves placeholder markers inside included template content.
// Non-placeholder text is left untouched, including any invocation markers
// that belong to this nesting level: those are handled a recursion level up
// or down, never re-scanned here.
//
// The zero value is ready to use.
type Substitutor struct{}

// Substitute returns content with every placeholder resolved against args:
// escaped placeholders lose their escape character, plain placeholders emit
// the mapped value or nothing, defaulted placeholders emit the mapped value
// or their literal default. Output is assembled by copying untouched slices
// of the original content between matches.
func (s Substitutor) Substitute(content string, args map[string]string) string {
	placeholders := s.Scan(content)
	if len(placeholders) == 0 {
		return content
	}

	var out strings.Builder
	out.Grow(len(content))
	prev := 0
	for _, ph := range placeholders {
		out.WriteString(content[prev:ph.Start])
		switch ph.Kind {
		case domain.PlaceholderEscaped:
			out.WriteString(ph.RawText[1:])
		case domain.PlaceholderPlain:
			// A missing argument leaves no trace. Authors must not
			// rely on placeholders being visibly broken.
			if value, ok := args[ph.Name]; ok {
				out.WriteString(value)
			}
		case domain.PlaceholderWithDefault:
			if value, ok := args[ph.Name]; ok {
				out.WriteString(value)
			} else {
				out.WriteString(ph.Default)
			}
		}
		prev = ph.End
	}
	out.WriteString(content[prev:])
	return out.String()
}

// Scan returns every placeholder in content in document order, with the
// same non-overlap and original-offset guarantees as Scanner.Scan.
func (s Substitutor) Scan(content string) []domain.Placeholder {
	var found []domain.Placeholder
	for i := 0; i < len(content); {
		rel := strings.Index(content[i:], placeholderOpen)
		if rel < 0 {
			break
		}
		open := i + rel
		if ph, ok := s.match(content, open); ok {
			found = append(found, ph)
			i = ph.End
			continue
		}
		// Advance one byte only: in a run like [[[ the real marker may
		// start inside the delimiter that just failed to match.
		i = open + 1
	}
	return found
}

func (s Substitutor) match(content string, open int) (domain.Placeholder, bool) {
	if ph, ok := s.matchEscaped(content, open); ok {
		return ph, true
	}
	return s.matchArgument(content, open)
}

// matchEscaped reads \[[#...]], closing on the same line.
func (s Substitutor) matchEscaped(content string, open int) (domain.Placeholder, bool) {
	if open == 0 || content[open-1] != escapeChar {
		return domain.Placeholder{}, false
	}
	body := open + len(placeholderOpen)
	if body >= len(content) || content[body] != invocationSigil {
		return domain.Placeholder{}, false
	}
	end, ok := closeOnSameLine(content, body, placeholderClose)
	if !ok {
		return domain.Placeholder{}, false
	}
	return domain.Placeholder{
		Start:   open - 1,
		End:     end,
		Kind:    domain.PlaceholderEscaped,
		RawText: content[open-1 : end],
	}, true
}

// matchArgument reads [[ <ws> #name <ws> ]] or [[ <ws> #name <ws> default ]].
func (s Substitutor) matchArgument(content string, open int) (domain.Placeholder, bool) {
	j := skipSpace(content, open+len(placeholderOpen))
	if j >= len(content) || content[j] != invocationSigil {
		return domain.Placeholder{}, false
	}
	j++

	nameStart := j
	for j < len(content) && !isSpace(content[j]) && content[j] != ']' {
		j++
	}
	if j == nameStart {
		return domain.Placeholder{}, false
	}
	name := content[nameStart:j]

	rest := skipSpace(content, j)
	if strings.HasPrefix(content[rest:], placeholderClose) {
		// [[#name]] — plain.
		end := rest + len(placeholderClose)
		return domain.Placeholder{
			Start:   open,
			End:     end,
			Kind:    domain.PlaceholderPlain,
			Name:    name,
			RawText: content[open:end],
		}, true
	}
	if rest == j {
		// Name ran into a lone ']' with no separating whitespace.
		return domain.Placeholder{}, false
	}

	// Default text runs to the closing delimiter, may contain spaces, and
	// may not contain a closing bracket of its own.
	defEnd := strings.IndexByte(content[rest:], ']')
	if defEnd < 0 {
		return domain.Placeholder{}, false
	}
	defEnd += rest
	if !strings.HasPrefix(content[defEnd:], placeholderClose) {
		return domain.Placeholder{}, false
	}
	end := defEnd + len(placeholderClose)
	return domain.Placeholder{
		Start:   open,
		End:     end,
		Kind:    domain.PlaceholderWithDefault,
		Name:    name,
		Default: content[rest:defEnd],
		RawText: content[open:end],
	}, true
}
