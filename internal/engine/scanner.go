package engine

import (
	"strings"

	"github.com/aretw0/tessera/pkg/domain"
)

const (
	escapeChar = '\\'

	invocationOpen  = "{{"
	invocationClose = "}}"
	invocationSigil = '#'
	templateKeyword = "template"
)

// Scanner finds template invocations in document text. It classifies each
// delimiter occurrence explicitly (escape check, keyword check, path token,
// argument capture) instead of relying on a single pattern, so the layout
// branches are individually testable.
//
// The zero value is ready to use; Scanner holds no state between calls.
type Scanner struct{}

// Scan returns every invocation in text in document order. Spans are byte
// offsets into text and never overlap. Partial or truncated markers do not
// match at all and are left as plain text.
func (s Scanner) Scan(text string) []domain.Invocation {
	var found []domain.Invocation
	for i := 0; i < len(text); {
		rel := strings.Index(text[i:], invocationOpen)
		if rel < 0 {
			break
		}
		open := i + rel
		if inv, ok := s.match(text, open); ok {
			found = append(found, inv)
			i = inv.End
			continue
		}
		// Advance one byte only: in a run like {{{ the real marker may
		// start inside the delimiter that just failed to match.
		i = open + 1
	}
	return found
}

// match attempts to read one invocation whose opening delimiter sits at
// open. The escaped form wins over the template form when both apply.
func (s Scanner) match(text string, open int) (domain.Invocation, bool) {
	if inv, ok := s.matchEscaped(text, open); ok {
		return inv, true
	}
	return s.matchTemplate(text, open)
}

// matchEscaped reads \{{#...}}. The escape character must sit immediately
// before the opening delimiter and the sigil immediately after it; the body
// runs to the first closing delimiter on the same line.
func (s Scanner) matchEscaped(text string, open int) (domain.Invocation, bool) {
	if open == 0 || text[open-1] != escapeChar {
		return domain.Invocation{}, false
	}
	body := open + len(invocationOpen)
	if body >= len(text) || text[body] != invocationSigil {
		return domain.Invocation{}, false
	}
	end, ok := closeOnSameLine(text, body, invocationClose)
	if !ok {
		return domain.Invocation{}, false
	}
	return domain.Invocation{
		Start:   open - 1,
		End:     end,
		Kind:    domain.InvocationEscaped,
		RawText: text[open-1 : end],
	}, true
}

// matchTemplate reads {{ <ws> #template <ws> path [<ws> args] }}.
func (s Scanner) matchTemplate(text string, open int) (domain.Invocation, bool) {
	j := skipSpace(text, open+len(invocationOpen))
	if j >= len(text) || text[j] != invocationSigil {
		return domain.Invocation{}, false
	}
	j++
	if !strings.HasPrefix(text[j:], templateKeyword) {
		return domain.Invocation{}, false
	}
	j += len(templateKeyword)

	// Required whitespace between the keyword and the path. This is also
	// what rejects near-miss keywords like "templatee".
	pathStart := skipSpace(text, j)
	if pathStart == j {
		return domain.Invocation{}, false
	}

	pathEnd := pathStart
	for pathEnd < len(text) && !isSpace(text[pathEnd]) && text[pathEnd] != '}' {
		pathEnd++
	}
	if pathEnd == pathStart {
		return domain.Invocation{}, false
	}
	path := text[pathStart:pathEnd]

	argsStart := skipSpace(text, pathEnd)
	if strings.HasPrefix(text[argsStart:], invocationClose) {
		// {{#template path}} — no arguments.
		end := argsStart + len(invocationClose)
		return domain.Invocation{
			Start:   open,
			End:     end,
			Kind:    domain.InvocationTemplate,
			Path:    path,
			RawText: text[open:end],
		}, true
	}
	if argsStart == pathEnd {
		// Path ran into a lone '}' with no separating whitespace.
		return domain.Invocation{}, false
	}

	// Argument text runs to the closing delimiter and may not contain a
	// closing brace of its own.
	argsEnd := strings.IndexByte(text[argsStart:], '}')
	if argsEnd < 0 {
		return domain.Invocation{}, false
	}
	argsEnd += argsStart
	if !strings.HasPrefix(text[argsEnd:], invocationClose) {
		return domain.Invocation{}, false
	}
	end := argsEnd + len(invocationClose)
	return domain.Invocation{
		Start:   open,
		End:     end,
		Kind:    domain.InvocationTemplate,
		Path:    path,
		RawArgs: text[argsStart:argsEnd],
		RawText: text[open:end],
	}, true
}

// closeOnSameLine finds the end offset just past the first occurrence of
// close after start, provided no line break intervenes. Escaped markers do
// not span lines.
func closeOnSameLine(text string, start int, close string) (int, bool) {
	rel := strings.Index(text[start:], close)
	if rel < 0 {
		return 0, false
	}
	if strings.ContainsAny(text[start:start+rel], "\n\r") {
		return 0, false
	}
	return start + rel + len(close), true
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func skipSpace(text string, i int) int {
	for i < len(text) && isSpace(text[i]) {
		i++
	}
	return i
}
