package engine

import "strings"

// ArgParser parses the raw argument text of one template invocation into a
// name→value mapping. Two textual layouts are recognized:
//
//   - inline: space-separated name=value pairs on one logical span. A value
//     ends at the whitespace that precedes the next name= token, so values
//     may themselves contain '=' and spaces.
//   - multi-line: one name=value pair per line, split at the first '='.
//
// The layouts are told apart by the presence of a line break in the raw
// text. Duplicate names resolve last-wins.
//
// The zero value is ready to use.
type ArgParser struct{}

// Parse returns the mapping plus any tokens or lines that did not form a
// valid pair. Malformed pairs never abort parsing of the remaining pairs;
// the caller decides how to report them.
func (p ArgParser) Parse(raw string) (map[string]string, []string) {
	if strings.ContainsAny(raw, "\n\r") {
		return p.parseLines(raw)
	}
	return p.parseInline(raw)
}

// parseLines handles the multi-line layout: each non-empty trimmed line is
// split at its first '='; the name is trimmed again, the value kept as-is.
func (ArgParser) parseLines(raw string) (map[string]string, []string) {
	args := make(map[string]string)
	var malformed []string

	lines := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == '\r'
	})
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		name, value, ok := strings.Cut(trimmed, "=")
		if !ok {
			malformed = append(malformed, trimmed)
			continue
		}
		args[strings.TrimSpace(name)] = value
	}
	return args, malformed
}

// parseInline handles the single-line layout. A pair starts at the
// beginning of input or after whitespace with a name run (no whitespace, no
// '='), then '=', then a value extending to the next pair boundary or end
// of input. Text before the first pair that does not look like a pair is
// reported as malformed; text after a value that does not start a new pair
// belongs to that value.
func (ArgParser) parseInline(raw string) (map[string]string, []string) {
	args := make(map[string]string)
	var malformed []string

	i := 0
	for i < len(raw) {
		for i < len(raw) && isSpace(raw[i]) {
			i++
		}
		if i >= len(raw) {
			break
		}

		nameStart := i
		for i < len(raw) && !isSpace(raw[i]) && raw[i] != '=' {
			i++
		}
		if i == nameStart || i >= len(raw) || raw[i] != '=' {
			// Not a name=value token. Swallow the rest of the run
			// and report it.
			for i < len(raw) && !isSpace(raw[i]) {
				i++
			}
			malformed = append(malformed, raw[nameStart:i])
			continue
		}
		name := raw[nameStart:i]
		i++ // '='

		end := valueEnd(raw, i)
		args[name] = raw[i:end]
		i = end
	}
	return args, malformed
}

// valueEnd returns the offset where a value starting at start terminates:
// either end of input or the single whitespace byte that immediately
// precedes the next name= token. Requiring the lookahead token to itself
// look like name= is what lets values contain '=' and whitespace.
func valueEnd(raw string, start int) int {
	for j := start; j < len(raw); j++ {
		if !isSpace(raw[j]) {
			continue
		}
		k := j + 1
		nameStart := k
		for k < len(raw) && !isSpace(raw[k]) && raw[k] != '=' {
			k++
		}
		if k > nameStart && k < len(raw) && raw[k] == '=' {
			return j
		}
	}
	return len(raw)
}
