package template

import (
	"strings"

	"mls-go/internal/model"
)

// Resolve evaluates a template string against a record.
//
// Templates are free text interleaved with {{name}} or
// {{name|filter1|filter2:"arg"}} tokens. Two output modes apply:
//
//   - If the entire template is exactly one token, the resolved value keeps
//     its native shape, so list fields stay lists.
//   - Otherwise every token is stringified and substituted in place; tokens
//     without a value are deleted. If afterwards the result is only
//     whitespace or every token was empty, Resolve returns Absent rather
//     than an empty string.
func Resolve(tmpl string, rec *model.MediaRecord) Value {
	tokens := findTokens(tmpl)
	if len(tokens) == 0 {
		if strings.TrimSpace(tmpl) == "" {
			return Absent()
		}
		return Scalar(tmpl)
	}

	// Single-token mode: the template is one span and nothing else.
	if len(tokens) == 1 && tokens[0].start == 0 && tokens[0].end == len(tmpl) {
		return evalToken(tokens[0].inner, rec)
	}

	var b strings.Builder
	prev := 0
	anyValue := false
	for _, tok := range tokens {
		b.WriteString(tmpl[prev:tok.start])
		v := evalToken(tok.inner, rec)
		if !v.IsAbsent() && v.String() != "" {
			anyValue = true
			b.WriteString(v.String())
		}
		prev = tok.end
	}
	b.WriteString(tmpl[prev:])

	out := b.String()
	if !anyValue || strings.TrimSpace(out) == "" {
		return Absent()
	}
	return Scalar(out)
}

// token is one {{...}} span within a template.
type token struct {
	start, end int // byte offsets of the span including braces
	inner      string
}

func findTokens(tmpl string) []token {
	var tokens []token
	for i := 0; i < len(tmpl); {
		open := strings.Index(tmpl[i:], "{{")
		if open < 0 {
			break
		}
		open += i
		close := strings.Index(tmpl[open+2:], "}}")
		if close < 0 {
			break
		}
		close += open + 2
		tokens = append(tokens, token{
			start: open,
			end:   close + 2,
			inner: tmpl[open+2 : close],
		})
		i = close + 2
	}
	return tokens
}

// evalToken resolves one span: variable lookup followed by the filter chain.
func evalToken(inner string, rec *model.MediaRecord) Value {
	parts := splitUnquoted(inner, '|')
	name := strings.TrimSpace(parts[0])

	acc, ok := accessors[name]
	if !ok {
		// Unknown variable: no value, token disappears.
		return Absent()
	}
	v := acc(rec)

	for _, spec := range parts[1:] {
		v = applyFilter(v, spec)
	}
	return v
}

// splitUnquoted splits s on sep, ignoring separators inside double quotes.
// Filter arguments are quoted so they may contain the delimiter itself.
func splitUnquoted(s string, sep byte) []string {
	var parts []string
	var b strings.Builder
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && inQuote && i+1 < len(s):
			b.WriteByte(c)
			i++
			b.WriteByte(s[i])
		case c == '"':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == sep && !inQuote:
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	parts = append(parts, b.String())
	return parts
}

// unquote strips surrounding double quotes and unescapes \" and \\.
// Unquoted input is returned trimmed.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	body := s[1 : len(s)-1]
	if !strings.ContainsRune(body, '\\') {
		return body
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
		}
		b.WriteByte(body[i])
	}
	return b.String()
}
