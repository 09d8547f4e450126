package template

import "strings"

// Check reports the unknown variable and filter names used by a template
// string, for validating a configuration before a sync runs. An unknown
// name is not an error at resolve time (the token simply produces no
// value), but it is almost always a typo worth surfacing.
func Check(tmpl string) (unknownVars, unknownFilters []string) {
	for _, tok := range findTokens(tmpl) {
		parts := splitUnquoted(tok.inner, '|')

		name := strings.TrimSpace(parts[0])
		if _, ok := accessors[name]; !ok && name != "" {
			unknownVars = append(unknownVars, name)
		}

		for _, spec := range parts[1:] {
			fname := spec
			if i := indexUnquoted(spec, ':'); i >= 0 {
				fname = spec[:i]
			}
			fname = strings.TrimSpace(fname)
			if _, ok := filters[fname]; !ok && fname != "" {
				unknownFilters = append(unknownFilters, fname)
			}
		}
	}
	return unknownVars, unknownFilters
}
