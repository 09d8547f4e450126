package template

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// filterFunc transforms a value. Filters must degrade gracefully: on a type
// mismatch or bad argument the input passes through unmodified.
type filterFunc func(v Value, args []string) Value

var filters = map[string]filterFunc{
	"default":    filterDefault,
	"upper":      filterUpper,
	"lower":      filterLower,
	"capitalize": filterCapitalize,
	"date":       filterDate,
	"wikilink":   filterWikilink,
	"link":       filterLink,
	"duration":   filterDuration,
	"join":       filterJoin,
	"prefix":     filterPrefix,
	"suffix":     filterSuffix,
}

// Filters returns the known filter names, for configuration checks.
func Filters() []string {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	return names
}

// applyFilter parses one "name" or `name:"arg","arg"` spec and applies it.
// Unknown filters pass the value through.
func applyFilter(v Value, spec string) Value {
	name, rawArgs := spec, ""
	if i := indexUnquoted(spec, ':'); i >= 0 {
		name, rawArgs = spec[:i], spec[i+1:]
	}
	name = strings.TrimSpace(name)

	fn, ok := filters[name]
	if !ok {
		return v
	}

	var args []string
	if rawArgs != "" {
		for _, a := range splitUnquoted(rawArgs, ',') {
			args = append(args, unquote(a))
		}
	}
	return fn(v, args)
}

func indexUnquoted(s string, sep byte) int {
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuote = !inQuote
		case sep:
			if !inQuote {
				return i
			}
		}
	}
	return -1
}

// filterDefault substitutes a fallback when the value is absent or empty.
func filterDefault(v Value, args []string) Value {
	if len(args) == 0 {
		return v
	}
	if v.IsAbsent() || (v.Kind() == KindScalar && v.String() == "") {
		return Scalar(args[0])
	}
	return v
}

func filterUpper(v Value, _ []string) Value {
	return v.mapElems(strings.ToUpper)
}

func filterLower(v Value, _ []string) Value {
	return v.mapElems(strings.ToLower)
}

func filterCapitalize(v Value, _ []string) Value {
	return v.mapElems(func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	})
}

// dateLayouts are the input formats filterDate accepts, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// filterDate reformats a parseable timestamp using the Go layout given as
// the argument, defaulting to a plain date. Unparseable input passes through.
func filterDate(v Value, args []string) Value {
	layout := "2006-01-02"
	if len(args) > 0 && args[0] != "" {
		layout = args[0]
	}
	return v.mapElems(func(s string) string {
		for _, in := range dateLayouts {
			if t, err := time.Parse(in, s); err == nil {
				return t.Format(layout)
			}
		}
		return s
	})
}

// filterWikilink wraps each element in [[...]] so the host renders it as an
// internal link.
func filterWikilink(v Value, _ []string) Value {
	return v.mapElems(func(s string) string {
		if s == "" {
			return s
		}
		return "[[" + s + "]]"
	})
}

// filterLink renders each element as a markdown link to the given URL.
func filterLink(v Value, args []string) Value {
	if len(args) == 0 || args[0] == "" {
		return v
	}
	url := args[0]
	return v.mapElems(func(s string) string {
		if s == "" {
			return s
		}
		return fmt.Sprintf("[%s](%s)", s, url)
	})
}

// filterDuration formats a minute count as "1h 30m" / "45m".
// Non-numeric input passes through.
func filterDuration(v Value, _ []string) Value {
	return v.mapElems(func(s string) string {
		minutes, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || minutes < 0 {
			return s
		}
		h, m := minutes/60, minutes%60
		switch {
		case h == 0:
			return fmt.Sprintf("%dm", m)
		case m == 0:
			return fmt.Sprintf("%dh", h)
		default:
			return fmt.Sprintf("%dh %dm", h, m)
		}
	})
}

// filterJoin collapses a list into one scalar with the given separator
// (default ", "). Scalars and absent values pass through.
func filterJoin(v Value, args []string) Value {
	if v.Kind() != KindList {
		return v
	}
	sep := ", "
	if len(args) > 0 {
		sep = args[0]
	}
	return Scalar(strings.Join(v.Items(), sep))
}

func filterPrefix(v Value, args []string) Value {
	if len(args) == 0 {
		return v
	}
	return v.mapElems(func(s string) string { return args[0] + s })
}

func filterSuffix(v Value, args []string) Value {
	if len(args) == 0 {
		return v
	}
	return v.mapElems(func(s string) string { return s + args[0] })
}
