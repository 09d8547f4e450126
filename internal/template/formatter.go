package template

import (
	"strconv"
	"strings"
	"time"

	"mls-go/internal/model"
)

// Format coerces a resolved value into the canonical representation for the
// declared property type. It is total: every input produces a value (nil
// meaning "no value"), never an error. With no declared type the value
// passes through in its native shape.
//
// This step exists so the host never sees a number stored as text or a
// single string where it expects a list.
func Format(v Value, typ model.PropertyType) any {
	switch typ {
	case model.TypeNumber:
		return formatNumber(v)
	case model.TypeCheckbox:
		return formatCheckbox(v)
	case model.TypeDate:
		return formatDate(v)
	case model.TypeDatetime:
		return formatDatetime(v)
	case model.TypeMultitext:
		// Non-array scalars are wrapped; absent becomes an empty list.
		return v.Items()
	case model.TypeText:
		if v.IsAbsent() {
			return nil
		}
		return v.String()
	default:
		return v.Native()
	}
}

func formatNumber(v Value) any {
	s := strings.TrimSpace(v.String())
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return nil
}

func formatCheckbox(v Value) any {
	if v.IsAbsent() {
		return nil
	}
	s := strings.ToLower(strings.TrimSpace(v.String()))
	switch s {
	case "true", "1":
		return true
	case "false", "0", "":
		return false
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n != 0
	}
	return false
}

// formatDate strips any time component, leaving a plain date string.
func formatDate(v Value) any {
	s := strings.TrimSpace(v.String())
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	// Not parseable as a timestamp: at least drop an obvious time suffix.
	if i := strings.IndexByte(s, 'T'); i > 0 {
		return s[:i]
	}
	return s
}

func formatDatetime(v Value) any {
	s := strings.TrimSpace(v.String())
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.RFC3339)
		}
	}
	return s
}
