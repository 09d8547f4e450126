package template

import "strings"

// Kind discriminates the three shapes a resolved template value can take.
type Kind int

const (
	KindAbsent Kind = iota // no value; the property is omitted
	KindScalar
	KindList
)

// Value is the result of resolving a template against a record.
// List values keep their native shape so list-typed fields (aliases,
// genres) survive as lists instead of being joined into strings.
type Value struct {
	kind   Kind
	scalar string
	list   []string
}

// Absent returns the no-value Value.
func Absent() Value { return Value{kind: KindAbsent} }

// Scalar returns a single-string Value. An empty string is still a scalar;
// absence is a separate state.
func Scalar(s string) Value { return Value{kind: KindScalar, scalar: s} }

// List returns a list Value. An empty or nil slice collapses to Absent.
func List(items []string) Value {
	if len(items) == 0 {
		return Absent()
	}
	return Value{kind: KindList, list: items}
}

// Kind returns the value's shape.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether the value carries nothing.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// String returns the scalar form: lists joined with ", ", absent as "".
func (v Value) String() string {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindList:
		return strings.Join(v.list, ", ")
	default:
		return ""
	}
}

// Items returns the list form: scalars as a one-element list, absent as nil.
func (v Value) Items() []string {
	switch v.kind {
	case KindScalar:
		return []string{v.scalar}
	case KindList:
		return v.list
	default:
		return nil
	}
}

// Native returns the value in its natural Go shape: nil, string or []string.
func (v Value) Native() any {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindList:
		return v.list
	default:
		return nil
	}
}

// mapElems applies fn to the scalar or to every list element, preserving
// the value's shape. Absent passes through.
func (v Value) mapElems(fn func(string) string) Value {
	switch v.kind {
	case KindScalar:
		return Scalar(fn(v.scalar))
	case KindList:
		out := make([]string, len(v.list))
		for i, s := range v.list {
			out[i] = fn(s)
		}
		return List(out)
	default:
		return v
	}
}
