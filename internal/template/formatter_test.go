package template_test

import (
	"reflect"
	"testing"

	"mls-go/internal/model"
	"mls-go/internal/template"
)

func TestFormat(t *testing.T) {
	t.Run("number parses ints and floats", func(t *testing.T) {
		if got := template.Format(template.Scalar("26"), model.TypeNumber); got != int64(26) {
			t.Errorf("Format(26) = %v (%T), want int64(26)", got, got)
		}
		if got := template.Format(template.Scalar("8.5"), model.TypeNumber); got != 8.5 {
			t.Errorf("Format(8.5) = %v, want 8.5", got)
		}
		if got := template.Format(template.Scalar("n/a"), model.TypeNumber); got != nil {
			t.Errorf("Format(n/a) = %v, want nil", got)
		}
	})

	t.Run("checkbox coerces truthiness", func(t *testing.T) {
		cases := map[string]bool{
			"true": true, "1": true, "2.5": true,
			"false": false, "0": false, "": false, "banana": false,
		}
		for in, want := range cases {
			if got := template.Format(template.Scalar(in), model.TypeCheckbox); got != want {
				t.Errorf("Format(%q) = %v, want %v", in, got, want)
			}
		}
	})

	t.Run("date strips the time component", func(t *testing.T) {
		got := template.Format(template.Scalar("2024-01-01T15:04:05Z"), model.TypeDate)
		if got != "2024-01-01" {
			t.Errorf("Format() = %v, want 2024-01-01", got)
		}
	})

	t.Run("datetime normalizes to RFC3339", func(t *testing.T) {
		got := template.Format(template.Scalar("2024-01-01"), model.TypeDatetime)
		if got != "2024-01-01T00:00:00Z" {
			t.Errorf("Format() = %v, want 2024-01-01T00:00:00Z", got)
		}
	})

	t.Run("multitext wraps scalars in a list", func(t *testing.T) {
		got := template.Format(template.Scalar("only one"), model.TypeMultitext)
		if !reflect.DeepEqual(got, []string{"only one"}) {
			t.Errorf("Format() = %v, want a one-element list", got)
		}
	})

	t.Run("multitext keeps lists", func(t *testing.T) {
		got := template.Format(template.List([]string{"a", "b"}), model.TypeMultitext)
		if !reflect.DeepEqual(got, []string{"a", "b"}) {
			t.Errorf("Format() = %v, want [a b]", got)
		}
	})

	t.Run("no declared type keeps the native shape", func(t *testing.T) {
		got := template.Format(template.List([]string{"a"}), "")
		if !reflect.DeepEqual(got, []string{"a"}) {
			t.Errorf("Format() = %v (%T), want the native list", got, got)
		}
		if got := template.Format(template.Absent(), ""); got != nil {
			t.Errorf("Format(absent) = %v, want nil", got)
		}
	})
}
