package template_test

import (
	"reflect"
	"testing"

	"mls-go/internal/model"
	"mls-go/internal/template"
)

func sampleRecord() *model.MediaRecord {
	score := 8.5
	episodes := 26
	return &model.MediaRecord{
		Provider:     "mal",
		Category:     model.CategoryAnime,
		ExternalID:   "1",
		Title:        "Cowboy Bebop",
		TitleEnglish: "Cowboy Bebop",
		TitleRomaji:  "Kaubōi Bibappu",
		Synonyms:     []string{"CB"},
		Genres:       []model.Genre{{Name: "Action"}, {Name: "Sci-Fi"}},
		UpdatedAt:    "2024-01-01T00:00:00Z",
		ListStatus:   "completed",
		Score:        &score,
		Episodes:     &episodes,
	}
}

func TestResolve(t *testing.T) {
	rec := sampleRecord()

	t.Run("plain text passes through", func(t *testing.T) {
		v := template.Resolve("no tokens here", rec)
		if v.String() != "no tokens here" {
			t.Errorf("Resolve() = %q, want the literal text", v.String())
		}
	})

	t.Run("single token keeps list shape", func(t *testing.T) {
		v := template.Resolve("{{genres}}", rec)
		if v.Kind() != template.KindList {
			t.Fatalf("Resolve() kind = %v, want KindList", v.Kind())
		}
		if !reflect.DeepEqual(v.Items(), []string{"Action", "Sci-Fi"}) {
			t.Errorf("Resolve() items = %v, want [Action Sci-Fi]", v.Items())
		}
	})

	t.Run("mixed template stringifies lists", func(t *testing.T) {
		v := template.Resolve("genres: {{genres}}", rec)
		if v.Kind() != template.KindScalar {
			t.Fatalf("Resolve() kind = %v, want KindScalar", v.Kind())
		}
		if v.String() != "genres: Action, Sci-Fi" {
			t.Errorf("Resolve() = %q", v.String())
		}
	})

	t.Run("absent token disappears from mixed output", func(t *testing.T) {
		v := template.Resolve("{{title}}{{nativeTitle}}", rec)
		if v.String() != "Cowboy Bebop" {
			t.Errorf("Resolve() = %q, want the title alone", v.String())
		}
	})

	t.Run("all tokens absent yields absent", func(t *testing.T) {
		v := template.Resolve("  {{nativeTitle}} {{description}}  ", rec)
		if !v.IsAbsent() {
			t.Errorf("Resolve() = %q, want absent", v.String())
		}
	})

	t.Run("single absent token yields absent", func(t *testing.T) {
		v := template.Resolve("{{description}}", rec)
		if !v.IsAbsent() {
			t.Errorf("Resolve() = %q, want absent", v.String())
		}
	})

	t.Run("unknown variable resolves to nothing", func(t *testing.T) {
		v := template.Resolve("x{{bogus}}y", rec)
		if v.String() != "xy" {
			t.Errorf("Resolve() = %q, want %q", v.String(), "xy")
		}
	})

	t.Run("unclosed token is literal text", func(t *testing.T) {
		v := template.Resolve("{{title", rec)
		if v.String() != "{{title" {
			t.Errorf("Resolve() = %q, want the raw text", v.String())
		}
	})

	t.Run("filter chain applies left to right", func(t *testing.T) {
		v := template.Resolve(`{{listStatus|capitalize|suffix:"!"}}`, rec)
		if v.String() != "Completed!" {
			t.Errorf("Resolve() = %q, want %q", v.String(), "Completed!")
		}
	})

	t.Run("quoted filter argument may contain a pipe", func(t *testing.T) {
		v := template.Resolve(`{{genres|join:" | "}}`, rec)
		if v.String() != "Action | Sci-Fi" {
			t.Errorf("Resolve() = %q, want %q", v.String(), "Action | Sci-Fi")
		}
	})

	t.Run("numbers resolve through their string form", func(t *testing.T) {
		v := template.Resolve("{{score}}", rec)
		if v.String() != "8.5" {
			t.Errorf("Resolve() = %q, want 8.5", v.String())
		}
	})
}

func TestCheck(t *testing.T) {
	t.Run("clean template reports nothing", func(t *testing.T) {
		vars, filters := template.Check(`{{title|upper}} ({{genres|join:", "}})`)
		if len(vars) != 0 || len(filters) != 0 {
			t.Errorf("Check() = %v, %v, want no findings", vars, filters)
		}
	})

	t.Run("reports unknown variables and filters", func(t *testing.T) {
		vars, filters := template.Check("{{titel}} {{title|uppr}}")
		if !reflect.DeepEqual(vars, []string{"titel"}) {
			t.Errorf("Check() vars = %v, want [titel]", vars)
		}
		if !reflect.DeepEqual(filters, []string{"uppr"}) {
			t.Errorf("Check() filters = %v, want [uppr]", filters)
		}
	})
}
