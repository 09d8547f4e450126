package store

import (
	"testing"

	"mls-go/internal/model"
)

func TestSplitFrontmatter(t *testing.T) {
	t.Run("splits block and body", func(t *testing.T) {
		raw := []byte("---\nkey: value\n---\nbody text\n")
		block, body := splitFrontmatter(raw)
		if string(block) != "key: value\n" {
			t.Errorf("block = %q", block)
		}
		if body != "body text\n" {
			t.Errorf("body = %q", body)
		}
	})

	t.Run("document without front matter is all body", func(t *testing.T) {
		raw := []byte("just text\n---\nnot front matter\n")
		block, body := splitFrontmatter(raw)
		if block != nil {
			t.Errorf("block = %q, want none", block)
		}
		if body != string(raw) {
			t.Errorf("body = %q, want verbatim content", body)
		}
	})

	t.Run("unterminated block is all body", func(t *testing.T) {
		raw := []byte("---\nkey: value\n")
		block, body := splitFrontmatter(raw)
		if block != nil {
			t.Errorf("block = %q, want none", block)
		}
		if body != string(raw) {
			t.Errorf("body = %q", body)
		}
	})
}

func TestRenderParseRoundTrip(t *testing.T) {
	props := model.Properties{
		{Key: "sync-key", Value: "mal:anime:1"},
		{Key: "last-synced", Value: "2024-01-01T00:00:00Z"},
		{Key: "genres", Value: []string{"Action", "Sci-Fi"}},
		{Key: "score", Value: 8.5},
		{Key: "finished", Value: true},
	}
	body := "# Cowboy Bebop\n\nSee you space cowboy.\n"

	raw, err := renderDocument(props, body)
	if err != nil {
		t.Fatalf("renderDocument() error = %v", err)
	}

	gotProps, gotBody, err := parseDocument(raw)
	if err != nil {
		t.Fatalf("parseDocument() error = %v", err)
	}
	if gotBody != body {
		t.Errorf("body = %q, want %q", gotBody, body)
	}

	// Key order must survive the round trip.
	for i := range props {
		if gotProps[i].Key != props[i].Key {
			t.Errorf("props[%d].Key = %q, want %q", i, gotProps[i].Key, props[i].Key)
		}
	}

	if got := gotProps.GetString("sync-key"); got != "mal:anime:1" {
		t.Errorf("sync-key = %q", got)
	}
	score, _ := gotProps.Get("score")
	if score != 8.5 {
		t.Errorf("score = %v (%T), want 8.5", score, score)
	}
	finished, _ := gotProps.Get("finished")
	if finished != true {
		t.Errorf("finished = %v, want true", finished)
	}
}

func TestRenderDocument_NoProps(t *testing.T) {
	raw, err := renderDocument(nil, "plain body\n")
	if err != nil {
		t.Fatalf("renderDocument() error = %v", err)
	}
	if string(raw) != "plain body\n" {
		t.Errorf("renderDocument() = %q, want no front matter block", raw)
	}
}

func TestDocTitle(t *testing.T) {
	cases := map[string]string{
		"Media/Cowboy Bebop.md": "Cowboy Bebop",
		"Cowboy Bebop.md":       "Cowboy Bebop",
		"Media/No Extension":    "No Extension",
	}
	for in, want := range cases {
		if got := docTitle(in); got != want {
			t.Errorf("docTitle(%q) = %q, want %q", in, got, want)
		}
	}
}
