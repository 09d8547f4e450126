package sync_test

import (
	"errors"
	"testing"

	"mls-go/internal/model"
	"mls-go/internal/sync"
	"mls-go/internal/testutil"
)

func TestDeriveIdentifier(t *testing.T) {
	t.Run("derives provider:category:id", func(t *testing.T) {
		rec := testutil.NewAnimeRecord("5114", "Fullmetal Alchemist: Brotherhood", "2024-01-01T00:00:00Z")

		id, err := sync.DeriveIdentifier(rec)
		if err != nil {
			t.Fatalf("DeriveIdentifier() error = %v", err)
		}
		if id != "mal:anime:5114" {
			t.Errorf("DeriveIdentifier() = %q, want %q", id, "mal:anime:5114")
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		a := testutil.NewAnimeRecord("1", "Cowboy Bebop", "2024-01-01T00:00:00Z")
		b := testutil.NewAnimeRecord("1", "A Different Title", "2025-06-06T00:00:00Z")

		idA, err := sync.DeriveIdentifier(a)
		if err != nil {
			t.Fatalf("DeriveIdentifier() error = %v", err)
		}
		idB, err := sync.DeriveIdentifier(b)
		if err != nil {
			t.Fatalf("DeriveIdentifier() error = %v", err)
		}
		if idA != idB {
			t.Errorf("identifiers differ for same triple: %q vs %q", idA, idB)
		}
	})

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		rec := &model.MediaRecord{
			Provider:   " MAL ",
			Category:   "Anime",
			ExternalID: " 42 ",
			Title:      "x",
		}

		id, err := sync.DeriveIdentifier(rec)
		if err != nil {
			t.Fatalf("DeriveIdentifier() error = %v", err)
		}
		if id != "mal:anime:42" {
			t.Errorf("DeriveIdentifier() = %q, want %q", id, "mal:anime:42")
		}
	})

	t.Run("rejects incomplete records", func(t *testing.T) {
		cases := []struct {
			name string
			rec  *model.MediaRecord
		}{
			{"missing provider", &model.MediaRecord{Category: "anime", ExternalID: "1"}},
			{"missing category", &model.MediaRecord{Provider: "mal", ExternalID: "1"}},
			{"missing external id", &model.MediaRecord{Provider: "mal", Category: "anime"}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := sync.DeriveIdentifier(tc.rec)
				if !errors.Is(err, sync.ErrInvalidRecord) {
					t.Errorf("DeriveIdentifier() error = %v, want ErrInvalidRecord", err)
				}
			})
		}
	})

	t.Run("rejects reserved characters", func(t *testing.T) {
		for _, id := range []string{"a:b", "a/b", "a b", "a\tb"} {
			rec := testutil.NewAnimeRecord(id, "x", "")
			if _, err := sync.DeriveIdentifier(rec); !errors.Is(err, sync.ErrInvalidRecord) {
				t.Errorf("DeriveIdentifier(%q) error = %v, want ErrInvalidRecord", id, err)
			}
		}
	})
}
