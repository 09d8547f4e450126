package model_test

import (
	"reflect"
	"testing"

	"mls-go/internal/model"
)

func TestMediaRecord_Aliases(t *testing.T) {
	t.Run("deduplicates and drops the main title", func(t *testing.T) {
		rec := &model.MediaRecord{
			Title:        "Cowboy Bebop",
			TitleEnglish: "Cowboy Bebop",
			TitleRomaji:  "Kaubōi Bibappu",
			Synonyms:     []string{"CB", "Kaubōi Bibappu"},
		}
		want := []string{"Kaubōi Bibappu", "CB"}
		if got := rec.Aliases(); !reflect.DeepEqual(got, want) {
			t.Errorf("Aliases() = %v, want %v", got, want)
		}
	})

	t.Run("empty record has no aliases", func(t *testing.T) {
		rec := &model.MediaRecord{Title: "X"}
		if got := rec.Aliases(); got != nil {
			t.Errorf("Aliases() = %v, want nil", got)
		}
	})
}

func TestMediaRecord_GenreNames(t *testing.T) {
	rec := &model.MediaRecord{
		Genres: []model.Genre{{Name: "Action"}, {Name: ""}, {Name: "Drama"}},
	}
	want := []string{"Action", "Drama"}
	if got := rec.GenreNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("GenreNames() = %v, want %v", got, want)
	}
}

func TestProperties(t *testing.T) {
	t.Run("set replaces in place", func(t *testing.T) {
		ps := model.Properties{
			{Key: "a", Value: 1},
			{Key: "b", Value: 2},
		}
		ps = ps.Set("a", 11)
		if ps[0].Key != "a" || ps[0].Value != 11 {
			t.Errorf("ps[0] = %+v, want a=11 in place", ps[0])
		}
		if len(ps) != 2 {
			t.Errorf("len = %d, want 2", len(ps))
		}
	})

	t.Run("set appends new keys", func(t *testing.T) {
		ps := model.Properties{{Key: "a", Value: 1}}
		ps = ps.Set("b", 2)
		if ps[1].Key != "b" {
			t.Errorf("ps[1].Key = %q, want b appended", ps[1].Key)
		}
	})

	t.Run("merge preserves positions", func(t *testing.T) {
		ps := model.Properties{
			{Key: "a", Value: 1},
			{Key: "b", Value: 2},
		}
		ps = ps.Merge(model.Properties{
			{Key: "b", Value: 22},
			{Key: "c", Value: 3},
		})
		keys := []string{ps[0].Key, ps[1].Key, ps[2].Key}
		if !reflect.DeepEqual(keys, []string{"a", "b", "c"}) {
			t.Errorf("keys = %v, want [a b c]", keys)
		}
		if v, _ := ps.Get("b"); v != 22 {
			t.Errorf("b = %v, want 22", v)
		}
	})

	t.Run("get string tolerates wrong types", func(t *testing.T) {
		ps := model.Properties{{Key: "n", Value: 5}}
		if got := ps.GetString("n"); got != "" {
			t.Errorf("GetString(n) = %q, want empty", got)
		}
		if got := ps.GetString("missing"); got != "" {
			t.Errorf("GetString(missing) = %q, want empty", got)
		}
	})
}

func TestPropertyItem(t *testing.T) {
	t.Run("custom name overrides the key", func(t *testing.T) {
		p := model.PropertyItem{ID: "syncKey", CustomName: "sync-key"}
		if p.Key() != "sync-key" {
			t.Errorf("Key() = %q, want sync-key", p.Key())
		}
		p.CustomName = ""
		if p.Key() != "syncKey" {
			t.Errorf("Key() = %q, want syncKey", p.Key())
		}
	})

	t.Run("only the two reserved IDs are permanent", func(t *testing.T) {
		perm := model.PropertyItem{ID: model.PropLastSynced}
		if !perm.Permanent() {
			t.Error("lastSynced should be permanent")
		}
		other := model.PropertyItem{ID: "genres"}
		if other.Permanent() {
			t.Error("genres should not be permanent")
		}
	})
}

func TestTemplateConfig_KeyNames(t *testing.T) {
	cfg := &model.TemplateConfig{
		Properties: []model.PropertyItem{
			{ID: model.PropSyncKey, CustomName: "sync-key"},
			{ID: model.PropLastSynced},
		},
	}
	if got := cfg.SyncKeyName(); got != "sync-key" {
		t.Errorf("SyncKeyName() = %q, want sync-key", got)
	}
	if got := cfg.LastSyncedName(); got != "lastSynced" {
		t.Errorf("LastSyncedName() = %q, want lastSynced", got)
	}
}
