package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLookupCaseInsensitive(t *testing.T) {
	c := New([]Joker{
		{NameEn: "Blueprint", NameZh: "蓝图", Image: "blueprint.png"},
		{NameEn: "Wee Joker"},
	})

	tests := []struct {
		name  string
		found bool
	}{
		{"Blueprint", true},
		{"blueprint", true},
		{"  BLUEPRINT  ", true},
		{"wee joker", true},
		{"Canio", false},
		{"", false},
	}
	for _, tt := range tests {
		j, ok := c.Lookup(tt.name)
		if ok != tt.found {
			t.Fatalf("Lookup(%q) found = %v, want %v", tt.name, ok, tt.found)
		}
		if ok && j.NameEn == "" {
			t.Fatalf("Lookup(%q) returned empty joker", tt.name)
		}
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load missing file: %v", err)
	}
	if len(c.All()) != 0 {
		t.Fatalf("expected empty catalog, got %d entries", len(c.All()))
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jokers.json")
	data := `[{"name_en":"Joker","name_zh":"小丑","image":"joker.png","effect_zh":"+4 倍率"}]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	j, ok := c.Lookup("JOKER")
	if !ok {
		t.Fatal("expected to find Joker")
	}
	if j.NameZh != "小丑" || j.EffectZh != "+4 倍率" {
		t.Fatalf("unexpected entry: %+v", j)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed catalog")
	}
}
