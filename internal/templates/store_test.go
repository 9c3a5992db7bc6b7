package templates

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s
}

func TestSaveSameNameUpdatesInPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt_templates.json")
	s := openStore(t, path)

	if err := s.Save(Template{Name: "X", Template: "first"}); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if err := s.Save(Template{Name: "Y", Template: "other"}); err != nil {
		t.Fatalf("save other: %v", err)
	}
	if err := s.Save(Template{Name: "X", Template: "second"}); err != nil {
		t.Fatalf("save second: %v", err)
	}

	reopened := openStore(t, path)
	all := reopened.List()
	if len(all) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(all))
	}
	if all[0].Name != "X" || all[0].Template != "second" {
		t.Fatalf("expected X updated in place, got %+v", all[0])
	}
	if all[0].CreatedAt != "2026-01-02T03:04:05Z" {
		t.Fatalf("expected created_at kept from first save, got %q", all[0].CreatedAt)
	}
}

func TestSaveRejectsMissingInput(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "t.json"))

	if err := s.Save(Template{Name: "  ", Template: "x"}); !errors.Is(err, ErrMissingName) {
		t.Fatalf("expected ErrMissingName, got %v", err)
	}
	if err := s.Save(Template{Name: "n", Template: " "}); !errors.Is(err, ErrMissingContent) {
		t.Fatalf("expected ErrMissingContent, got %v", err)
	}
	if len(s.List()) != 0 {
		t.Fatalf("rejected saves must not change the store")
	}
}

func TestDeleteAndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.json")
	s := openStore(t, path)
	if err := s.Save(Template{Name: "Logo", Template: "minimalist logo"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, ok := s.Get("Logo"); !ok {
		t.Fatalf("expected Logo to exist")
	}

	removed, err := s.Delete("Missing")
	if err != nil || removed {
		t.Fatalf("delete missing: removed=%v err=%v", removed, err)
	}

	removed, err = s.Delete("Logo")
	if err != nil || !removed {
		t.Fatalf("delete Logo: removed=%v err=%v", removed, err)
	}
	if _, ok := openStore(t, path).Get("Logo"); ok {
		t.Fatalf("expected Logo to be gone after reopen")
	}
}

func TestSearchMatchesNameDescriptionAndTags(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "t.json"))
	fixtures := []Template{
		{Name: "Portrait Photography", Template: "studio", Description: "people", Tags: []string{"photo"}},
		{Name: "Fantasy Art", Template: "dragons", Description: "Magical worlds", Tags: []string{"digital"}},
		{Name: "Logo Design", Template: "vector", Description: "brand marks", Tags: []string{"Minimalist", "minimalist", " "}},
	}
	for _, f := range fixtures {
		if err := s.Save(f); err != nil {
			t.Fatalf("save %s: %v", f.Name, err)
		}
	}

	tests := []struct {
		term string
		want []string
	}{
		{"portrait", []string{"Portrait Photography"}},
		{"MAGIC", []string{"Fantasy Art"}},
		{"minimal", []string{"Logo Design"}},
		{"", []string{"Portrait Photography", "Fantasy Art", "Logo Design"}},
		{"nothing", nil},
	}
	for _, tc := range tests {
		got := s.Search(tc.term)
		if len(got) != len(tc.want) {
			t.Fatalf("Search(%q) returned %d results, want %d", tc.term, len(got), len(tc.want))
		}
		for i := range got {
			if got[i].Name != tc.want[i] {
				t.Fatalf("Search(%q)[%d] = %q, want %q", tc.term, i, got[i].Name, tc.want[i])
			}
		}
	}

	logo, _ := s.Get("Logo Design")
	if len(logo.Tags) != 2 {
		t.Fatalf("expected blank tag dropped, got %#v", logo.Tags)
	}
}

func TestOpenCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.json")
	if err := os.WriteFile(path, []byte("[{"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	s, err := Open(path)
	if err == nil {
		t.Fatalf("expected parse error to be reported")
	}
	if len(s.List()) != 0 {
		t.Fatalf("expected empty store")
	}
	if err := s.Save(Template{Name: "A", Template: "b"}); err != nil {
		t.Fatalf("store should remain writable: %v", err)
	}
}
