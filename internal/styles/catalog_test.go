package styles

import (
	"encoding/json"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeCategory(t *testing.T, dir, category, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, category+FileExt), []byte(content), 0644); err != nil {
		t.Fatalf("write category %s: %v", category, err)
	}
}

func openCatalog(t *testing.T, dir string) *Catalog {
	t.Helper()
	c, err := Open(dir)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	return c
}

func TestCategoriesAndStyles(t *testing.T) {
	dir := t.TempDir()
	writeCategory(t, dir, "Painting", "Impressionism\n\n  Cubism  \n\t\nSurrealism\n")
	writeCategory(t, dir, "Art", "Abstract\n")
	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored"), 0644); err != nil {
		t.Fatalf("write notes: %v", err)
	}

	c := openCatalog(t, dir)
	if got := c.Categories(); !slices.Equal(got, []string{"Art", "Painting"}) {
		t.Fatalf("unexpected categories: %#v", got)
	}
	if got := c.Styles("Painting"); !slices.Equal(got, []string{"Impressionism", "Cubism", "Surrealism"}) {
		t.Fatalf("unexpected styles: %#v", got)
	}
	if got := c.Styles("Missing"); len(got) != 0 {
		t.Fatalf("expected empty styles for missing category, got %#v", got)
	}
}

func TestCategoriesMissingDirIsEmpty(t *testing.T) {
	c := openCatalog(t, filepath.Join(t.TempDir(), "nope"))
	if got := c.Categories(); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil categories, got %#v", got)
	}
}

func TestStylesAreCachedUntilInvalidated(t *testing.T) {
	dir := t.TempDir()
	writeCategory(t, dir, "Film", "Noir\n")

	c := openCatalog(t, dir)
	if got := c.Styles("Film"); !slices.Equal(got, []string{"Noir"}) {
		t.Fatalf("unexpected first read: %#v", got)
	}

	writeCategory(t, dir, "Film", "Noir\nTechnicolor\n")
	if got := c.Styles("Film"); !slices.Equal(got, []string{"Noir"}) {
		t.Fatalf("expected cached list before invalidation, got %#v", got)
	}

	c.InvalidateCache()
	if got := c.Styles("Film"); !slices.Equal(got, []string{"Noir", "Technicolor"}) {
		t.Fatalf("expected re-read after invalidation, got %#v", got)
	}
}

func TestSearchRanksExactMatchFirst(t *testing.T) {
	dir := t.TempDir()
	writeCategory(t, dir, "A", "Abstract Expressionism\nabstract\nNeo Abstract\n")
	writeCategory(t, dir, "B", "Abstrac\nAbstract\nabstract\n")

	c := openCatalog(t, dir)
	got := c.Search("Abstract")
	want := []string{"Abstract", "abstract", "Neo Abstract", "Abstract Expressionism"}
	if !slices.Equal(got, want) {
		t.Fatalf("Search order mismatch\n got: %#v\nwant: %#v", got, want)
	}
}

func TestSearchLimitsCategoriesAndOrdersByLength(t *testing.T) {
	dir := t.TempDir()
	writeCategory(t, dir, "A", "pixel art\npixel\n")
	writeCategory(t, dir, "B", "8-bit pixel\n")

	c := openCatalog(t, dir)
	if got := c.Search("PIX", "A"); !slices.Equal(got, []string{"pixel", "pixel art"}) {
		t.Fatalf("unexpected scoped search: %#v", got)
	}
	if got := c.Search("pix"); !slices.Equal(got, []string{"pixel", "pixel art", "8-bit pixel"}) {
		t.Fatalf("unexpected search across all: %#v", got)
	}
	if got := c.Search("   "); len(got) != 0 {
		t.Fatalf("expected blank term to match nothing, got %#v", got)
	}
}

func TestFavoritesAndUsagePersist(t *testing.T) {
	dir := t.TempDir()
	c := openCatalog(t, dir)

	on, err := c.ToggleFavorite("Noir")
	if err != nil || !on {
		t.Fatalf("toggle on: on=%v err=%v", on, err)
	}
	if _, err := c.ToggleFavorite("Baroque"); err != nil {
		t.Fatalf("toggle baroque: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := c.RecordUsage("Noir"); err != nil {
			t.Fatalf("record usage: %v", err)
		}
	}
	if err := c.RecordUsage("Baroque"); err != nil {
		t.Fatalf("record usage: %v", err)
	}
	if err := c.RecordUsage("Art Deco"); err != nil {
		t.Fatalf("record usage: %v", err)
	}

	reopened := openCatalog(t, dir)
	if !reopened.IsFavorite("Noir") || !reopened.IsFavorite("Baroque") {
		t.Fatalf("expected favorites to survive reopen")
	}
	if got := reopened.Favorites(); !slices.Equal(got, []string{"Baroque", "Noir"}) {
		t.Fatalf("expected alphabetical favorites, got %#v", got)
	}
	if got := reopened.MostUsed(2); !slices.Equal(got, []string{"Noir", "Art Deco"}) {
		t.Fatalf("unexpected most used: %#v", got)
	}

	off, err := reopened.ToggleFavorite("Noir")
	if err != nil || off {
		t.Fatalf("toggle off: on=%v err=%v", off, err)
	}

	data, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}
	var md metadata
	if err := json.Unmarshal(data, &md); err != nil {
		t.Fatalf("parse metadata: %v", err)
	}
	if !slices.Equal(md.Favorites, []string{"Baroque"}) || md.UsageStats["Noir"] != 3 {
		t.Fatalf("unexpected metadata on disk: %+v", md)
	}
}

func TestOpenWithCorruptMetadataStillUsable(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, MetadataFile), []byte("{broken"), 0644); err != nil {
		t.Fatalf("write metadata: %v", err)
	}

	c, err := Open(dir)
	if err == nil {
		t.Fatalf("expected corrupt metadata to be reported")
	}
	if c == nil || len(c.Favorites()) != 0 {
		t.Fatalf("expected usable empty catalog")
	}
}

func TestRandomAndSuggest(t *testing.T) {
	dir := t.TempDir()
	writeCategory(t, dir, "Empty", "\n\n")
	writeCategory(t, dir, "Film", "Film Noir\nTechnicolor\n")

	c := openCatalog(t, dir)
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 5; i++ {
		category, style, ok := c.Random(r)
		if !ok || category != "Film" {
			t.Fatalf("expected a Film style, got %q/%q ok=%v", category, style, ok)
		}
	}

	if got := c.Suggest("tchnclr", 3); len(got) == 0 || got[0] != "Technicolor" {
		t.Fatalf("expected fuzzy suggestion Technicolor, got %#v", got)
	}

	empty := openCatalog(t, t.TempDir())
	if _, _, ok := empty.Random(nil); ok {
		t.Fatalf("expected no random style from empty catalog")
	}
}
