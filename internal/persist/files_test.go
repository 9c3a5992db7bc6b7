package persist

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadJSONMissingFile(t *testing.T) {
	var v map[string]int
	found, err := ReadJSON(filepath.Join(t.TempDir(), "nope.json"), &v)
	if err != nil {
		t.Fatalf("expected nil error for missing file, got %v", err)
	}
	if found {
		t.Fatalf("expected found=false for missing file")
	}
}

func TestReadJSONCorruptFileIsPersistenceError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	var v map[string]int
	found, err := ReadJSON(path, &v)
	if !found {
		t.Fatalf("expected found=true for existing file")
	}
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *persist.Error, got %T (%v)", err, err)
	}
	if pe.Op != "parse" || pe.Path != path {
		t.Fatalf("unexpected error fields: %+v", pe)
	}
}

func TestWriteJSONRoundTripCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")
	if err := WriteJSON(path, map[string]int{"a": 1}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var got map[string]int
	if _, err := ReadJSON(path, &got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got["a"] != 1 {
		t.Fatalf("unexpected content: %#v", got)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected no temp files left behind, got %d entries", len(entries))
	}
}

func TestAppendLineAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	for _, line := range []string{"one", "two"} {
		if err := AppendLine(path, line); err != nil {
			t.Fatalf("AppendLine(%q): %v", line, err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if got := strings.Split(strings.TrimSpace(string(data)), "\n"); len(got) != 2 || got[1] != "two" {
		t.Fatalf("unexpected lines: %#v", got)
	}
}
