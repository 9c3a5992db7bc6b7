package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", TraceLevel},
		{"DEBUG", DebugLevel},
		{"", InfoLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"panic", PanicLevel},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLevelFiltersOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(WarnLevel)
	t.Cleanup(func() {
		SetLevel(InfoLevel)
	})

	Info("hidden %d", 1)
	Warn("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown 2") {
		t.Fatalf("expected warn line in output, got: %s", out)
	}
}
