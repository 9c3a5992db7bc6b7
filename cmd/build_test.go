package cmd

import (
	"testing"

	"github.com/kayz/promptsmith/internal/promptbuild"
	"github.com/spf13/pflag"
)

func TestOverrideRequestOnlyCopiesChangedFlags(t *testing.T) {
	if err := buildCmd.ParseFlags([]string{"--style", "Noir", "--stylize", "750", "--ar", "16:9"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	t.Cleanup(func() { buildCmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false }) })

	chaos := 25
	req := promptbuild.Request{Text: "from file", Chaos: &chaos, Mode: "niji"}
	overrideRequest(buildCmd, &req, []string{"rainy", "alley"})

	if req.Text != "rainy alley" {
		t.Fatalf("args should replace text, got %q", req.Text)
	}
	if req.Style != "Noir" || req.Stylize == nil || *req.Stylize != 750 {
		t.Fatalf("flag values not applied: %+v", req)
	}
	if req.Chaos == nil || *req.Chaos != 25 || req.Mode != "niji" {
		t.Fatalf("unchanged flags must keep file values: %+v", req)
	}
	if req.Advanced.AspectRatio != "16:9" {
		t.Fatalf("expected aspect ratio override, got %q", req.Advanced.AspectRatio)
	}
}

func TestMergeRestoredDropsDraftWhenModeChosen(t *testing.T) {
	var remembered promptbuild.Selection
	remembered.Text = "owl"
	remembered.Style = "Ukiyo-e"
	remembered.Chaos = promptbuild.Chaos50
	remembered.SetDraft(true)

	req := promptbuild.Request{Mode: "niji"}
	mergeRestored(buildCmd, &req, remembered)
	if req.Draft {
		t.Fatalf("remembered draft must not override an explicit mode")
	}
	if req.Text != "owl" || req.Style != "Ukiyo-e" || req.Chaos == nil || *req.Chaos != 50 {
		t.Fatalf("remembered fields not merged: %+v", req)
	}

	sel, err := req.Selection()
	if err != nil {
		t.Fatalf("selection: %v", err)
	}
	if sel.Mode() != promptbuild.ModeNiji || sel.Draft() {
		t.Fatalf("expected niji without draft, got %v draft=%v", sel.Mode(), sel.Draft())
	}

	req = promptbuild.Request{}
	mergeRestored(buildCmd, &req, remembered)
	if !req.Draft || req.Mode != "standard" {
		t.Fatalf("expected remembered draft and mode, got draft=%v mode=%q", req.Draft, req.Mode)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"multi\nline   text", 0, "multi line text"},
		{"abcdefghij", 5, "abcd…"},
		{"ééééé", 5, "ééééé"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestFormatFromExt(t *testing.T) {
	tests := map[string]string{
		"out.json":      "json",
		"OUT.JSON":      "json",
		"history.txt":   "text",
		"history":       "text",
		"dir.json/file": "text",
	}
	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			if got := formatFromExt(path); got != want {
				t.Fatalf("formatFromExt(%q) = %q, want %q", path, got, want)
			}
		})
	}
}

func TestMergeRestoredKeepsRememberedAdvancedPerField(t *testing.T) {
	var remembered promptbuild.Selection
	remembered.Text = "owl"
	remembered.SetMode(promptbuild.ModeStandard)
	remembered.Advanced = promptbuild.Advanced{AspectRatio: "16:9", Quality: "2", Weird: 250}

	req := promptbuild.Request{Advanced: promptbuild.Advanced{Seed: "42", Quality: "0.5"}}
	mergeRestored(buildCmd, &req, remembered)

	want := promptbuild.Advanced{AspectRatio: "16:9", Quality: "0.5", Seed: "42", Weird: 250}
	if req.Advanced != want {
		t.Fatalf("advanced merge mismatch\n got: %+v\nwant: %+v", req.Advanced, want)
	}

	sel, err := req.Selection()
	if err != nil {
		t.Fatalf("selection: %v", err)
	}
	if got := promptbuild.Assemble(sel); got != "owl --v 7 --ar 16:9 --q 0.5 --seed 42 --weird 250" {
		t.Fatalf("unexpected prompt: %q", got)
	}
}
