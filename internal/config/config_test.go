package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromPathReadsSections(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, ".promptsmith.yaml")
	content := `styles_dir: "my-styles"
data_dir: "/var/lib/promptsmith"
history:
  max_items: 25
  audit_file: "audit.txt"
archive:
  enabled: false
autosave:
  schedule: "@every 30s"
logging:
  level: debug
  file: "logs/promptsmith.log"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.RootDir != tmp {
		t.Fatalf("expected root dir %q, got %q", tmp, cfg.RootDir)
	}
	if got := cfg.StylesPath(); got != filepath.Join(tmp, "my-styles") {
		t.Fatalf("unexpected styles path: %q", got)
	}
	if got := cfg.DataPath(); got != "/var/lib/promptsmith" {
		t.Fatalf("absolute data dir must be kept, got %q", got)
	}
	if got := cfg.AuditPath(); got != filepath.Join("/var/lib/promptsmith", "audit.txt") {
		t.Fatalf("unexpected audit path: %q", got)
	}
	if cfg.History.MaxItems != 25 || cfg.Archive.Enabled {
		t.Fatalf("unexpected history/archive: %+v %+v", cfg.History, cfg.Archive)
	}
	if cfg.Autosave.Schedule != "@every 30s" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected autosave/logging: %+v %+v", cfg.Autosave, cfg.Logging)
	}
	if got := cfg.LogPath(); got != filepath.Join(tmp, "logs", "promptsmith.log") {
		t.Fatalf("unexpected log path: %q", got)
	}
	if got := cfg.SettingsFile; got != "config.json" {
		t.Fatalf("expected default settings file, got %q", got)
	}
}

func TestLoadFromPathMissingFileUsesDefaults(t *testing.T) {
	tmp := t.TempDir()
	cfg, err := LoadFromPath(filepath.Join(tmp, ".promptsmith.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.History.MaxItems != 100 || !cfg.Archive.Enabled {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if got := cfg.HistoryPath(); got != filepath.Join(tmp, "data", "prompt_history.json") {
		t.Fatalf("unexpected history path: %q", got)
	}
	if got := cfg.AutosavePath(); got != filepath.Join(tmp, "autosave_prompt.txt") {
		t.Fatalf("unexpected autosave path: %q", got)
	}
}

func TestLoadFromPathRejectsBadYAML(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), ".promptsmith.yaml")
	if err := os.WriteFile(cfgPath, []byte("history: [unclosed"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFromPath(cfgPath); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestConfigPathHonoursHomeEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)
	if got := ConfigPath(); got != filepath.Join(home, ".promptsmith.yaml") {
		t.Fatalf("unexpected config path: %q", got)
	}

	cfg := DefaultConfig()
	cfg.Normalize()
	cfg.Logging.Level = "debug"
	if err := cfg.Save(); err != nil {
		t.Fatalf("save config: %v", err)
	}
	loaded, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if loaded.Logging.Level != "debug" {
		t.Fatalf("expected saved level, got %q", loaded.Logging.Level)
	}
}

func TestSaveOmitsImplicitRootDir(t *testing.T) {
	tmp := t.TempDir()
	oldDir := filepath.Join(tmp, "old")
	cfg, err := LoadFromPath(filepath.Join(oldDir, ".promptsmith.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("save config: %v", err)
	}
	data, err := os.ReadFile(cfg.Path())
	if err != nil {
		t.Fatalf("read saved config: %v", err)
	}
	if strings.Contains(string(data), "root_dir") {
		t.Fatalf("implicit root dir should not be saved:\n%s", data)
	}
	if cfg.RootDir != oldDir {
		t.Fatalf("Save must not change the loaded root dir, got %q", cfg.RootDir)
	}

	newDir := filepath.Join(tmp, "moved")
	if err := os.Rename(oldDir, newDir); err != nil {
		t.Fatalf("move install: %v", err)
	}
	moved, err := LoadFromPath(filepath.Join(newDir, ".promptsmith.yaml"))
	if err != nil {
		t.Fatalf("load moved config: %v", err)
	}
	if moved.RootDir != newDir {
		t.Fatalf("expected root dir %q after move, got %q", newDir, moved.RootDir)
	}
}

func TestSaveKeepsExplicitRootDir(t *testing.T) {
	tmp := t.TempDir()
	elsewhere := filepath.Join(tmp, "data-root")
	cfg, err := LoadFromPath(filepath.Join(tmp, "conf", ".promptsmith.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.RootDir = elsewhere
	if err := cfg.Save(); err != nil {
		t.Fatalf("save config: %v", err)
	}
	reloaded, err := LoadFromPath(cfg.Path())
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if reloaded.RootDir != elsewhere {
		t.Fatalf("expected explicit root dir %q, got %q", elsewhere, reloaded.RootDir)
	}
}
