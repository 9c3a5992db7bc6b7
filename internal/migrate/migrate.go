// Package migrate imports an install of the old single-file tool: its
// settings, style files and plain prompt log.
package migrate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/kayz/promptsmith/internal/config"
	"github.com/kayz/promptsmith/internal/history"
	"github.com/kayz/promptsmith/internal/logger"
	"github.com/kayz/promptsmith/internal/settings"
	"github.com/kayz/promptsmith/internal/styles"
	"github.com/kayz/promptsmith/internal/templates"
)

// Window geometry given to migrated settings.
const (
	MigratedWindowWidth  = 1200
	MigratedWindowHeight = 800
)

// DefaultTemplates are seeded when the template store is empty.
var DefaultTemplates = []templates.Template{
	{
		Name:        "Portrait Photography",
		Template:    "professional portrait photography, studio lighting, high resolution",
		Description: "Template for portrait photography prompts",
		Tags:        []string{"photography", "portrait", "professional"},
	},
	{
		Name:        "Fantasy Art",
		Template:    "fantasy art, digital painting, detailed, magical atmosphere",
		Description: "Template for fantasy artwork",
		Tags:        []string{"fantasy", "art", "digital", "magical"},
	},
	{
		Name:        "Logo Design",
		Template:    "minimalist logo design, clean, professional, black background",
		Description: "Template for logo creation",
		Tags:        []string{"logo", "design", "minimalist", "professional"},
	},
}

// Legacy file names inside the old install.
const (
	legacyConfig   = "config.json"
	legacyStyles   = "Styles"
	legacyLog      = "prompt_log.txt"
	legacyAutosave = "autosave_prompt.txt"
)

// Options controls a migration run.
type Options struct {
	// Backup copies the old install under <root>/backups first.
	Backup bool
	Now    func() time.Time
}

// Report summarises what a run did.
type Report struct {
	BackupDir        string
	SettingsMigrated bool
	StyleFiles       int
	HistoryItems     int
	AuditCopied      bool
	TemplatesSeeded  int
	FilesCopied      []string
}

// Run migrates the install at from into the layout described by cfg. Each
// step is attempted even if an earlier one failed; the failures are joined.
func Run(from string, cfg *config.Config, opts Options) (Report, error) {
	var rep Report
	if opts.Now == nil {
		opts.Now = time.Now
	}

	info, err := os.Stat(from)
	if err != nil {
		return rep, fmt.Errorf("old install: %w", err)
	}
	if !info.IsDir() {
		return rep, fmt.Errorf("old install %s is not a directory", from)
	}

	logger.Info("Starting migration from %s", from)
	for _, dir := range []string{cfg.RootDir, cfg.DataPath(), cfg.StylesPath()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return rep, fmt.Errorf("create folder %s: %w", dir, err)
		}
	}

	var errs []error
	if opts.Backup {
		rep.BackupDir = filepath.Join(cfg.RootDir, "backups", "old_version_"+opts.Now().Format("20060102_150405"))
		if err := copyTree(from, rep.BackupDir); err != nil {
			errs = append(errs, fmt.Errorf("backup: %w", err))
		} else {
			logger.Info("Created backup at: %s", rep.BackupDir)
		}
	}

	rep.SettingsMigrated, err = migrateSettings(from, cfg)
	errs = append(errs, err)

	rep.StyleFiles, err = migrateStyles(from, cfg)
	errs = append(errs, err)

	rep.HistoryItems, rep.AuditCopied, err = migrateLog(from, cfg, opts.Now)
	errs = append(errs, err)

	rep.TemplatesSeeded, err = seedTemplates(cfg)
	errs = append(errs, err)

	for _, name := range []string{legacyAutosave, "README.md"} {
		dst := filepath.Join(cfg.RootDir, name)
		if name == legacyAutosave {
			dst = cfg.AutosavePath()
		}
		copied, err := copyIfExists(filepath.Join(from, name), dst)
		if err != nil {
			logger.Warn("Failed to copy %s: %v", name, err)
			errs = append(errs, err)
			continue
		}
		if copied {
			rep.FilesCopied = append(rep.FilesCopied, name)
		}
	}

	err = errors.Join(errs...)
	if err != nil {
		logger.Error("Migration finished with errors: %v", err)
	} else {
		logger.Info("Migration completed successfully")
	}
	return rep, err
}

func migrateSettings(from string, cfg *config.Config) (bool, error) {
	src := filepath.Join(from, legacyConfig)
	if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
		logger.Warn("No old configuration found, using defaults")
		return false, nil
	}

	rec, err := settings.NewStore(src).Load()
	if err != nil {
		return false, fmt.Errorf("read old configuration: %w", err)
	}
	migrated := settings.Default()
	migrated.SelectedText = rec.SelectedText
	migrated.Dropdown = rec.Dropdown
	migrated.RadioMode = rec.RadioMode
	migrated.RadioStylize = rec.RadioStylize
	migrated.RadioChaos = rec.RadioChaos
	migrated.CheckVars = rec.CheckVars
	migrated.WindowWidth = MigratedWindowWidth
	migrated.WindowHeight = MigratedWindowHeight

	if err := settings.NewStore(cfg.SettingsPath()).Save(migrated); err != nil {
		return false, err
	}
	logger.Info("Configuration migrated successfully")
	return true, nil
}

func migrateStyles(from string, cfg *config.Config) (int, error) {
	src := filepath.Join(from, legacyStyles)
	entries, err := os.ReadDir(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("No old styles folder found")
			return 0, nil
		}
		return 0, fmt.Errorf("read old styles: %w", err)
	}

	n := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), styles.FileExt) {
			continue
		}
		if err := copyFile(filepath.Join(src, entry.Name()), filepath.Join(cfg.StylesPath(), entry.Name())); err != nil {
			return n, fmt.Errorf("migrate style file %s: %w", entry.Name(), err)
		}
		logger.Debug("Migrated style file: %s", entry.Name())
		n++
	}
	logger.Info("Migrated %d style files", n)
	return n, nil
}

// migrateLog turns the old prompt log into history items, newest first, and
// carries the log over as the audit file when none exists yet.
func migrateLog(from string, cfg *config.Config, now func() time.Time) (int, bool, error) {
	src := filepath.Join(from, legacyLog)
	entries, err := history.ReadAudit(src)
	if err != nil {
		return 0, false, fmt.Errorf("read old prompt log: %w", err)
	}
	if len(entries) == 0 {
		logger.Warn("No old prompt log found")
		return 0, false, nil
	}

	stamp := now().Format(time.RFC3339)
	items := make([]history.Item, 0, len(entries))
	for _, e := range entries {
		ts := e.Timestamp
		if ts == "" {
			ts = stamp
		}
		items = append(items, history.Item{Prompt: e.Prompt, Timestamp: ts, Parameters: map[string]any{}})
	}
	slices.Reverse(items)

	log, err := history.Open(cfg.HistoryPath(), "", history.Options{MaxItems: cfg.History.MaxItems})
	if err != nil {
		logger.Warn("Replacing unreadable history: %v", err)
	}
	if err := log.Replace(items); err != nil {
		return 0, false, err
	}

	copied := false
	if _, err := os.Stat(cfg.AuditPath()); errors.Is(err, os.ErrNotExist) {
		if err := copyFile(src, cfg.AuditPath()); err != nil {
			return log.Len(), false, fmt.Errorf("copy prompt log: %w", err)
		}
		copied = true
	}
	logger.Info("Migrated %d history items", log.Len())
	return log.Len(), copied, nil
}

func seedTemplates(cfg *config.Config) (int, error) {
	store, err := templates.Open(cfg.TemplatesPath())
	if err != nil {
		logger.Warn("Replacing unreadable templates: %v", err)
	}
	if len(store.List()) > 0 {
		return 0, nil
	}
	for _, t := range DefaultTemplates {
		if err := store.Save(t); err != nil {
			return 0, fmt.Errorf("create default templates: %w", err)
		}
	}
	logger.Info("Created default templates")
	return len(DefaultTemplates), nil
}

func copyIfExists(src, dst string) (bool, error) {
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, copyFile(src, dst)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path == dst {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(path, target)
	})
}
