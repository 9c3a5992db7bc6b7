// Package app wires the catalog, stores and assembler into one session owned
// by the caller. All mutations go through the session's lock, so the autosave
// timer and user commands never interleave.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/kayz/promptsmith/internal/autosave"
	"github.com/kayz/promptsmith/internal/config"
	"github.com/kayz/promptsmith/internal/history"
	"github.com/kayz/promptsmith/internal/logger"
	"github.com/kayz/promptsmith/internal/persist"
	"github.com/kayz/promptsmith/internal/promptbuild"
	"github.com/kayz/promptsmith/internal/settings"
	"github.com/kayz/promptsmith/internal/styles"
	"github.com/kayz/promptsmith/internal/templates"
)

// Options tunes a session. Zero values select the defaults.
type Options struct {
	Now  func() time.Time
	Rand *rand.Rand
}

// Session is one application session.
type Session struct {
	mu sync.Mutex

	cfg       *config.Config
	catalog   *styles.Catalog
	templates *templates.Store
	history   *history.Log
	settings  *settings.Store
	archive   *persist.Archive

	record    settings.Record
	selection promptbuild.Selection
	category  string
	dirty     bool // selection edited since it was last loaded or saved
	warnings  []error

	now  func() time.Time
	rand *rand.Rand
}

// Open builds a session from cfg. Unreadable or corrupt stores do not stop
// it: each falls back to an empty or default state and the cause is kept in
// Warnings. The archive is skipped when it cannot be opened.
func Open(cfg *config.Config, opts Options) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	s := &Session{cfg: cfg, now: opts.Now, rand: opts.Rand}
	if s.now == nil {
		s.now = time.Now
	}

	var err error
	if s.catalog, err = styles.Open(cfg.StylesPath()); err != nil {
		s.warn("style metadata", err)
	}
	if s.templates, err = templates.Open(cfg.TemplatesPath()); err != nil {
		s.warn("templates", err)
	}
	s.history, err = history.Open(cfg.HistoryPath(), cfg.AuditPath(), history.Options{
		MaxItems: cfg.History.MaxItems,
		Now:      s.now,
	})
	if err != nil {
		s.warn("history", err)
	}

	s.settings = settings.NewStore(cfg.SettingsPath())
	if s.record, err = s.settings.Load(); err != nil {
		s.warn("settings", err)
	}
	s.selection = SelectionFromRecord(s.record)
	s.category = s.record.Dropdown

	if cfg.Archive.Enabled {
		if s.archive, err = persist.OpenArchive(cfg.ArchivePath()); err != nil {
			s.warn("archive", err)
		}
	}
	return s, nil
}

func (s *Session) warn(what string, err error) {
	logger.Warn("Session: %s unavailable: %v", what, err)
	s.warnings = append(s.warnings, fmt.Errorf("%s: %w", what, err))
}

// Warnings returns the non-fatal load failures collected by Open.
func (s *Session) Warnings() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.warnings...)
}

// Config returns the configuration the session was opened with.
func (s *Session) Config() *config.Config { return s.cfg }

// Do runs fn under the session lock. Use it to reach the components directly
// while an autosave loop is running.
func (s *Session) Do(fn func(c Components) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(Components{
		Catalog:   s.catalog,
		Templates: s.templates,
		History:   s.history,
		Archive:   s.archive,
	})
}

// Components exposes the session's stores inside Do. Archive is nil when
// disabled or unavailable.
type Components struct {
	Catalog   *styles.Catalog
	Templates *templates.Store
	History   *history.Log
	Archive   *persist.Archive
}

// Selection returns the current selection.
func (s *Session) Selection() promptbuild.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Update edits the current selection in place.
func (s *Session) Update(fn func(sel *promptbuild.Selection)) promptbuild.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.selection)
	s.dirty = true
	return s.selection
}

// Category returns the category last chosen for the style.
func (s *Session) Category() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// SelectStyle chooses style from category.
func (s *Session) SelectStyle(category, style string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = category
	s.selection.Style = strings.TrimSpace(style)
	s.dirty = true
}

// RandomStyle picks a random style and selects it.
func (s *Session) RandomStyle() (category, style string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	category, style, ok = s.catalog.Random(s.rand)
	if ok {
		s.category = category
		s.selection.Style = style
		s.dirty = true
	}
	return category, style, ok
}

// UseTemplate replaces the free text with the named template's text.
func (s *Session) UseTemplate(name string) (templates.Template, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates.Get(name)
	if ok {
		s.selection.Text = t.Template
		s.dirty = true
	}
	return t, ok
}

// Preview assembles and validates the current selection without side effects.
func (s *Session) Preview() (prompt string, issues []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prompt = promptbuild.Assemble(s.selection)
	return prompt, promptbuild.Validate(prompt)
}

// Commit appends the current prompt to history, counts a use of the selected
// style and archives the prompt. Validation issues are advisory and returned
// alongside. Persistence failures are joined into the error; the in-memory
// history entry stands regardless.
func (s *Session) Commit() (history.Item, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prompt := promptbuild.Assemble(s.selection)
	issues := promptbuild.Validate(prompt)
	params := s.selection.Parameters()

	item, err := s.history.Append(prompt, s.selection.Style, params)
	if errors.Is(err, history.ErrEmptyPrompt) {
		return history.Item{}, issues, err
	}
	errs := []error{err}

	if s.selection.Style != "" {
		errs = append(errs, s.catalog.RecordUsage(s.selection.Style))
	}
	if s.archive != nil {
		if _, aerr := s.archive.Record(prompt, s.selection.Style, params, s.now()); aerr != nil {
			logger.Error("Failed to archive prompt: %v", aerr)
			errs = append(errs, aerr)
		}
	}
	return item, issues, errors.Join(errs...)
}

// Record returns the session record as it would be saved now.
func (s *Session) Record() settings.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CaptureRecord(s.record, s.selection, s.category)
}

// Reload re-reads the settings file, replacing the selection with the one it
// holds, and drops the style cache. Unsaved edits are discarded.
func (s *Session) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog.InvalidateCache()
	s.dirty = false
	return s.reloadLocked()
}

// reloadLocked picks up the record on disk. The selection follows it unless
// it has unsaved edits.
func (s *Session) reloadLocked() error {
	rec, err := s.settings.Load()
	if err != nil {
		return err
	}
	s.record = rec
	if !s.dirty {
		s.selection = SelectionFromRecord(rec)
		s.category = rec.Dropdown
	}
	return nil
}

// Remember saves the current selection into the settings file.
func (s *Session) Remember() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rememberLocked()
}

// rememberLocked writes the selection over the record currently on disk, so
// theme, geometry and interval saved by other processes are kept.
func (s *Session) rememberLocked() error {
	if rec, err := s.settings.Load(); err == nil {
		s.record = rec
	}
	s.record = CaptureRecord(s.record, s.selection, s.category)
	if err := s.settings.Save(s.record); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// Autosave overwrites the autosave file with the current prompt. Unsaved
// selection edits are saved into the record first; otherwise the record is
// re-read so the prompt follows what other commands remembered. Both steps
// are attempted; failures are joined.
func (s *Session) Autosave(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var recordErr error
	if s.dirty {
		recordErr = s.rememberLocked()
	} else if err := s.reloadLocked(); err != nil {
		logger.Warn("Auto-save: keeping the loaded settings: %v", err)
	}

	prompt := promptbuild.Assemble(s.selection)
	fileErr := persist.WriteFile(s.cfg.AutosavePath(), []byte(prompt))
	if fileErr != nil {
		logger.Error("Auto-save failed: %v", fileErr)
	}
	return errors.Join(fileErr, recordErr)
}

// AutosaveSchedule is the configured cron schedule, or an "@every" schedule
// built from the record's interval.
func (s *Session) AutosaveSchedule() string {
	if schedule := s.cfg.Autosave.Schedule; schedule != "" {
		return schedule
	}
	s.mu.Lock()
	interval := s.record.AutoSaveInterval
	s.mu.Unlock()
	return autosave.Every(time.Duration(interval) * time.Millisecond)
}

// Close releases the archive.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.archive == nil {
		return nil
	}
	err := s.archive.Close()
	s.archive = nil
	return err
}
