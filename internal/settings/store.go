package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"

	"github.com/kayz/promptsmith/internal/logger"
	"github.com/kayz/promptsmith/internal/persist"
)

// Store reads and writes the record file.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load returns the stored record. A missing file gives the defaults and no
// error. An unparseable file gives the defaults and the parse error. Keys that
// are missing or hold a value of the wrong type keep their default; the rest
// are used after Normalize.
func (s *Store) Load() (Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("Config file not found, using defaults")
			return Default(), nil
		}
		logger.Error("Failed to load configuration: %v", err)
		return Default(), &persist.Error{Op: "read", Path: s.path, Err: err}
	}

	rec, err := decode(data)
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		return Default(), &persist.Error{Op: "parse", Path: s.path, Err: err}
	}
	logger.Debug("Configuration loaded from %s", s.path)
	return rec, nil
}

// decode merges data over the defaults key by key so that one bad value does
// not discard the rest of the record.
func decode(data []byte) (Record, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), &raw); err != nil {
		return Record{}, err
	}

	rec := Default()
	fields := map[string]any{
		"selected_text":      &rec.SelectedText,
		"dropdown":           &rec.Dropdown,
		"style":              &rec.Style,
		"radioMode":          &rec.RadioMode,
		"radioStylize":       &rec.RadioStylize,
		"radioChaos":         &rec.RadioChaos,
		"repeat":             &rec.Repeat,
		"check_vars":         &rec.CheckVars,
		"advanced":           &rec.Advanced,
		"window_x":           &rec.WindowX,
		"window_y":           &rec.WindowY,
		"window_width":       &rec.WindowWidth,
		"window_height":      &rec.WindowHeight,
		"theme":              &rec.Theme,
		"auto_save_interval": &rec.AutoSaveInterval,
	}
	for key, dst := range fields {
		value, ok := raw[key]
		if !ok || string(value) == "null" {
			continue
		}
		if err := json.Unmarshal(value, dst); err != nil {
			logger.Warn("Ignoring config key %s: %v", key, err)
			resetField(&rec, key)
		}
	}
	rec.Normalize()
	return rec, nil
}

// resetField restores the default of a key whose decode failed half way.
func resetField(rec *Record, key string) {
	def := Default()
	switch key {
	case "check_vars":
		rec.CheckVars = def.CheckVars
	case "advanced":
		rec.Advanced = def.Advanced
	}
}

// Save writes rec after normalising a copy of it.
func (s *Store) Save(rec Record) error {
	rec = rec.Clone()
	rec.Normalize()
	if err := persist.WriteJSON(s.path, rec); err != nil {
		logger.Error("Failed to save configuration: %v", err)
		return err
	}
	logger.Debug("Configuration saved to %s", s.path)
	return nil
}

// Reset overwrites the file with the defaults.
func (s *Store) Reset() (Record, error) {
	rec := Default()
	return rec, s.Save(rec)
}
