// Package templates stores named prompt snippets in a single JSON file.
package templates

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/kayz/promptsmith/internal/logger"
	"github.com/kayz/promptsmith/internal/persist"
)

var (
	ErrMissingName    = errors.New("template name is required")
	ErrMissingContent = errors.New("template content is required")
)

// Template is a named, described prompt snippet.
type Template struct {
	Name        string   `json:"name"`
	Template    string   `json:"template"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"created_at"`
}

// Store keeps templates in insertion order and rewrites the whole file after
// every mutation. It is not safe for concurrent use.
type Store struct {
	path      string
	templates []Template
	now       func() time.Time
}

// Open loads the store from path. A missing file yields an empty store. A
// corrupt file also yields an empty store, and the parse error is returned.
func Open(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}

	var loaded []Template
	if _, err := persist.ReadJSON(path, &loaded); err != nil {
		logger.Error("Error loading templates: %v", err)
		return s, err
	}
	for _, t := range loaded {
		if strings.TrimSpace(t.Name) == "" {
			continue
		}
		t.Tags = normalizeTags(t.Tags)
		s.templates = append(s.templates, t)
	}
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Save inserts t, or replaces the template with the same name in place. A
// replacement without CreatedAt keeps the original timestamp. The in-memory
// change stands even when writing the file fails.
func (s *Store) Save(t Template) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(t.Template) == "" {
		return ErrMissingContent
	}
	t.Tags = normalizeTags(t.Tags)

	if i := s.index(t.Name); i >= 0 {
		if t.CreatedAt == "" {
			t.CreatedAt = s.templates[i].CreatedAt
		}
		s.templates[i] = t
	} else {
		if t.CreatedAt == "" {
			t.CreatedAt = s.now().Format(time.RFC3339)
		}
		s.templates = append(s.templates, t)
	}

	if err := s.persist(); err != nil {
		return err
	}
	logger.Info("Template '%s' saved successfully", t.Name)
	return nil
}

// Delete removes the named template. It reports false when no such template
// exists, in which case nothing is written.
func (s *Store) Delete(name string) (bool, error) {
	i := s.index(strings.TrimSpace(name))
	if i < 0 {
		return false, nil
	}
	s.templates = slices.Delete(s.templates, i, i+1)
	if err := s.persist(); err != nil {
		return true, err
	}
	logger.Info("Template '%s' deleted successfully", name)
	return true, nil
}

// Get returns the named template.
func (s *Store) Get(name string) (Template, bool) {
	i := s.index(strings.TrimSpace(name))
	if i < 0 {
		return Template{}, false
	}
	return clone(s.templates[i]), true
}

// List returns every template in insertion order.
func (s *Store) List() []Template {
	out := make([]Template, len(s.templates))
	for i, t := range s.templates {
		out[i] = clone(t)
	}
	return out
}

// Search matches term case-insensitively against name, description and tags.
// A blank term returns every template.
func (s *Store) Search(term string) []Template {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return s.List()
	}

	var out []Template
	for _, t := range s.templates {
		if matches(t, needle) {
			out = append(out, clone(t))
		}
	}
	return out
}

func matches(t Template, needle string) bool {
	if strings.Contains(strings.ToLower(t.Name), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle) {
		return true
	}
	return slices.ContainsFunc(t.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), needle)
	})
}

func (s *Store) index(name string) int {
	return slices.IndexFunc(s.templates, func(t Template) bool { return t.Name == name })
}

func (s *Store) persist() error {
	out := s.templates
	if out == nil {
		out = []Template{}
	}
	if err := persist.WriteJSON(s.path, out); err != nil {
		logger.Error("Error saving templates: %v", err)
		return err
	}
	return nil
}

// normalizeTags trims, drops empties and de-duplicates while keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func clone(t Template) Template {
	t.Tags = slices.Clone(t.Tags)
	return t
}
