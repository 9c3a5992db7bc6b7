// Package history keeps the capped, newest-first list of committed prompts and
// the append-only audit log that mirrors it.
package history

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kayz/promptsmith/internal/logger"
	"github.com/kayz/promptsmith/internal/persist"
)

// DefaultMaxItems caps the structured store.
const DefaultMaxItems = 100

// DefaultRecent is the listing size used when callers pass no limit.
const DefaultRecent = 50

var (
	ErrEmptyPrompt       = errors.New("prompt is empty")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// Item is one committed prompt.
type Item struct {
	Prompt     string         `json:"prompt"`
	Timestamp  string         `json:"timestamp"`
	StyleUsed  string         `json:"style_used"`
	Parameters map[string]any `json:"parameters"`
}

// Options configures a Log. Zero values select the defaults.
type Options struct {
	MaxItems int
	Now      func() time.Time
}

// Log is the structured history plus its audit log. It is not safe for
// concurrent use.
type Log struct {
	path     string
	audit    auditLog
	items    []Item
	maxItems int
	now      func() time.Time
}

// Open loads the structured store at path. auditPath may be empty to disable
// the audit log. A corrupt store yields an empty log and the parse error.
func Open(path, auditPath string, opts Options) (*Log, error) {
	l := &Log{
		path:     path,
		audit:    auditLog{path: auditPath},
		maxItems: opts.MaxItems,
		now:      opts.Now,
	}
	if l.maxItems <= 0 {
		l.maxItems = DefaultMaxItems
	}
	if l.now == nil {
		l.now = time.Now
	}

	var loaded []Item
	if _, err := persist.ReadJSON(path, &loaded); err != nil {
		logger.Error("Error loading history: %v", err)
		return l, err
	}
	for _, item := range loaded {
		if item.Parameters == nil {
			item.Parameters = map[string]any{}
		}
		l.items = append(l.items, item)
	}
	if len(l.items) > l.maxItems {
		l.items = l.items[:l.maxItems]
	}
	return l, nil
}

// Path returns the structured store file.
func (l *Log) Path() string { return l.path }

// AuditPath returns the audit log file, or "" when disabled.
func (l *Log) AuditPath() string { return l.audit.path }

// Len returns the number of stored items.
func (l *Log) Len() int { return len(l.items) }

// Append records prompt at the head of the log, evicting the oldest item past
// the cap, and writes the audit line. The returned item is valid even when an
// error is returned; errors from both writes are joined.
func (l *Log) Append(prompt, styleUsed string, parameters map[string]any) (Item, error) {
	if strings.TrimSpace(prompt) == "" {
		return Item{}, ErrEmptyPrompt
	}
	if parameters == nil {
		parameters = map[string]any{}
	}

	item := Item{
		Prompt:     prompt,
		Timestamp:  l.now().Format(time.RFC3339),
		StyleUsed:  styleUsed,
		Parameters: parameters,
	}

	l.items = append([]Item{item}, l.items...)
	if len(l.items) > l.maxItems {
		l.items = l.items[:l.maxItems]
	}

	saveErr := l.save()
	auditErr := l.audit.write(item.Timestamp, prompt)
	if auditErr != nil {
		logger.Error("Error appending to log: %v", auditErr)
	}
	return item, errors.Join(saveErr, auditErr)
}

// Recent returns up to limit items, newest first. limit <= 0 means
// DefaultRecent.
func (l *Log) Recent(limit int) []Item {
	if limit <= 0 {
		limit = DefaultRecent
	}
	if limit > len(l.items) {
		limit = len(l.items)
	}
	return cloneItems(l.items[:limit])
}

// Search matches term case-insensitively against prompt text and style. A
// blank term returns every item.
func (l *Log) Search(term string) []Item {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return cloneItems(l.items)
	}

	var out []Item
	for _, item := range l.items {
		if strings.Contains(strings.ToLower(item.Prompt), needle) ||
			strings.Contains(strings.ToLower(item.StyleUsed), needle) {
			out = append(out, item)
		}
	}
	return cloneItems(out)
}

// Clear empties the structured store. The audit log is left alone.
func (l *Log) Clear() error {
	l.items = nil
	if err := l.save(); err != nil {
		return err
	}
	logger.Info("Prompt history cleared")
	return nil
}

// Format is an export format.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat accepts json, text and its alias txt.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "text", "txt":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Export writes the whole structured store to path. An unknown format is
// rejected before anything is written.
func (l *Log) Export(path, format string) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}

	switch f {
	case FormatJSON:
		err = persist.WriteJSON(path, l.snapshot())
	case FormatText:
		var b strings.Builder
		for _, item := range l.items {
			b.WriteString(formatLine(item.Timestamp, item.Prompt))
			b.WriteByte('\n')
		}
		err = persist.WriteFile(path, []byte(b.String()))
	}
	if err != nil {
		logger.Error("Failed to export history: %v", err)
		return err
	}
	logger.Info("History exported to %s", path)
	return nil
}

// Replace swaps the stored items for items, newest first, capped, and
// persists them. Used by migration.
func (l *Log) Replace(items []Item) error {
	l.items = cloneItems(items)
	if len(l.items) > l.maxItems {
		l.items = l.items[:l.maxItems]
	}
	return l.save()
}

func (l *Log) snapshot() []Item {
	if l.items == nil {
		return []Item{}
	}
	return l.items
}

func (l *Log) save() error {
	if err := persist.WriteJSON(l.path, l.snapshot()); err != nil {
		logger.Error("Error saving history: %v", err)
		return err
	}
	return nil
}

func cloneItems(items []Item) []Item {
	if len(items) == 0 {
		return []Item{}
	}
	out := make([]Item, len(items))
	for i, item := range items {
		params := make(map[string]any, len(item.Parameters))
		for k, v := range item.Parameters {
			params[k] = v
		}
		item.Parameters = params
		out[i] = item
	}
	return out
}
