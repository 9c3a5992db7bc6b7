package persist

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Archive keeps every committed prompt in SQLite. Unlike the structured history
// it is never truncated.
type Archive struct {
	db   *sql.DB
	path string
}

// OpenArchive creates or opens the archive database at path.
func OpenArchive(path string) (*Archive, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	a := &Archive{db: db, path: path}
	if err := a.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return a, nil
}

func (a *Archive) init() error {
	_, err := a.db.Exec(`
		CREATE TABLE IF NOT EXISTS prompts (
			id          TEXT PRIMARY KEY,
			prompt      TEXT NOT NULL,
			style_used  TEXT NOT NULL DEFAULT '',
			parameters  TEXT,
			created_at  TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_prompts_created ON prompts(created_at);
	`)
	return err
}

// Path returns the database file location.
func (a *Archive) Path() string { return a.path }

// Close closes the database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Record stores a committed prompt.
func (a *Archive) Record(prompt, styleUsed string, params map[string]any, at time.Time) (ArchivedPrompt, error) {
	entry := ArchivedPrompt{
		ID:         uuid.New().String(),
		Prompt:     prompt,
		StyleUsed:  styleUsed,
		Parameters: params,
		CreatedAt:  at,
	}
	_, err := a.db.Exec(`
		INSERT INTO prompts (id, prompt, style_used, parameters, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, entry.ID, entry.Prompt, entry.StyleUsed, toJSON(entry.Parameters), at.UTC().Format(timeLayout))
	if err != nil {
		return ArchivedPrompt{}, wrap("insert", a.path, err)
	}
	return entry, nil
}

// Search returns archived prompts whose text or style contains term
// (case-insensitive), newest first. An empty term matches everything.
// limit <= 0 means no limit.
func (a *Archive) Search(term string, limit int) ([]ArchivedPrompt, error) {
	if limit <= 0 {
		limit = -1
	}
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(term))) + "%"

	rows, err := a.db.Query(`
		SELECT id, prompt, style_used, parameters, created_at
		FROM prompts
		WHERE lower(prompt) LIKE ? ESCAPE '\' OR lower(style_used) LIKE ? ESCAPE '\'
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, pattern, pattern, limit)
	if err != nil {
		return nil, wrap("query", a.path, err)
	}
	defer rows.Close()

	var out []ArchivedPrompt
	for rows.Next() {
		entry, err := scanArchived(rows)
		if err != nil {
			return nil, wrap("scan", a.path, err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("query", a.path, err)
	}
	return out, nil
}

// Count returns the number of archived prompts.
func (a *Archive) Count() (int, error) {
	var n int
	if err := a.db.QueryRow(`SELECT COUNT(*) FROM prompts`).Scan(&n); err != nil {
		return 0, wrap("query", a.path, err)
	}
	return n, nil
}

func scanArchived(row scanner) (ArchivedPrompt, error) {
	var entry ArchivedPrompt
	var params sql.NullString
	var createdAt string
	if err := row.Scan(&entry.ID, &entry.Prompt, &entry.StyleUsed, &params, &createdAt); err != nil {
		return ArchivedPrompt{}, err
	}
	if params.Valid {
		_ = fromJSON(params.String, &entry.Parameters)
	}
	if t, err := time.Parse(timeLayout, createdAt); err == nil {
		entry.CreatedAt = t
	}
	return entry, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
