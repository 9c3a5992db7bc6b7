package history

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/kayz/promptsmith/internal/persist"
)

var auditMu sync.Mutex

// auditLog is the append-only plain-text record of committed prompts. It is
// never truncated or rewritten.
type auditLog struct {
	path string
}

// AuditEntry is one parsed line of the audit log.
type AuditEntry struct {
	Timestamp string
	Prompt    string
}

func (a auditLog) write(timestamp, prompt string) error {
	if a.path == "" {
		return nil
	}
	line := formatLine(timestamp, prompt)

	auditMu.Lock()
	defer auditMu.Unlock()
	return persist.AppendLine(a.path, line)
}

// formatLine renders "[timestamp] prompt". Line breaks inside the prompt are
// folded to spaces so every commit stays on one line.
func formatLine(timestamp, prompt string) string {
	prompt = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(prompt)
	return "[" + timestamp + "] " + prompt
}

// ReadAudit parses the audit log at path. Lines without a bracketed timestamp
// prefix, as written by old releases, come back with an empty Timestamp. A
// missing file yields no entries.
func ReadAudit(path string) ([]AuditEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open audit file: %w", err)
	}
	defer f.Close()

	var entries []AuditEntry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		entries = append(entries, parseLine(line))
	}
	if err := sc.Err(); err != nil {
		return entries, fmt.Errorf("read audit file: %w", err)
	}
	return entries, nil
}

func parseLine(line string) AuditEntry {
	if strings.HasPrefix(line, "[") {
		if end := strings.Index(line, "] "); end > 1 {
			return AuditEntry{Timestamp: line[1:end], Prompt: line[end+2:]}
		}
	}
	return AuditEntry{Prompt: line}
}
