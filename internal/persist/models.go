package persist

import (
	"encoding/json"
	"time"
)

// ArchivedPrompt is one committed prompt kept in the SQLite archive.
type ArchivedPrompt struct {
	ID         string
	Prompt     string
	StyleUsed  string
	Parameters map[string]any
	CreatedAt  time.Time
}

// scanner interface for both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// toJSON converts an object to JSON string
func toJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// fromJSON parses JSON string into an object
func fromJSON(data string, v interface{}) error {
	if data == "" || data == "{}" || data == "null" {
		return nil
	}
	return json.Unmarshal([]byte(data), v)
}
