package persist

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// ReadJSON decodes the JSON file at path into v. found is false when the file
// does not exist; in that case err is nil and v is untouched.
func ReadJSON(path string, v any) (found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, wrap("read", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, wrap("parse", path, err)
	}
	return true, nil
}

// WriteJSON encodes v with indentation and replaces the file at path.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return wrap("encode", path, err)
	}
	return WriteFile(path, append(data, '\n'))
}

// WriteFile replaces the file at path via a temp file and rename, creating the
// parent directory when needed.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return wrap("mkdir", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return wrap("write", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return wrap("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return wrap("write", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return wrap("write", path, err)
	}
	return nil
}

// AppendLine appends line plus a newline to the file at path.
func AppendLine(path, line string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return wrap("mkdir", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return wrap("append", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return wrap("append", path, err)
	}
	return nil
}
