// Package persist holds the flat-file and SQLite storage primitives shared by
// the catalog, template, history and settings stores.
package persist

import (
	"errors"
	"fmt"
)

// Error reports a failed read, parse or write of a persisted file. Callers that
// only want to log and continue can check for it with errors.As.
type Error struct {
	Op   string // "read", "parse", "write", "append", ...
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Path: path, Err: err}
}

// IsPersistence reports whether err came from a storage operation.
func IsPersistence(err error) bool {
	var pe *Error
	return errors.As(err, &pe)
}
