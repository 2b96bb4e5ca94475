// Package settings persists named sets of the engine's flat key to scalar
// settings, either as JSON files or in a SQLite database.
package settings

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	ErrNotFound    = errors.New("settings: not found")
	ErrInvalidName = errors.New("settings: invalid name")
)

// Values is one flat settings set, as returned by engine.Settings.
type Values map[string]float64

type Store interface {
	Save(name string, v Values) error
	Load(name string) (Values, error)
	// List returns the stored set names in sorted order.
	List() ([]string, error)
	Delete(name string) error
	Close() error
}

var validName = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func checkName(name string) error {
	if !validName.MatchString(name) || strings.HasPrefix(name, ".") {
		return ErrInvalidName
	}
	return nil
}

// Open picks the backend from the path: a .db, .sqlite or .sqlite3 file
// opens a SQLStore, anything else is used as a FileStore directory.
func Open(path string) (Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQL(path)
	default:
		return NewFileStore(path)
	}
}
