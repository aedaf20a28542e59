package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const exportFile = "export.json"

// ExportPrefs remembers the last export dialog choices.
type ExportPrefs struct {
	Format   string `json:"format"`
	FilterBy string `json:"filter_by"`
}

// Store reads and writes preference files under Dir.
type Store struct {
	Dir string
}

// DefaultStore returns a store in the user config dir.
func DefaultStore() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return &Store{Dir: filepath.Join(dir, "rentdesk")}, nil
}

func (s *Store) SaveExport(p ExportPrefs) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(s.Dir, exportFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadExport returns the saved prefs, or the zero value when none exist.
func (s *Store) LoadExport() (ExportPrefs, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir, exportFile))
	if err != nil {
		if os.IsNotExist(err) {
			return ExportPrefs{}, nil
		}
		return ExportPrefs{}, err
	}
	var p ExportPrefs
	if err := json.Unmarshal(data, &p); err != nil {
		return ExportPrefs{}, err
	}
	return p, nil
}
