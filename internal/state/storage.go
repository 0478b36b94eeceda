package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoState is returned by Update when no loop has been configured.
var ErrNoState = errors.New("loop state not found")

// Store handles the loop state record and the progress notes beside it.
type Store struct {
	basePath string
}

// NewStore creates a new Store with the given base path.
// The base path should be the project root; files live in .opencode/.
func NewStore(basePath string) *Store {
	return &Store{basePath: basePath}
}

// Dir returns the control-data directory.
func (s *Store) Dir() string {
	return filepath.Join(s.basePath, ".opencode")
}

// StatePath returns the path of the state record.
func (s *Store) StatePath() string {
	return filepath.Join(s.Dir(), "openspec-loop.json")
}

// ProgressPath returns the path of the progress notes file.
func (s *Store) ProgressPath() string {
	return filepath.Join(s.Dir(), "openspec-loop-progress.md")
}

// Load reads the state record.
// A missing or malformed record yields nil, nil: the loop is simply not configured.
func (s *Store) Load() (*LoopState, error) {
	data, err := os.ReadFile(s.StatePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var st LoopState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, nil
	}
	if st.VerifyCommands == nil {
		st.VerifyCommands = []string{}
	}

	return &st, nil
}

// Save overwrites the state record. The data is written to a temporary file
// in the same directory and renamed into place, so readers never observe a
// partial record.
func (s *Store) Save(st *LoopState) error {
	if err := os.MkdirAll(s.Dir(), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	out := st.Clone()
	if out.VerifyCommands == nil {
		out.VerifyCommands = []string{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir(), ".openspec-loop-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state file: %w", err)
	}
	// CreateTemp uses 0600; other tools read and edit this record.
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set state file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmpPath, s.StatePath()); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}

// Update loads the record, applies fn and saves it.
// Returns ErrNoState when nothing is stored yet.
func (s *Store) Update(fn func(*LoopState)) error {
	st, err := s.Load()
	if err != nil {
		return err
	}
	if st == nil {
		return ErrNoState
	}

	fn(st)
	return s.Save(st)
}

// LoadProgress returns the progress notes verbatim if the file exists.
func (s *Store) LoadProgress() (string, bool) {
	data, err := os.ReadFile(s.ProgressPath())
	if err != nil {
		return "", false
	}
	return string(data), true
}
