package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tickpool/internal/model"
)

// StateStore persists run state to disk.
type StateStore struct {
	path    string
	enabled bool
}

func NewStateStore(path string, enabled bool) *StateStore {
	return &StateStore{path: path, enabled: enabled}
}

func (s *StateStore) Load() (model.RunState, bool, error) {
	if !s.enabled {
		return model.RunState{}, false, nil
	}

	stat, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.RunState{}, false, nil
		}
		return model.RunState{}, false, fmt.Errorf("stat run state: %w", err)
	}
	if stat.IsDir() {
		return model.RunState{}, false, fmt.Errorf("run state path is a directory")
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.RunState{}, false, fmt.Errorf("read run state: %w", err)
	}

	var state model.RunState
	if err := json.Unmarshal(data, &state); err != nil {
		return model.RunState{}, false, fmt.Errorf("parse run state: %w", err)
	}

	return state, true, nil
}

func (s *StateStore) Save(state model.RunState) error {
	if !s.enabled {
		return nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create run state dir: %w", err)
		}
	}

	state.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal run state: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write run state tmp: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename run state: %w", err)
	}

	return nil
}
