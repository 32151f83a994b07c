package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore is a JSON-file backed store for single-instance CLI use.
// The whole state lives in one file and is rewritten on every mutation;
// binding sets are small (one group's roster) so this stays cheap.
type FileStore struct {
	mu   sync.RWMutex
	path string
	data fileData
}

type fileData struct {
	Bindings map[string]map[string]Binding `json:"bindings"` // parent -> user -> binding
	Parents  map[string]Parent             `json:"parents"`
	Muted    map[string]bool               `json:"muted"`
}

// NewFileStore loads (or initializes) the store file at path.
// If path is empty, defaults to ~/.config/statuscard/bindings.json.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		path = filepath.Join(home, ".config", "statuscard", "bindings.json")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	s := &FileStore{path: path, data: emptyData()}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	if s.data.Bindings == nil {
		s.data.Bindings = map[string]map[string]Binding{}
	}
	if s.data.Parents == nil {
		s.data.Parents = map[string]Parent{}
	}
	if s.data.Muted == nil {
		s.data.Muted = map[string]bool{}
	}
	return s, nil
}

func emptyData() fileData {
	return fileData{
		Bindings: map[string]map[string]Binding{},
		Parents:  map[string]Parent{},
		Muted:    map[string]bool{},
	}
}

// save writes the state atomically: temp file in the same directory, then
// rename. Callers hold the write lock.
func (s *FileStore) save() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

func (s *FileStore) Binding(ctx context.Context, parentID, userID string) (*Binding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.data.Bindings[parentID][userID]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (s *FileStore) Bindings(ctx context.Context, parentID string) ([]Binding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := s.data.Bindings[parentID]
	out := make([]Binding, 0, len(users))
	for _, b := range users {
		out = append(out, b)
	}
	return out, nil
}

func (s *FileStore) SetBinding(ctx context.Context, parentID string, b Binding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data.Bindings[parentID] == nil {
		s.data.Bindings[parentID] = map[string]Binding{}
	}
	s.data.Bindings[parentID][b.UserID] = b
	return s.save()
}

func (s *FileStore) RemoveBinding(ctx context.Context, parentID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.Bindings[parentID][userID]; !ok {
		return nil
	}
	delete(s.data.Bindings[parentID], userID)
	return s.save()
}

func (s *FileStore) Parent(ctx context.Context, parentID string) (*Parent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data.Parents[parentID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *FileStore) SetParent(ctx context.Context, p Parent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Parents[p.ID] = p
	return s.save()
}

func (s *FileStore) Muted(ctx context.Context, parentID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Muted[parentID], nil
}

func (s *FileStore) SetMuted(ctx context.Context, parentID string, muted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if muted {
		s.data.Muted[parentID] = true
	} else {
		delete(s.data.Muted, parentID)
	}
	return s.save()
}

func (s *FileStore) Close() error { return nil }

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

var _ Store = (*FileStore)(nil)
