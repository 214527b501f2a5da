package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	// ErrNotFound indicates no entry matches the hash.
	ErrNotFound = errors.New("history entry not found")

	// ErrAmbiguous indicates a short hash matches several entries.
	ErrAmbiguous = errors.New("ambiguous hash")
)

// Store manages a content-addressable history of inspected files.
type Store struct {
	mu        sync.Mutex
	baseDir   string
	indexPath string
}

// Index is the on-disk history.
type Index struct {
	Entries   map[string]Entry `json:"entries"` // hash -> entry
	UpdatedAt time.Time        `json:"updated_at"`
}

// Open opens or creates a store at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history dir: %w", err)
	}
	return &Store{
		baseDir:   path,
		indexPath: filepath.Join(path, "index.json"),
	}, nil
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string {
	return s.baseDir
}

// Record adds an entry to the history.
// If the content was seen before, the view count, path and timestamp are updated.
// Returns whether it was new content.
func (s *Store) Record(e Entry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.loadIndex()
	if err != nil {
		return false, err
	}

	existing, ok := index.Entries[e.ContentHash]
	if ok {
		existing.Views++
		existing.Path = e.Path
		existing.Size = e.Size
		existing.Charset = e.Charset
		existing.UpdatedAt = e.UpdatedAt
		e = existing
	}
	index.Entries[e.ContentHash] = e
	index.UpdatedAt = e.UpdatedAt

	if err := s.saveIndex(index); err != nil {
		return false, fmt.Errorf("failed to update index: %w", err)
	}
	return !ok, nil
}

// Get retrieves an entry by full hash.
func (s *Store) Get(hash string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.loadIndex()
	if err != nil {
		return Entry{}, err
	}
	e, ok := index.Entries[hash]
	if !ok {
		return Entry{}, fmt.Errorf("%s: %w", hash, ErrNotFound)
	}
	return e, nil
}

// Resolve expands a full hash, a hash without the "sha256:" prefix, or any
// unique prefix of it, to the full hash.
func (s *Store) Resolve(ref string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.loadIndex()
	if err != nil {
		return "", err
	}

	ref = strings.ToLower(bareHash(ref))
	if ref == "" {
		return "", fmt.Errorf("empty hash: %w", ErrNotFound)
	}

	var matches []string
	for hash := range index.Entries {
		if strings.HasPrefix(bareHash(hash), ref) {
			matches = append(matches, hash)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s: %w", ref, ErrNotFound)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("%s matches %d entries: %w", ref, len(matches), ErrAmbiguous)
}

// List returns all entries, most recently viewed first.
func (s *Store) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.loadIndex()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(index.Entries))
	for _, entry := range index.Entries {
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].UpdatedAt.Equal(entries[j].UpdatedAt) {
			return entries[i].ContentHash < entries[j].ContentHash
		}
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})

	return entries, nil
}

// Count returns the number of entries in the store.
func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.loadIndex()
	if err != nil {
		return 0, err
	}
	return len(index.Entries), nil
}

// Clear removes every entry.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.indexPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (s *Store) loadIndex() (*Index, error) {
	data, err := os.ReadFile(s.indexPath)
	if errors.Is(err, os.ErrNotExist) {
		return &Index{Entries: make(map[string]Entry)}, nil
	}
	if err != nil {
		return nil, err
	}

	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.indexPath, err)
	}
	if index.Entries == nil {
		index.Entries = make(map[string]Entry)
	}
	return &index, nil
}

func (s *Store) saveIndex(index *Index) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.indexPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.indexPath)
}
