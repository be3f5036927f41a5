package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytemc-uz/bytemc-backend/internal/models"
)

// Store is the local JSON document store. Every read loads the whole file and
// every mutation rewrites it; at the scale of a single community server this
// is cheap, and it keeps the file hand-editable (purge_after is set that way).
// Writes go through a temp file plus rename so a crash never leaves a torn
// document, and a mutex serializes mutations within the process.
type Store struct {
	mu   sync.Mutex
	path string
}

// New opens (and if necessary creates) the document at path.
func New(path string) (*Store, error) {
	s := &Store{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.write(&models.Document{Seq: 1}); err != nil {
			return nil, fmt.Errorf("init data file: %w", err)
		}
	}
	// Validate the existing file up front so a corrupt document fails at
	// startup instead of on the first request.
	if _, err := s.read(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Read returns the current document.
func (s *Store) Read() (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Update applies fn to the current document and persists the result.
// If fn returns an error nothing is written.
func (s *Store) Update(fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.write(doc)
}

func (s *Store) read() (*models.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse data file: %w", err)
	}
	if doc.Seq < 1 {
		doc.Seq = 1
	}
	return &doc, nil
}

func (s *Store) write(doc *models.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".data-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
