// Package store persists notebooks, source documents, and per-chunk
// embeddings in a single JSON document, read and written whole on every
// mutation, and answers cosine-similarity queries over a notebook's
// entries.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/Farerworks/secondbrain-coach/internal/domain"
)

const indexFileName = "rag-index.json"

// indexFile is the on-disk layout. Field names are part of the
// persisted format and must not change.
type indexFile struct {
	Notebooks map[string]domain.Notebook         `json:"notebooks"`
	Store     map[string][]domain.VectorEntry    `json:"store"`
	Sources   map[string][]domain.SourceDocument `json:"sources"`
}

func newIndexFile() *indexFile {
	return &indexFile{
		Notebooks: map[string]domain.Notebook{},
		Store:     map[string][]domain.VectorEntry{},
		Sources:   map[string][]domain.SourceDocument{},
	}
}

// Store is the durable vector store. Mutations serialize under a
// process mutex plus a file lock, so the read-modify-write cycle on the
// index file cannot interleave with another writer honoring the lock.
type Store struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

// New opens (or initializes) the store under dir.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	path := filepath.Join(dir, indexFileName)
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// load reads the whole index file. A missing or unparseable file is
// recovered by reinitializing to the empty state on disk.
func (s *Store) load() (*indexFile, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		db := newIndexFile()
		if err := s.save(db); err != nil {
			return nil, err
		}
		return db, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	var db indexFile
	if err := json.Unmarshal(raw, &db); err != nil {
		db2 := newIndexFile()
		if err := s.save(db2); err != nil {
			return nil, err
		}
		return db2, nil
	}
	if db.Notebooks == nil {
		db.Notebooks = map[string]domain.Notebook{}
	}
	if db.Store == nil {
		db.Store = map[string][]domain.VectorEntry{}
	}
	if db.Sources == nil {
		db.Sources = map[string][]domain.SourceDocument{}
	}
	return &db, nil
}

// save writes the whole index file.
func (s *Store) save(db *indexFile) error {
	raw, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store file: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	return nil
}

// CreateNotebook generates an id, persists the notebook immediately,
// and returns its metadata.
func (s *Store) CreateNotebook(title string) (*domain.Notebook, error) {
	nb := domain.NewNotebook("nb_"+uuid.NewString(), title, time.Now().UTC())
	if err := domain.ValidateNotebook(nb); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.Lock(); err != nil {
		return nil, fmt.Errorf("failed to lock store file: %w", err)
	}
	defer s.lock.Unlock()

	db, err := s.load()
	if err != nil {
		return nil, err
	}

	db.Notebooks[nb.ID] = *nb
	if db.Store[nb.ID] == nil {
		db.Store[nb.ID] = []domain.VectorEntry{}
	}
	if db.Sources[nb.ID] == nil {
		db.Sources[nb.ID] = []domain.SourceDocument{}
	}

	if err := s.save(db); err != nil {
		return nil, err
	}
	return nb, nil
}

// ListNotebooks returns every notebook, ordered by creation time.
func (s *Store) ListNotebooks() ([]domain.Notebook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.RLock(); err != nil {
		return nil, fmt.Errorf("failed to lock store file: %w", err)
	}
	defer s.lock.Unlock()

	db, err := s.load()
	if err != nil {
		return nil, err
	}

	notebooks := make([]domain.Notebook, 0, len(db.Notebooks))
	for _, nb := range db.Notebooks {
		notebooks = append(notebooks, nb)
	}
	sortNotebooks(notebooks)
	return notebooks, nil
}

// HasNotebook reports whether the notebook exists.
func (s *Store) HasNotebook(notebookID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.RLock(); err != nil {
		return false, fmt.Errorf("failed to lock store file: %w", err)
	}
	defer s.lock.Unlock()

	db, err := s.load()
	if err != nil {
		return false, err
	}
	_, ok := db.Notebooks[notebookID]
	return ok, nil
}

// ListSources returns the source documents of a notebook. An unknown
// notebook yields an empty list, not an error.
func (s *Store) ListSources(notebookID string) ([]domain.SourceDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.RLock(); err != nil {
		return nil, fmt.Errorf("failed to lock store file: %w", err)
	}
	defer s.lock.Unlock()

	db, err := s.load()
	if err != nil {
		return nil, err
	}
	sources := db.Sources[notebookID]
	if sources == nil {
		sources = []domain.SourceDocument{}
	}
	return sources, nil
}

// AppendSource records a source document and its vector entries under a
// notebook in one atomic read-modify-write cycle. Fails with
// NotebookNotFound for an unknown notebook.
func (s *Store) AppendSource(notebookID string, source domain.SourceDocument, entries []domain.VectorEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock store file: %w", err)
	}
	defer s.lock.Unlock()

	db, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := db.Notebooks[notebookID]; !ok {
		return domain.ErrNotebookNotFound
	}

	db.Sources[notebookID] = append(db.Sources[notebookID], source)
	db.Store[notebookID] = append(db.Store[notebookID], entries...)

	return s.save(db)
}

// Entries returns every vector entry of a notebook. An unknown or empty
// notebook yields an empty slice.
func (s *Store) Entries(notebookID string) ([]domain.VectorEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.RLock(); err != nil {
		return nil, fmt.Errorf("failed to lock store file: %w", err)
	}
	defer s.lock.Unlock()

	db, err := s.load()
	if err != nil {
		return nil, err
	}
	return db.Store[notebookID], nil
}

// NewSourceID generates a source document id.
func NewSourceID() string {
	return "src_" + uuid.NewString()
}

func sortNotebooks(notebooks []domain.Notebook) {
	sort.Slice(notebooks, func(a, b int) bool {
		if notebooks[a].CreatedAt.Equal(notebooks[b].CreatedAt) {
			return notebooks[a].ID < notebooks[b].ID
		}
		return notebooks[a].CreatedAt.Before(notebooks[b].CreatedAt)
	})
}
