package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	errs "github.com/matzehuels/swimlane/pkg/errors"
)

// FileStore stores each document as <dir>/<id>.json. Writes go through a
// temporary file and a rename so readers never see a partial document.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file store rooted at dir.
// The directory will be created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, storageErr(err, "create store dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the root directory.
func (s *FileStore) Dir() string { return s.dir }

// path maps an id to its file. Ids are validated first, so they cannot
// escape the directory.
func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Get reads a document from disk.
func (s *FileStore) Get(ctx context.Context, id string) (*Document, error) {
	if err := errs.ValidateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storageErr(err, "read diagram %s", id)
	}
	return decode(data)
}

// Put writes a document to disk.
func (s *FileStore) Put(ctx context.Context, doc *Document) error {
	if err := Check(doc); err != nil {
		return err
	}
	doc.UpdatedAt = now()
	data, err := encode(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return storageErr(err, "write diagram %s", doc.ID)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return storageErr(err, "write diagram %s", doc.ID)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return storageErr(err, "write diagram %s", doc.ID)
	}
	if err := os.Rename(tmp.Name(), s.path(doc.ID)); err != nil {
		os.Remove(tmp.Name())
		return storageErr(err, "write diagram %s", doc.ID)
	}
	return nil
}

// Delete removes a document file.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := errs.ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return storageErr(err, "remove diagram %s", id)
	}
	return nil
}

// List reads every document in the directory. Files that fail to decode
// are skipped.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, storageErr(err, "read store dir")
	}

	var out []Summary
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			continue
		}
		doc, err := decode(data)
		if err != nil {
			continue
		}
		out = append(out, doc.Summary())
	}
	return sortSummaries(out), nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
