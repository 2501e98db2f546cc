package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

const (
	contentFile = "index"
	metaFile    = "meta.json"
)

// FileStore keeps each slot in <dir>/<name>/ as an index file plus meta.json.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir. The directory is created on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the root directory of the store.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) slotDir(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *FileStore) Exists(_ context.Context, name string) (bool, error) {
	if err := ValidateName(name); err != nil {
		return false, err
	}
	_, err := os.Stat(filepath.Join(s.slotDir(name), contentFile))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Materialize is a no-op for local slots beyond checking they exist.
func (s *FileStore) Materialize(ctx context.Context, name string) error {
	ok, err := s.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

func (s *FileStore) Read(_ context.Context, name string) ([]byte, Meta, error) {
	if err := ValidateName(name); err != nil {
		return nil, Meta{}, err
	}
	data, err := os.ReadFile(filepath.Join(s.slotDir(name), contentFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, Meta{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, Meta{}, err
	}

	meta, err := s.readMeta(name)
	if err != nil {
		// Content without metadata is still usable.
		meta = Meta{Name: name}
	}
	meta.Size = int64(len(data))
	if meta.Checksum == "" {
		meta.Checksum = Checksum(data)
	}
	return data, meta, nil
}

func (s *FileStore) readMeta(name string) (Meta, error) {
	raw, err := os.ReadFile(filepath.Join(s.slotDir(name), metaFile))
	if err != nil {
		return Meta{}, err
	}
	var m Meta
	if err := json.Unmarshal(raw, &m); err != nil {
		return Meta{}, fmt.Errorf("parse %s meta: %w", name, err)
	}
	return m, nil
}

// Write replaces the slot content. The content file is swapped in with a
// rename, so a reader sees either the old or the new artifact.
func (s *FileStore) Write(_ context.Context, name string, data []byte, meta Meta) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	dir := s.slotDir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create slot %s: %w", name, err)
	}

	meta.Name = name
	meta.Size = int64(len(data))
	meta.Checksum = Checksum(data)
	rawMeta, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}

	if err := writeAtomic(filepath.Join(dir, contentFile), data); err != nil {
		return fmt.Errorf("write slot %s: %w", name, err)
	}
	if err := writeAtomic(filepath.Join(dir, metaFile), rawMeta); err != nil {
		return fmt.Errorf("write slot %s meta: %w", name, err)
	}
	return nil
}

// List returns the metadata of every local slot, sorted by name.
func (s *FileStore) List(ctx context.Context) ([]Meta, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []Meta
	for _, e := range entries {
		if !e.IsDir() || ValidateName(e.Name()) != nil {
			continue
		}
		_, meta, err := s.Read(ctx, e.Name())
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
