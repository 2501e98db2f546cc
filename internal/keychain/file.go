package keychain

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File keeps all values in one passphrase-encrypted file. The decrypted map
// is loaded on first use and kept for the life of the process.
type File struct {
	path       string
	passphrase string
	kdf        kdfParams

	mu     sync.Mutex
	values map[string]string
}

// NewFile returns a file keychain at path. The file is created on first Set.
func NewFile(path, passphrase string) (*File, error) {
	if path == "" {
		return nil, errors.New("keychain: file path is required")
	}
	if passphrase == "" {
		return nil, errors.New("keychain: passphrase is required for the file backend (set SLT_USAGE_PASSPHRASE)")
	}
	return &File{path: path, passphrase: passphrase, kdf: defaultKDF()}, nil
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.load(); err != nil {
		return err
	}
	f.values[key] = value
	return f.save()
}

func (f *File) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.load(); err != nil {
		return "", err
	}
	v, ok := f.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *File) Contains(key string) (bool, error) { return contains(f, key) }

func (f *File) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.load(); err != nil {
		return err
	}
	if _, ok := f.values[key]; !ok {
		return nil
	}
	delete(f.values, key)
	return f.save()
}

func (f *File) load() error {
	if f.values != nil {
		return nil
	}
	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		f.values = make(map[string]string)
		return nil
	}
	if err != nil {
		return fmt.Errorf("keychain: read %s: %w", f.path, err)
	}
	raw, err := open(f.passphrase, b)
	if err != nil {
		return err
	}
	values := make(map[string]string)
	if err := json.Unmarshal(raw, &values); err != nil {
		return fmt.Errorf("keychain: decode values: %w", err)
	}
	f.values = values
	return nil
}

func (f *File) save() error {
	raw, err := json.Marshal(f.values)
	if err != nil {
		return err
	}
	b, err := seal(f.passphrase, raw, f.kdf)
	if err != nil {
		return fmt.Errorf("keychain: seal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("keychain: create dir: %w", err)
	}
	return writeFile(f.path, b, 0o600)
}

// writeFile writes bytes via a temp file, then atomically replaces the target.
func writeFile(path string, b []byte, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	defer func() { _ = os.Remove(name) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(name, path)
}
