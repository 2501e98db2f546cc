// Package keychain provides the secure key/value storage that holds login
// credentials between runs.
package keychain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("keychain: key not found")

// Keychain is a small secure key/value store.
type Keychain interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Contains(key string) (bool, error)
	Remove(key string) error
}

// Backend names accepted by Open.
const (
	BackendAuto   = "auto"
	BackendSystem = "system"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Options configures Open.
type Options struct {
	Backend    string
	Service    string // system keychain service name
	Path       string // file backend location
	Passphrase string // file backend passphrase
}

// Open returns the keychain selected by opts.Backend. "auto" prefers the
// operating system keychain and falls back to the encrypted file.
func Open(opts Options) (Keychain, error) {
	switch opts.Backend {
	case BackendSystem:
		if !SystemSupported() {
			return nil, errUnsupported
		}
		return NewSystem(opts.Service), nil
	case BackendFile:
		return NewFile(opts.Path, opts.Passphrase)
	case BackendMemory:
		return NewMemory(), nil
	case BackendAuto, "":
		if SystemSupported() {
			return NewSystem(opts.Service), nil
		}
		return NewFile(opts.Path, opts.Passphrase)
	}
	return nil, fmt.Errorf("keychain: unknown backend %q", opts.Backend)
}

// contains implements Contains on top of Get; an empty value counts as absent.
func contains(kc Keychain, key string) (bool, error) {
	v, err := kc.Get(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v != "", nil
}
