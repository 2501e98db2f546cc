// Package artifact keeps named, downloaded artifacts (renderer definitions)
// in persistent slots that survive between runs.
package artifact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrNotFound is returned by Read when a slot holds nothing.
var ErrNotFound = errors.New("artifact: slot not found")

// Meta describes the content of a slot.
type Meta struct {
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	DownloadedAt time.Time `json:"downloaded_at"`
	Checksum     string    `json:"checksum"`
	Size         int64     `json:"size"`
}

// Store is a set of named slots. A slot may exist without being local yet
// (for example when it only lives in a remote mirror); Materialize blocks
// until it is readable.
type Store interface {
	Exists(ctx context.Context, name string) (bool, error)
	Materialize(ctx context.Context, name string) error
	Read(ctx context.Context, name string) ([]byte, Meta, error)
	Write(ctx context.Context, name string, data []byte, meta Meta) error
	List(ctx context.Context) ([]Meta, error)
}

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateName rejects names that could escape the slot directory.
func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("artifact: invalid slot name %q", name)
	}
	return nil
}

// Checksum returns the hex SHA-256 of data.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
