//go:build darwin

package keychain

import (
	"fmt"
	"strings"
)

// errSecItemNotFound is the exit status of `security` for a missing item.
const errSecItemNotFound = 44

// SystemSupported reports whether a system keychain CLI exists on this OS.
func SystemSupported() bool { return true }

func (s *System) Set(key, value string) error {
	_, err := s.run("", "security", "add-generic-password", "-U",
		"-s", s.service, "-a", key, "-w", value)
	if err != nil {
		return fmt.Errorf("keychain set %s: %w", key, err)
	}
	return nil
}

func (s *System) Get(key string) (string, error) {
	out, err := s.run("", "security", "find-generic-password",
		"-s", s.service, "-a", key, "-w")
	if exitCode(err) == errSecItemNotFound {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("keychain lookup %s: %w", key, err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}

func (s *System) Remove(key string) error {
	_, err := s.run("", "security", "delete-generic-password",
		"-s", s.service, "-a", key)
	if err != nil && exitCode(err) != errSecItemNotFound {
		return fmt.Errorf("keychain remove %s: %w", key, err)
	}
	return nil
}
