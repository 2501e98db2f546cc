//go:build linux

package keychain

import (
	"fmt"
	"os/exec"
	"strings"
)

// SystemSupported reports whether secret-tool (libsecret-tools) is installed.
func SystemSupported() bool {
	_, err := exec.LookPath("secret-tool")
	return err == nil
}

func (s *System) Set(key, value string) error {
	_, err := s.run(value, "secret-tool", "store",
		"--label="+s.service+" "+key,
		"service", s.service, "account", key)
	if err != nil {
		return fmt.Errorf("secret-tool store %s: %w", key, err)
	}
	return nil
}

// Get looks up key. secret-tool exits 1 with no output for a missing item.
func (s *System) Get(key string) (string, error) {
	out, err := s.run("", "secret-tool", "lookup",
		"service", s.service, "account", key)
	if err != nil {
		if exitCode(err) == 1 && len(out) == 0 {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("secret-tool lookup %s (install libsecret-tools): %w", key, err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}

func (s *System) Remove(key string) error {
	_, err := s.run("", "secret-tool", "clear",
		"service", s.service, "account", key)
	if err != nil && exitCode(err) != 1 {
		return fmt.Errorf("secret-tool clear %s: %w", key, err)
	}
	return nil
}
