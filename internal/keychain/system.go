package keychain

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"
)

var errUnsupported = errors.New("keychain: no system keychain on this platform (use the file backend)")

// DefaultService is the service/label under which values are stored.
const DefaultService = "slt-usage"

// runner executes a command with optional stdin and returns its stdout.
type runner func(stdin string, name string, args ...string) ([]byte, error)

func execRunner(stdin string, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, &commandError{err: err, stderr: msg}
		}
		return out, err
	}
	return out, nil
}

type commandError struct {
	err    error
	stderr string
}

func (e *commandError) Error() string { return e.err.Error() + ": " + e.stderr }
func (e *commandError) Unwrap() error { return e.err }

// exitCode returns the process exit code carried by err, or -1.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// System stores values in the operating system keychain through its CLI
// (macOS `security`, Linux `secret-tool`).
type System struct {
	service string
	run     runner
}

func NewSystem(service string) *System {
	if service == "" {
		service = DefaultService
	}
	return &System{service: service, run: execRunner}
}

func (s *System) Contains(key string) (bool, error) { return contains(s, key) }
