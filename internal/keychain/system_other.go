//go:build !darwin && !linux

package keychain

// SystemSupported reports whether a system keychain CLI exists on this OS.
func SystemSupported() bool { return false }

func (s *System) Set(key, value string) error   { return errUnsupported }
func (s *System) Get(key string) (string, error) { return "", errUnsupported }
func (s *System) Remove(key string) error        { return errUnsupported }
