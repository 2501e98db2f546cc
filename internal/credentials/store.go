// Package credentials caches the operator login in the keychain and falls
// back to an interactive prompt when any part of it is missing.
package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/anomredux/slt-usage/internal/domain"
	"github.com/anomredux/slt-usage/internal/keychain"
)

// Keychain keys. They match the keys used by earlier releases so existing
// installs keep their login.
const (
	KeyUsername     = "slt_username"
	KeyPassword     = "slt_password"
	KeySubscriberID = "slt_subscriberID"
)

var allKeys = []string{KeyUsername, KeyPassword, KeySubscriberID}

// Prompter asks the user for credentials. It returns domain.ErrUserCancelled
// when the user dismisses the prompt.
type Prompter interface {
	Prompt(ctx context.Context) (domain.Credentials, error)
}

// Store owns the persisted credentials.
type Store struct {
	kc     keychain.Keychain
	prompt Prompter
	log    *logrus.Logger
}

// New returns a Store backed by kc. prompt may be nil when no one can be asked.
func New(kc keychain.Keychain, prompt Prompter, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.New()
	}
	return &Store{kc: kc, prompt: prompt, log: log}
}

// Load returns the stored credentials and whether all three were present.
func (s *Store) Load() (domain.Credentials, bool, error) {
	var c domain.Credentials
	fields := map[string]*string{
		KeyUsername:     &c.Username,
		KeyPassword:     &c.Password,
		KeySubscriberID: &c.SubscriberID,
	}
	for _, key := range allKeys {
		ok, err := s.kc.Contains(key)
		if err != nil {
			return domain.Credentials{}, false, fmt.Errorf("check %s: %w", key, err)
		}
		if !ok {
			return domain.Credentials{}, false, nil
		}
		v, err := s.kc.Get(key)
		if err != nil {
			return domain.Credentials{}, false, fmt.Errorf("read %s: %w", key, err)
		}
		*fields[key] = v
	}
	return c, c.Complete(), nil
}

// LoadOrPrompt returns the stored credentials, or prompts for new ones and
// persists them when any key is missing.
func (s *Store) LoadOrPrompt(ctx context.Context) (domain.Credentials, error) {
	c, ok, err := s.Load()
	if err != nil {
		return domain.Credentials{}, err
	}
	if ok {
		return c, nil
	}
	if s.prompt == nil {
		return domain.Credentials{}, fmt.Errorf("%w: no prompt available", domain.ErrUserCancelled)
	}

	s.log.Debug("credentials missing, prompting")
	c, err = s.prompt.Prompt(ctx)
	if err != nil {
		return domain.Credentials{}, err
	}
	if err := s.Save(c); err != nil {
		return domain.Credentials{}, err
	}
	return c, nil
}

// Save persists c. Incomplete credentials are rejected and nothing is written.
func (s *Store) Save(c domain.Credentials) error {
	if !c.Complete() {
		return domain.ErrIncompleteCredentials
	}
	values := map[string]string{
		KeyUsername:     c.Username,
		KeyPassword:     c.Password,
		KeySubscriberID: c.SubscriberID,
	}
	for _, key := range allKeys {
		if err := s.kc.Set(key, values[key]); err != nil {
			return fmt.Errorf("store %s: %w", key, err)
		}
	}
	return nil
}

// Clear removes every credential key. All removals are attempted even if
// one fails, so no stale field survives a partial failure.
func (s *Store) Clear() error {
	var errs []error
	for _, key := range allKeys {
		if err := s.kc.Remove(key); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", key, err))
		}
	}
	if len(errs) == 0 {
		s.log.Info("stored credentials cleared")
	}
	return errors.Join(errs...)
}
