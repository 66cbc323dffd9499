package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// TokenKey is the account name the credential is stored under. It must not
// change between releases or existing logins disappear on upgrade.
const TokenKey = "AuthorizationToken"

// DefaultService is the keyring service the credential is grouped under.
const DefaultService = "scrap-client-api"

// ErrNotFound is returned by a Store when the key holds no value.
var ErrNotFound = errors.New("secret not found")

// Store is durable key-value persistence for secrets. Set must replace any
// existing value for the key in one step.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// KeyringStore persists secrets in the OS keyring (macOS Keychain, Windows
// Credential Manager, Secret Service on Linux).
type KeyringStore struct {
	Service string
}

// NewKeyringStore returns a keyring-backed store for service.
func NewKeyringStore(service string) *KeyringStore {
	if service == "" {
		service = DefaultService
	}
	return &KeyringStore{Service: service}
}

// Get reads the secret stored under key.
func (s *KeyringStore) Get(key string) (string, error) {
	value, err := keyring.Get(s.Service, key)
	if err != nil {
		return "", s.mapError("read", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *KeyringStore) Set(key, value string) error {
	if err := keyring.Set(s.Service, key, value); err != nil {
		return s.mapError("write", key, err)
	}
	return nil
}

// Delete removes the secret stored under key.
func (s *KeyringStore) Delete(key string) error {
	if err := keyring.Delete(s.Service, key); err != nil {
		return s.mapError("delete", key, err)
	}
	return nil
}

func (s *KeyringStore) mapError(op, key string, err error) error {
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("keyring %s %s/%s: %w", op, s.Service, key, err)
}
