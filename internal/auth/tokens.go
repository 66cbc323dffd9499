package auth

import (
	"errors"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/scrap-app/cli/internal/apierr"
)

var (
	// ErrNoCredential is the cause of every failed Load: nothing stored, a
	// corrupt value and a store read failure are reported the same way.
	ErrNoCredential = errors.New("no usable credential")

	errUnencodable = errors.New("credential is not valid UTF-8")
)

// Tokens is the single-slot credential lifecycle on top of a Store. It is the
// only authority on whether a credential is currently persisted and never
// caches the credential between calls.
type Tokens struct {
	store  Store
	key    string
	logger *slog.Logger

	// writeMu serialises Save and Clear so a delete-then-insert is never
	// interleaved with another write.
	writeMu sync.Mutex
}

// NewTokens returns a lifecycle over store using TokenKey.
func NewTokens(store Store, logger *slog.Logger) *Tokens {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tokens{
		store:  store,
		key:    TokenKey,
		logger: logger.With("component", "tokens"),
	}
}

// Save replaces the stored credential with c. It fails with KindParse when c
// cannot be stored as UTF-8 text and with KindSilent when the store rejects the
// write. Save takes no context: once started it always runs to completion.
func (t *Tokens) Save(c Credential) (Credential, error) {
	if !utf8.ValidString(c.Value) {
		return Credential{}, apierr.New(apierr.KindParse, errUnencodable)
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if err := t.store.Delete(t.key); err != nil && !errors.Is(err, ErrNotFound) {
		t.logger.Debug("delete before save failed", "error", err)
	}

	if err := t.store.Set(t.key, c.Value); err != nil {
		t.logger.Warn("failed to save credential", "error", err)
		return Credential{}, apierr.Silent(err)
	}

	t.logger.Debug("credential saved", "credential", c)
	return c, nil
}

// Load reads the stored credential from the store.
func (t *Tokens) Load() (Credential, error) {
	value, err := t.store.Get(t.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			t.logger.Debug("failed to read credential", "error", err)
		}
		return Credential{}, apierr.Silent(ErrNoCredential)
	}

	if !utf8.ValidString(value) {
		t.logger.Debug("stored credential is corrupt")
		return Credential{}, apierr.Silent(ErrNoCredential)
	}

	return Credential{Value: value}, nil
}

// Clear removes the stored credential. Clearing an empty slot is not an
// error; other store failures are logged and otherwise ignored.
func (t *Tokens) Clear() {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if err := t.store.Delete(t.key); err != nil && !errors.Is(err, ErrNotFound) {
		t.logger.Warn("failed to clear credential", "error", err)
	}
}

// Current returns the stored credential and whether one was loadable.
func (t *Tokens) Current() (Credential, bool) {
	c, err := t.Load()
	if err != nil {
		return Credential{}, false
	}
	return c, true
}
