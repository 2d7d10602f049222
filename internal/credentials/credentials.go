// Package credentials stores the service API token in the system keyring
// (macOS Keychain, Windows Credential Manager, Linux Secret Service).
package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// keyringService is the service name used in the system keyring. Tokens are
// stored per server URL.
const keyringService = "minutes"

// ErrNoToken is returned when no token is stored for a server.
var ErrNoToken = errors.New("no token stored")

// Source says where a resolved token came from.
type Source string

const (
	SourceNone    Source = "none"
	SourceConfig  Source = "config"
	SourceKeyring Source = "keyring"
)

// Save stores token for serverURL.
func Save(serverURL, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token is empty")
	}
	if err := keyring.Set(keyringService, account(serverURL), token); err != nil {
		return fmt.Errorf("store token in keyring: %w", err)
	}
	return nil
}

// Load returns the stored token for serverURL.
func Load(serverURL string) (string, error) {
	tok, err := keyring.Get(keyringService, account(serverURL))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("read token from keyring: %w", err)
	}
	return tok, nil
}

// Delete removes the stored token. Deleting a missing token is not an error.
func Delete(serverURL string) error {
	err := keyring.Delete(keyringService, account(serverURL))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete token from keyring: %w", err)
	}
	return nil
}

// Resolve picks the token to send: an explicit (config or env) token wins,
// then the keyring. A keyring that is unavailable is treated as empty.
func Resolve(serverURL, explicit string) (string, Source) {
	if t := strings.TrimSpace(explicit); t != "" {
		return t, SourceConfig
	}
	tok, err := Load(serverURL)
	if err != nil || tok == "" {
		return "", SourceNone
	}
	return tok, SourceKeyring
}

func account(serverURL string) string {
	return strings.TrimRight(strings.TrimSpace(serverURL), "/")
}
