package ops

import (
	"encoding/json"
	"fmt"
	"os"

	"main/internal/model"
	"main/pkg/exception"
)

// Keyring holds venue credentials keyed by venue name, loaded once at
// process start.
type Keyring map[string]model.Credentials

// LoadKeys reads a JSON credentials file shaped like
//
//	{"alpaca": {"key": "...", "secret": "..."}}
//
// and validates that every entry is complete.
func LoadKeys(path string) (Keyring, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var keyring Keyring
	if err := json.Unmarshal(data, &keyring); err != nil {
		return nil, fmt.Errorf("parse credentials file: %w", err)
	}

	for name, credentials := range keyring {
		if name == "" {
			return nil, fmt.Errorf("%w: credentials entry with empty venue name", exception.ErrInvalidArgument)
		}
		if credentials.Key == "" || credentials.Secret == "" {
			return nil, fmt.Errorf("%w: incomplete credentials for venue %s", exception.ErrInvalidArgument, name)
		}
	}

	return keyring, nil
}

// Lookup returns the credentials for a venue name.
func (k Keyring) Lookup(name string) (model.Credentials, bool) {
	credentials, ok := k[name]
	return credentials, ok
}
