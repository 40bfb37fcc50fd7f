package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
)

// DefaultSecretsFiles are the secrets files that are tried, in order, when
// neither an API key nor a secrets file is configured.
var DefaultSecretsFiles = []string{".streamlit/secrets.toml", "secrets.toml"}

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("missing API key: set --key, GROQ_API_KEY or [groq_api] api_key in a secrets file")

// Secrets is the content of a secrets file:
//
//	[groq_api]
//	api_key = "gsk_..."
type Secrets struct {
	Groq struct {
		APIKey string `toml:"api_key"`
	} `toml:"groq_api"`
}

// LoadSecrets reads and decodes the secrets file at path.
func LoadSecrets(fsys afero.Fs, path string) (Secrets, error) {
	var s Secrets

	b, err := afero.ReadFile(fsys, path)
	if err != nil {
		return s, err
	}

	if _, err := toml.Decode(string(b), &s); err != nil {
		return s, fmt.Errorf("decode secrets file %s: %w", path, err)
	}

	return s, nil
}

// resolveAPIKey returns key if it is set. Otherwise it reads the key from the
// secrets file, or from the first existing default secrets file if file is
// empty.
func resolveAPIKey(fsys afero.Fs, key, file string) (string, error) {
	if key != "" {
		return key, nil
	}

	if file != "" {
		s, err := LoadSecrets(fsys, file)
		if err != nil {
			return "", fmt.Errorf("load secrets: %w", err)
		}
		if s.Groq.APIKey == "" {
			return "", fmt.Errorf("%s: %w", file, ErrMissingAPIKey)
		}
		return s.Groq.APIKey, nil
	}

	for _, path := range DefaultSecretsFiles {
		s, err := LoadSecrets(fsys, path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("load secrets: %w", err)
		}
		if s.Groq.APIKey != "" {
			return s.Groq.APIKey, nil
		}
	}

	return "", ErrMissingAPIKey
}
