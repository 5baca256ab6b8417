package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotConfigured is returned by Load when the source names no secret at all.
var ErrNotConfigured = errors.New("secret is not configured")

// Source describes where a secret such as the backend bearer token lives.
type Source struct {
	// Name is used in error messages.
	Name string
	// Value is an inline secret, e.g. from the environment.
	Value string
	// File points to a file holding the secret. It takes precedence over Value.
	File string
}

// Load resolves the trimmed secret. A source with neither File nor Value
// yields ErrNotConfigured; an empty file is an error of its own.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}

		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	return "", fmt.Errorf("%s: %w", name, ErrNotConfigured)
}

// Optional is Load for secrets that may be absent: an unconfigured source
// yields an empty secret and no error.
func Optional(src Source) (string, error) {
	secret, err := Load(src)
	if errors.Is(err, ErrNotConfigured) {
		return "", nil
	}
	return secret, err
}
