// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrCredentials reports a credentials source that cannot be used.
var ErrCredentials = errors.New("invalid credentials")

// Credentials are the captive portal account.
type Credentials struct {
	Username string
	Password string
}

// String hides the password so that credentials can be logged safely.
func (c Credentials) String() string {
	return c.Username + ":*****"
}

// LoadCredentials reads a file holding the username in its first line and the
// password in its second one. Surrounding whitespace is trimmed from both.
func LoadCredentials(path string) (Credentials, error) {
	file, err := os.Open(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("credentials file %q: %w", path, err)
	}
	defer file.Close()

	lines := make([]string, 0, 2)
	scanner := bufio.NewScanner(file)
	for len(lines) < 2 && scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return Credentials{}, fmt.Errorf("credentials file %q: %w", path, err)
	}

	for len(lines) < 2 {
		lines = append(lines, "")
	}

	credentials := Credentials{Username: lines[0], Password: lines[1]}
	if credentials.Username == "" {
		return Credentials{}, fmt.Errorf("%w: credentials file %q: missing username", ErrCredentials, path)
	}

	return credentials, nil
}

// Credentials returns the inline credentials when both are set, otherwise it reads
// the configured credentials file.
func (c *Config) Credentials() (Credentials, error) {
	if c.hasInlineCredentials() {
		return Credentials{Username: c.Username, Password: c.Password}, nil
	}

	return LoadCredentials(c.CredentialsPath)
}
