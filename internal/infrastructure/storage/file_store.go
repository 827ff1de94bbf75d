// Package storage provides credential store adapters. The durable flavour
// keeps the token pair in a small JSON file owned by the current OS user,
// the in-memory flavour backs tests and ephemeral runs.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/uniblog/client/internal/core/domain"
)

// credentialFile is the on-disk shape. Key names match the resource
// server's token response so the file is self-describing.
type credentialFile struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// FileStore persists the credential pair in a single file. Save writes a
// temporary file and renames it over the target, so a concurrent Read
// observes either the old pair or the new pair, never a torn write.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at path. When path is empty the file is
// placed under the OS user config directory.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("credential store: resolve config dir: %w", err)
		}
		path = filepath.Join(dir, "uniblog", "credentials.json")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("credential store: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Save(token, tokenType string) error {
	data, err := json.Marshal(credentialFile{AccessToken: token, TokenType: tokenType})
	if err != nil {
		return fmt.Errorf("credential store: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("credential store: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("credential store: write: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("credential store: chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("credential store: close: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("credential store: commit: %w", err)
	}
	return nil
}

func (s *FileStore) Read() (domain.Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Session{}, nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("credential store: read: %w", err)
	}

	var f credentialFile
	if err := json.Unmarshal(data, &f); err != nil {
		return domain.Session{}, fmt.Errorf("credential store: decode: %w", err)
	}
	if f.AccessToken == "" {
		return domain.Session{}, nil
	}
	return domain.Session{Token: f.AccessToken, TokenType: f.TokenType, Present: true}, nil
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("credential store: clear: %w", err)
	}
	return nil
}
