// tokenstore/file.go
package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Credentials is the on-disk layout of a FileStore.
type Credentials struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FileStore persists both tokens in a JSON file readable only by the owner.
// The file is re-read on every access so that separate processes sharing it
// see each other's writes.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultCredentialsPath returns ~/.config/apicall/credentials.json.
func DefaultCredentialsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "apicall", "credentials.json"), nil
}

// Path returns the file backing the store.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) AccessToken(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	creds, err := f.load()
	if err != nil {
		return "", err
	}
	return creds.AccessToken, nil
}

func (f *FileStore) SetAccessToken(_ context.Context, token string) error {
	return f.update(func(c *Credentials) { c.AccessToken = token })
}

func (f *FileStore) RefreshToken(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	creds, err := f.load()
	if err != nil {
		return "", err
	}
	return creds.RefreshToken, nil
}

func (f *FileStore) SetRefreshToken(_ context.Context, token string) error {
	return f.update(func(c *Credentials) { c.RefreshToken = token })
}

func (f *FileStore) update(mutate func(*Credentials)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	creds, err := f.load()
	if err != nil {
		return err
	}
	mutate(&creds)
	creds.UpdatedAt = time.Now().UTC()
	return f.save(creds)
}

// load returns empty credentials when the file does not exist yet.
func (f *FileStore) load() (Credentials, error) {
	var creds Credentials
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return creds, nil
	}
	if err != nil {
		return creds, fmt.Errorf("read credentials file: %w", err)
	}
	if len(data) == 0 {
		return creds, nil
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return creds, fmt.Errorf("parse credentials file %s: %w", f.path, err)
	}
	return creds, nil
}

// save writes through a temp file and rename so readers never see a partial file.
func (f *FileStore) save(creds Credentials) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("create temp credentials file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod credentials file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write credentials file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close credentials file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace credentials file: %w", err)
	}
	return nil
}
