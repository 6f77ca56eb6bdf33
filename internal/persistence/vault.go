package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/medilink-hms/client/internal/config"
	"github.com/medilink-hms/client/internal/domain"
)

// Credentials is the persisted client state: the opaque bearer token and the
// role-tagged profile cached at login. The two always travel together; they
// are written together and cleared together.
type Credentials struct {
	Token   string
	Profile domain.Profile
}

// Vault persists credentials across process restarts.
type Vault interface {
	// Load returns the stored credentials, or nil when nothing is stored.
	Load() (*Credentials, error)
	Store(creds Credentials) error
	Clear() error
}

// vaultFile is the on-disk shape: two string entries, mirroring the token
// and serialized-profile pair the portal keeps in browser storage.
type vaultFile struct {
	Token   string `json:"token"`
	Profile string `json:"user"`
}

// FileVault stores credentials in a single mode-0600 JSON file.
type FileVault struct {
	mu   sync.Mutex
	path string
}

// NewFileVault builds a vault at the configured path.
func NewFileVault(cfg config.VaultConfig, logger *zap.Logger) *FileVault {
	if logger != nil {
		logger.Debug("credential vault", zap.String("path", cfg.Path))
	}
	return &FileVault{path: cfg.Path}
}

// Load reads and decodes the vault file. A missing file means no session.
func (v *FileVault) Load() (*Credentials, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	raw, err := os.ReadFile(v.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read vault: %w", err)
	}

	var file vaultFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode vault: %w", err)
	}
	if file.Token == "" || file.Profile == "" {
		return nil, nil
	}

	var profile domain.Profile
	if err := json.Unmarshal([]byte(file.Profile), &profile); err != nil {
		return nil, fmt.Errorf("decode stored profile: %w", err)
	}
	return &Credentials{Token: file.Token, Profile: profile}, nil
}

// Store writes both entries atomically via a temp file rename.
func (v *FileVault) Store(creds Credentials) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	profileJSON, err := json.Marshal(creds.Profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	raw, err := json.Marshal(vaultFile{Token: creds.Token, Profile: string(profileJSON)})
	if err != nil {
		return fmt.Errorf("encode vault: %w", err)
	}

	dir := filepath.Dir(v.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create vault dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp vault: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write vault: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod vault: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close vault: %w", err)
	}
	if err := os.Rename(tmpName, v.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace vault: %w", err)
	}
	return nil
}

// Clear removes the vault file. Clearing an empty vault is a no-op.
func (v *FileVault) Clear() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := os.Remove(v.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear vault: %w", err)
	}
	return nil
}
