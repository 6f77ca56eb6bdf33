package persistence

import "sync"

// MemoryVault keeps credentials in process memory. Used by tests and by
// callers that explicitly opt out of on-disk persistence.
type MemoryVault struct {
	mu    sync.Mutex
	creds *Credentials
}

// NewMemoryVault creates an empty vault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{}
}

func (v *MemoryVault) Load() (*Credentials, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.creds == nil {
		return nil, nil
	}
	copied := *v.creds
	return &copied, nil
}

func (v *MemoryVault) Store(creds Credentials) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.creds = &creds
	return nil
}

func (v *MemoryVault) Clear() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.creds = nil
	return nil
}
