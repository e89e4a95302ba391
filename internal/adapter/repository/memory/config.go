// Package memory provides in-memory repositories for tests and for running
// without touching the user's config directory.
package memory

import (
	"sync"

	"github.com/tejashwikalptaru/subtune/internal/domain"
	"github.com/tejashwikalptaru/subtune/internal/ports"
)

// ConfigRepository implements ports.ConfigRepository in memory.
//
// Thread-safe: All operations protected by sync.RWMutex.
type ConfigRepository struct {
	cfg   domain.Config
	saves int
	mu    sync.RWMutex
}

// NewConfigRepository creates a repository holding cfg.
func NewConfigRepository(cfg domain.Config) *ConfigRepository {
	return &ConfigRepository{cfg: cfg}
}

// Load returns the held configuration.
func (r *ConfigRepository) Load() (domain.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg, nil
}

// Save replaces the held configuration.
func (r *ConfigRepository) Save(cfg domain.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg
	r.saves++
	return nil
}

// Path returns a placeholder location.
func (r *ConfigRepository) Path() string {
	return "memory"
}

// SaveCount returns how many times Save was called.
func (r *ConfigRepository) SaveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}

var _ ports.ConfigRepository = (*ConfigRepository)(nil)
