// Package ports define repository interfaces for data persistence abstraction.
// These interfaces enable the repository pattern and allow swapping persistence mechanisms.
package ports

import (
	"github.com/tejashwikalptaru/subtune/internal/domain"
)

// ConfigRepository handles the persistence of the user configuration.
//
// Thread-safety: Implementations must be thread-safe.
type ConfigRepository interface {
	// Load returns the stored configuration.
	// A missing store is created with domain.DefaultConfig and that default is returned.
	// Stores in an older format are migrated and rewritten.
	//
	// Returns a *domain.ConfigError if the store cannot be read or parsed.
	Load() (domain.Config, error)

	// Save persists the configuration, replacing the previous contents.
	Save(cfg domain.Config) error

	// Path returns a human-readable location of the store.
	Path() string
}
