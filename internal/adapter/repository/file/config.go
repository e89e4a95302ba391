// Package file provides repositories persisted as files on disk.
package file

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/tejashwikalptaru/subtune/internal/domain"
	"github.com/tejashwikalptaru/subtune/internal/ports"
)

const (
	configDirName  = "subtune"
	configFileName = "config.json"
)

// DefaultConfigPath returns <user config dir>/subtune/config.json.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", domain.NewConfigError("locate", "", "could not find config directory", err)
	}
	return filepath.Join(dir, configDirName, configFileName), nil
}

// ConfigRepository stores the configuration as pretty-printed JSON.
//
// Thread-safe: All operations protected by sync.Mutex.
type ConfigRepository struct {
	logger *slog.Logger
	path   string
	mu     sync.Mutex
}

// NewConfigRepository creates a repository backed by the file at path.
func NewConfigRepository(logger *slog.Logger, path string) *ConfigRepository {
	return &ConfigRepository{logger: logger, path: path}
}

// storedConfig accepts both the current snake_case keys and the legacy
// camelCase keys. Pointers distinguish missing keys from zero values.
type storedConfig struct {
	BaseURL               *string `json:"base_url"`
	LegacyBaseURL         *string `json:"baseUrl"`
	Username              *string `json:"username"`
	Password              *string `json:"password"`
	ShowEasterEggs        *bool   `json:"show_easter_eggs"`
	LegacyShowEasterEggs  *bool   `json:"showEasterEggs"`
	Notifications         *bool   `json:"notifications"`
	RequestTimeoutSeconds *int    `json:"request_timeout_seconds"`
	SearchLimit           *int    `json:"search_limit"`
}

// resolve merges stored values over the defaults. The second result reports
// whether the file should be rewritten in the current format.
func (s storedConfig) resolve() (domain.Config, bool) {
	cfg := domain.DefaultConfig()
	rewrite := false

	pickString := func(dst *string, current, legacy *string) {
		switch {
		case current != nil:
			*dst = *current
		case legacy != nil:
			*dst = *legacy
			rewrite = true
		default:
			rewrite = true
		}
	}
	pickBool := func(dst *bool, current, legacy *bool) {
		switch {
		case current != nil:
			*dst = *current
		case legacy != nil:
			*dst = *legacy
			rewrite = true
		default:
			rewrite = true
		}
	}
	pickInt := func(dst *int, current *int) {
		if current != nil {
			*dst = *current
		} else {
			rewrite = true
		}
	}

	pickString(&cfg.BaseURL, s.BaseURL, s.LegacyBaseURL)
	pickString(&cfg.Username, s.Username, nil)
	pickString(&cfg.Password, s.Password, nil)
	pickBool(&cfg.ShowEasterEggs, s.ShowEasterEggs, s.LegacyShowEasterEggs)
	pickBool(&cfg.Notifications, s.Notifications, nil)
	pickInt(&cfg.RequestTimeoutSeconds, s.RequestTimeoutSeconds)
	pickInt(&cfg.SearchLimit, s.SearchLimit)

	if s.LegacyBaseURL != nil || s.LegacyShowEasterEggs != nil {
		rewrite = true
	}
	return cfg, rewrite
}

// Load reads the config file, creating it with defaults when missing and
// rewriting it when it uses legacy keys or lacks fields.
func (r *ConfigRepository) Load() (domain.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	content, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := domain.DefaultConfig()
		if err := r.saveLocked(cfg); err != nil {
			return domain.Config{}, err
		}
		r.logger.Info("created default config", slog.String("path", r.path))
		return cfg, nil
	}
	if err != nil {
		return domain.Config{}, domain.NewConfigError("load", r.path, "failed to read config file", err)
	}

	var stored storedConfig
	if err := json.Unmarshal(content, &stored); err != nil {
		return domain.Config{}, domain.NewConfigError("load", r.path, "failed to parse config file", err)
	}

	cfg, rewrite := stored.resolve()
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, domain.NewConfigError("load", r.path, err.Error(), err)
	}
	if rewrite {
		if err := r.saveLocked(cfg); err != nil {
			return domain.Config{}, err
		}
		r.logger.Info("migrated config file", slog.String("path", r.path))
	}
	return cfg, nil
}

// Save writes cfg atomically with owner-only permissions.
func (r *ConfigRepository) Save(cfg domain.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveLocked(cfg)
}

func (r *ConfigRepository) saveLocked(cfg domain.Config) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.NewConfigError("save", r.path, "failed to create config directory", err)
	}

	content, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return domain.NewConfigError("save", r.path, "failed to serialize config", err)
	}

	tmp, err := os.CreateTemp(dir, configFileName+".*")
	if err != nil {
		return domain.NewConfigError("save", r.path, "failed to create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(content, '\n')); err != nil {
		tmp.Close()
		return domain.NewConfigError("save", r.path, "failed to write config", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return domain.NewConfigError("save", r.path, "failed to set permissions", err)
	}
	if err := tmp.Close(); err != nil {
		return domain.NewConfigError("save", r.path, "failed to write config", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return domain.NewConfigError("save", r.path, "failed to replace config", err)
	}
	return nil
}

// Path returns the config file location.
func (r *ConfigRepository) Path() string {
	return r.path
}

var _ ports.ConfigRepository = (*ConfigRepository)(nil)
