package service

import (
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/subtune/internal/domain"
	"github.com/tejashwikalptaru/subtune/internal/ports"
)

// ConfigService loads and caches the user configuration.
// All operations are thread-safe via sync.RWMutex.
type ConfigService struct {
	// Dependencies (injected)
	logger     *slog.Logger
	repository ports.ConfigRepository

	// Cached configuration
	config domain.Config
	loaded bool

	mu sync.RWMutex
}

// NewConfigService creates a new config service. Nothing is read until Load.
func NewConfigService(logger *slog.Logger, repository ports.ConfigRepository) *ConfigService {
	return &ConfigService{
		logger:     logger,
		repository: repository,
		config:     domain.DefaultConfig(),
	}
}

// Load reads and validates the stored configuration.
func (s *ConfigService) Load() (domain.Config, error) {
	cfg, err := s.repository.Load()
	if err != nil {
		return domain.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, domain.NewConfigError("load", s.repository.Path(), err.Error(), err)
	}

	s.mu.Lock()
	s.config = cfg
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug("config loaded",
		slog.String("path", s.repository.Path()),
		slog.String("base_url", cfg.BaseURL),
		slog.Bool("needs_edit", cfg.NeedsEdit()))

	return cfg, nil
}

// Config returns the cached configuration, or the defaults before Load.
func (s *ConfigService) Config() domain.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Loaded reports whether Load succeeded.
func (s *ConfigService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Update applies fn to a copy of the configuration, validates and saves it.
func (s *ConfigService) Update(fn func(*domain.Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.config
	fn(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.repository.Save(cfg); err != nil {
		return err
	}
	s.config = cfg
	return nil
}

// Path returns where the configuration is stored.
func (s *ConfigService) Path() string {
	return s.repository.Path()
}
