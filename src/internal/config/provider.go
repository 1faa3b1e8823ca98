package config

import (
	"sync"

	"github.com/captivegate/captivegate/src/internal/errors"
	"github.com/captivegate/captivegate/src/internal/log"
)

// Provider owns the process-wide configuration between Init and Deinit.
// Components receive the *Config it returns at construction time; the
// provider itself is read-only to them.
type Provider struct {
	mu   sync.RWMutex
	cfg  *Config
	path string
}

func NewProvider() *Provider {
	return &Provider{}
}

// Init loads and validates the configuration file. Calling Init again
// replaces the configuration only if the new one is valid.
func (p *Provider) Init(path string) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return errors.NewConfigError("failed to load configuration", err)
	}
	if err := cfg.ValidateConfig(); err != nil {
		return errors.NewConfigError("configuration validation failed", err)
	}

	p.mu.Lock()
	p.cfg = cfg
	p.path = path
	p.mu.Unlock()

	log.Debugf("Configuration initialized from %s", path)
	return nil
}

// InitWith installs an already built configuration (tests, embedding).
func (p *Provider) InitWith(cfg *Config) error {
	cfg.ApplyDefaults()
	if err := cfg.ValidateConfig(); err != nil {
		return errors.NewConfigError("configuration validation failed", err)
	}

	p.mu.Lock()
	p.cfg = cfg
	p.mu.Unlock()
	return nil
}

// Get returns the current configuration.
func (p *Provider) Get() (*Config, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.cfg == nil {
		return nil, errors.NewConfigError("configuration is not initialized", nil)
	}
	return p.cfg, nil
}

// Path returns the file the configuration was loaded from, if any.
func (p *Provider) Path() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.path
}

// Deinit drops the configuration. Get fails until the next Init.
func (p *Provider) Deinit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg = nil
	p.path = ""
}
