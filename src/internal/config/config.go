package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/captivegate/captivegate/src/internal/log"
)

const (
	DefaultPort           = 2060
	DefaultSSLPort        = 8443
	DefaultTempPassTime   = 30
	DefaultClientTimeout  = 5
	DefaultControlDir     = "/proc/wifidog-ng"
	DefaultWriteTimeoutMs = 2000
	DefaultDNSUpstream    = "udp://127.0.0.1:53"
	DefaultDNSTimeoutMs   = 3000
	DefaultAPIListenAddr  = "127.0.0.1:2061"
)

func LoadConfig(configPath string) (*Config, error) {
	configFile := filepath.Clean(configPath)

	if !filepath.IsAbs(configFile) {
		if path, err := filepath.Abs(configFile); err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %v", err)
		} else {
			configFile = path
		}
	}

	content, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("configuration file not found: %s", configFile)
		}
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	config, err := ParseConfig(content)
	if err != nil {
		return nil, err
	}
	config._absConfigFilePath = configFile

	log.Debugf("Configuration file path: %s", configFile)
	return config, nil
}

// ParseConfig decodes TOML and fills in defaults. It does not validate.
func ParseConfig(content []byte) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(content, &config); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			log.Errorf("%s", derr.String())
			row, col := derr.Position()
			log.Errorf("Error at line %d, column %d", row, col)
			return nil, fmt.Errorf("failed to parse config file at line %d, column %d", row, col)
		}
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}

	config.ApplyDefaults()
	return &config, nil
}

// ApplyDefaults fills missing sections and zero values.
func (c *Config) ApplyDefaults() {
	if c.General == nil {
		c.General = &GeneralConfig{}
	}
	if c.General.Port == 0 {
		c.General.Port = DefaultPort
	}
	if c.General.SSLPort == 0 {
		c.General.SSLPort = DefaultSSLPort
	}
	if c.General.TempPassTime == 0 {
		c.General.TempPassTime = DefaultTempPassTime
	}
	if c.General.ClientTimeout == 0 {
		c.General.ClientTimeout = DefaultClientTimeout
	}

	if c.Kernel == nil {
		c.Kernel = &KernelConfig{}
	}
	if c.Kernel.WriteTimeoutMs == 0 {
		c.Kernel.WriteTimeoutMs = DefaultWriteTimeoutMs
	}
	if c.Kernel.ControlDir == "" {
		c.Kernel.ControlDir = DefaultControlDir
	}

	if c.DNS == nil {
		c.DNS = &DNSConfig{}
	}
	if len(c.DNS.Upstreams) == 0 {
		c.DNS.Upstreams = []string{DefaultDNSUpstream}
	}
	if c.DNS.TimeoutMs == 0 {
		c.DNS.TimeoutMs = DefaultDNSTimeoutMs
	}

	if c.API == nil {
		c.API = &APIConfig{}
	}
	if c.API.ListenAddr == "" {
		c.API.ListenAddr = DefaultAPIListenAddr
	}

	if c.Policy == nil {
		c.Policy = &PolicyConfig{}
	}
}

func (c *Config) SerializeConfig() (*bytes.Buffer, error) {
	buf := bytes.Buffer{}
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return &buf, nil
}
