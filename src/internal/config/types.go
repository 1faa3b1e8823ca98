package config

import (
	"path/filepath"
	"time"
)

type Config struct {
	// General holds the gateway settings shared with the kernel module.
	General *GeneralConfig `toml:"general" json:"general"`
	// Kernel describes where the enforcement module exposes its control files.
	Kernel *KernelConfig `toml:"kernel" json:"kernel"`
	// DNS configures resolution of allowed/denied domains.
	DNS *DNSConfig `toml:"dns" json:"dns"`
	// API configures the local control API used by the policy engine.
	API *APIConfig `toml:"api" json:"api"`
	// Policy is applied once when the service starts.
	Policy *PolicyConfig `toml:"policy" json:"policy"`

	_absConfigFilePath string
}

type GeneralConfig struct {
	// Interface is the LAN interface where clients are gated (e.g. "br-lan").
	Interface string `toml:"interface" json:"interface" validate:"required,ifname"`
	// Port is the HTTP port of the portal (default: 2060).
	Port uint16 `toml:"port" json:"port" validate:"required,min=1"`
	// SSLPort is the HTTPS port of the portal (default: 8443).
	SSLPort uint16 `toml:"ssl_port" json:"ssl_port" validate:"required,min=1"`
	// TempPassTime is how long a temporarily admitted terminal keeps access, in seconds (default: 30).
	TempPassTime int `toml:"temppass_time" json:"temppass_time" validate:"gte=0"`
	// ClientTimeout is the idle time after which the kernel drops a terminal, in minutes (default: 5).
	ClientTimeout int `toml:"client_timeout" json:"client_timeout" validate:"gte=0"`
	// LoginURL is the auth server redirect template. Placeholders: {{gw_address}}, {{gw_port}}, {{gw_id}}, {{mac}}, {{ip}}, {{url}}.
	LoginURL string `toml:"login_url" json:"login_url,omitempty" validate:"omitempty,login_url"`
}

type KernelConfig struct {
	// ControlDir is the directory with the "config", "ip" and "term" control files (default: /proc/wifidog-ng).
	ControlDir string `toml:"control_dir" json:"control_dir" validate:"required"`
	// WriteTimeoutMs bounds a single control write including waiting for other writers (default: 2000, -1 = no timeout).
	WriteTimeoutMs int `toml:"write_timeout_ms" json:"write_timeout_ms" validate:"gte=-1"`
}

type DNSConfig struct {
	// Upstreams lists resolvers used for domain rules. Supported: udp://ip:port or ip[:port] (default: ["udp://127.0.0.1:53"]).
	Upstreams []string `toml:"upstreams" json:"upstreams" validate:"required,min=1,dive,upstream_url"`
	// TimeoutMs is the per-upstream query timeout (default: 3000).
	TimeoutMs int `toml:"timeout_ms" json:"timeout_ms" validate:"gte=0"`
}

type APIConfig struct {
	// Enabled starts the control API with the service command (default: false).
	Enabled bool `toml:"enabled" json:"enabled"`
	// ListenAddr is the control API bind address (default: 127.0.0.1:2061).
	ListenAddr string `toml:"listen_addr" json:"listen_addr" validate:"required_if=Enabled true,omitempty,hostname_port"`
}

type PolicyConfig struct {
	// AllowedDomains are reachable before authentication (domains or IPv4 literals), e.g. the auth server.
	AllowedDomains []string `toml:"allowed_domains" json:"allowed_domains" validate:"dive,domain_or_ipv4"`
	// WhitelistMACs bypass authentication entirely.
	WhitelistMACs []string `toml:"whitelist_macs" json:"whitelist_macs" validate:"dive,mac"`
}

func (c *Config) GetConfigDir() string {
	return filepath.Dir(c._absConfigFilePath)
}

// WriteTimeout returns the kernel write timeout; zero means unbounded.
func (k *KernelConfig) WriteTimeout() time.Duration {
	if k.WriteTimeoutMs < 0 {
		return 0
	}
	return time.Duration(k.WriteTimeoutMs) * time.Millisecond
}

// Timeout returns the per-upstream DNS query timeout.
func (d *DNSConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutMs) * time.Millisecond
}

// TempPass returns the temporary admit duration.
func (g *GeneralConfig) TempPass() time.Duration {
	return time.Duration(g.TempPassTime) * time.Second
}
