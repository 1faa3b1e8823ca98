package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validTOML = `[general]
interface = "br-lan"
port = 2060
ssl_port = 8443
temppass_time = 30
client_timeout = 5
login_url = "http://auth.example.com/wifidog/login"

[kernel]
control_dir = "/proc/wifidog-ng"
write_timeout_ms = 500

[dns]
upstreams = ["udp://1.1.1.1:53", "8.8.8.8"]

[api]
enabled = true
listen_addr = "127.0.0.1:2061"

[policy]
allowed_domains = ["auth.example.com", "10.0.0.1"]
whitelist_macs = ["aa:bb:cc:dd:ee:ff", "001122334455"]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "captivegate.toml")
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return configFile
}

func TestLoadConfig_NonExistentFile(t *testing.T) {
	_, err := LoadConfig("/non/existent/file.toml")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	configFile := writeConfig(t, `[general
	interface = "br-lan"`)

	if _, err := LoadConfig(configFile); err == nil {
		t.Error("Expected error for invalid TOML")
	}
}

func TestLoadConfig_ValidConfig(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, validTOML))
	if err != nil {
		t.Fatalf("Expected no error for valid config: %v", err)
	}

	if config.General.Interface != "br-lan" {
		t.Errorf("Expected interface br-lan, got %s", config.General.Interface)
	}
	if config.Kernel.WriteTimeout() != 500*time.Millisecond {
		t.Errorf("Expected write timeout 500ms, got %v", config.Kernel.WriteTimeout())
	}
	if len(config.DNS.Upstreams) != 2 {
		t.Errorf("Expected 2 upstreams, got %d", len(config.DNS.Upstreams))
	}
	if !config.API.Enabled {
		t.Error("Expected API to be enabled")
	}
	if err := config.ValidateConfig(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "[general]\ninterface = \"eth0\"\n"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if config.General.Port != DefaultPort || config.General.SSLPort != DefaultSSLPort {
		t.Errorf("Unexpected default ports: %d/%d", config.General.Port, config.General.SSLPort)
	}
	if config.General.TempPass() != 30*time.Second {
		t.Errorf("Unexpected temppass: %v", config.General.TempPass())
	}
	if config.Kernel.ControlDir != DefaultControlDir {
		t.Errorf("Unexpected control dir: %s", config.Kernel.ControlDir)
	}
	if config.Kernel.WriteTimeout() != DefaultWriteTimeoutMs*time.Millisecond {
		t.Errorf("Unexpected write timeout: %v", config.Kernel.WriteTimeout())
	}
	if len(config.DNS.Upstreams) != 1 || config.DNS.Upstreams[0] != DefaultDNSUpstream {
		t.Errorf("Unexpected upstreams: %v", config.DNS.Upstreams)
	}
	if config.DNS.Timeout() != DefaultDNSTimeoutMs*time.Millisecond {
		t.Errorf("Unexpected DNS timeout: %v", config.DNS.Timeout())
	}
	if config.API.Enabled || config.API.ListenAddr != DefaultAPIListenAddr {
		t.Errorf("Unexpected API defaults: %+v", config.API)
	}
	if err := config.ValidateConfig(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestKernelConfig_NoTimeout(t *testing.T) {
	k := &KernelConfig{WriteTimeoutMs: -1}
	if k.WriteTimeout() != 0 {
		t.Errorf("Expected unbounded timeout, got %v", k.WriteTimeout())
	}
}

func TestLoadConfig_RelativePath(t *testing.T) {
	configFile := writeConfig(t, validTOML)

	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)
	os.Chdir(filepath.Dir(configFile))

	config, err := LoadConfig(filepath.Base(configFile))
	if err != nil {
		t.Fatalf("Expected no error for relative path: %v", err)
	}
	if !filepath.IsAbs(config.GetConfigDir()) {
		t.Errorf("Expected absolute config dir, got %s", config.GetConfigDir())
	}
}

func TestSerializeConfig(t *testing.T) {
	config, err := ParseConfig([]byte(validTOML))
	if err != nil {
		t.Fatal(err)
	}

	buf, err := config.SerializeConfig()
	if err != nil {
		t.Fatalf("Failed to serialize config: %v", err)
	}
	if !strings.Contains(buf.String(), "br-lan") {
		t.Errorf("Serialized config does not contain interface: %s", buf.String())
	}

	reparsed, err := ParseConfig(buf.Bytes())
	if err != nil {
		t.Fatalf("Failed to parse serialized config: %v", err)
	}
	if reparsed.General.Interface != "br-lan" || reparsed.Kernel.WriteTimeoutMs != 500 {
		t.Errorf("Serialized config lost values: %+v %+v", reparsed.General, reparsed.Kernel)
	}
}
