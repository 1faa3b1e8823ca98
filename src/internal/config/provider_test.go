package config

import (
	"errors"
	"testing"

	cgerrors "github.com/captivegate/captivegate/src/internal/errors"
)

func TestProvider_Lifecycle(t *testing.T) {
	p := NewProvider()

	if _, err := p.Get(); !errors.Is(err, cgerrors.ErrConfig) {
		t.Fatalf("Expected config error before Init, got %v", err)
	}

	path := writeConfig(t, validTOML)
	if err := p.Init(path); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if p.Path() != path {
		t.Errorf("Expected path %s, got %s", path, p.Path())
	}

	cfg, err := p.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if cfg.General.Interface != "br-lan" {
		t.Errorf("Unexpected interface %s", cfg.General.Interface)
	}

	p.Deinit()
	if _, err := p.Get(); err == nil {
		t.Error("Expected error after Deinit")
	}
}

func TestProvider_InitInvalidKeepsPrevious(t *testing.T) {
	p := NewProvider()
	if err := p.Init(writeConfig(t, validTOML)); err != nil {
		t.Fatal(err)
	}

	err := p.Init(writeConfig(t, "[general]\ninterface = \"\"\n"))
	if !errors.Is(err, cgerrors.ErrConfig) {
		t.Fatalf("Expected config error, got %v", err)
	}

	cfg, err := p.Get()
	if err != nil || cfg.General.Interface != "br-lan" {
		t.Errorf("Expected previous configuration to be kept, got %v %v", cfg, err)
	}
}

func TestProvider_InitWith(t *testing.T) {
	p := NewProvider()
	if err := p.InitWith(&Config{General: &GeneralConfig{Interface: "eth1"}}); err != nil {
		t.Fatalf("InitWith failed: %v", err)
	}
	cfg, _ := p.Get()
	if cfg.Kernel.ControlDir != DefaultControlDir {
		t.Errorf("Expected defaults applied, got %s", cfg.Kernel.ControlDir)
	}

	if err := p.InitWith(&Config{General: &GeneralConfig{}}); err == nil {
		t.Error("Expected validation error")
	}
}
