package gate

import (
	"context"
	"fmt"
	"net/netip"
	"sync"

	"github.com/captivegate/captivegate/src/internal/errors"
	"github.com/captivegate/captivegate/src/internal/kmod"
	"github.com/captivegate/captivegate/src/internal/netinfo"
	"github.com/captivegate/captivegate/src/internal/utils"
)

// mockKernel renders every command with the kmod encoders so tests can
// compare the exact lines the module would receive.
type mockKernel struct {
	mu    sync.Mutex
	lines map[string][]string
	err   error
}

func newMockKernel() *mockKernel {
	return &mockKernel{lines: make(map[string][]string)}
}

func (k *mockKernel) record(channel string, payload []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.err != nil {
		return k.err
	}
	k.lines[channel] = append(k.lines[channel], string(payload))
	return nil
}

func (k *mockKernel) SetModule(_ context.Context, iface string, enable bool) error {
	return k.record(kmod.ModuleFile, kmod.EncodeModule(iface, enable))
}

func (k *mockKernel) SetDestination(_ context.Context, ip netip.Addr, allow bool) error {
	return k.record(kmod.DestinationFile, kmod.EncodeDestination(ip, allow))
}

func (k *mockKernel) SetTerminal(_ context.Context, action kmod.Action, mac utils.MAC, token string) error {
	return k.record(kmod.TerminalFile, kmod.EncodeTerminal(action, mac, token))
}

func (k *mockKernel) Lines(channel string) []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]string(nil), k.lines[channel]...)
}

// mockInterfaces serves a fixed binding and neighbour table.
type mockInterfaces struct {
	bindings   map[string]*netinfo.InterfaceBinding
	neighbours map[string]string
}

func (m *mockInterfaces) Binding(name string) (*netinfo.InterfaceBinding, error) {
	b, ok := m.bindings[name]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("interface %s not found", name), nil)
	}
	return b, nil
}

func (m *mockInterfaces) Neighbour(iface, ip string) (utils.MAC, error) {
	mac, ok := m.neighbours[iface+"/"+ip]
	if !ok {
		return utils.MAC{}, errors.NewNotFoundError(fmt.Sprintf("no ARP entry for %s on %s", ip, iface), nil)
	}
	return utils.ParseMAC(mac)
}

// staticLookuper answers every lookup from a table.
type staticLookuper map[string][]string

func (s staticLookuper) LookupIPv4(_ context.Context, name string) ([]netip.Addr, error) {
	addrs, ok := s[name]
	if !ok {
		return nil, errors.NewResolutionError(name+": no such domain", nil)
	}
	out := make([]netip.Addr, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, netip.MustParseAddr(a))
	}
	return out, nil
}
