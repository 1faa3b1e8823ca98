// Package gate exposes the access control operations of the daemon.
//
// Every operation validates its input, canonicalises MAC addresses and
// then issues kernel commands. Nothing is cached: the kernel module holds
// the only copy of the policy.
package gate

import (
	"context"
	"fmt"
	"net/netip"
	"sync"

	"github.com/captivegate/captivegate/src/internal/config"
	"github.com/captivegate/captivegate/src/internal/errors"
	"github.com/captivegate/captivegate/src/internal/kmod"
	"github.com/captivegate/captivegate/src/internal/log"
	"github.com/captivegate/captivegate/src/internal/netinfo"
	"github.com/captivegate/captivegate/src/internal/resolver"
	"github.com/captivegate/captivegate/src/internal/utils"
)

// Kernel is the command side of the kernel module.
type Kernel interface {
	SetModule(ctx context.Context, iface string, enable bool) error
	SetDestination(ctx context.Context, ip netip.Addr, allow bool) error
	SetTerminal(ctx context.Context, action kmod.Action, mac utils.MAC, token string) error
}

// DomainResolver turns domain rules into destination commands.
type DomainResolver interface {
	Resolve(ctx context.Context, domain string, intent resolver.Intent) *resolver.Pending
}

// Interfaces answers address and neighbour queries.
type Interfaces interface {
	Binding(name string) (*netinfo.InterfaceBinding, error)
	Neighbour(iface, ip string) (utils.MAC, error)
}

// Gate composes the kernel channel, the domain resolver and the
// interface queries.
type Gate struct {
	kernel     Kernel
	domains    DomainResolver
	interfaces Interfaces

	mu      sync.RWMutex
	binding *netinfo.InterfaceBinding
}

// New creates a Gate.
func New(kernel Kernel, domains DomainResolver, interfaces Interfaces) *Gate {
	return &Gate{
		kernel:     kernel,
		domains:    domains,
		interfaces: interfaces,
	}
}

// Binding returns the interface gating was last enabled on, or nil.
func (g *Gate) Binding() *netinfo.InterfaceBinding {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.binding
}

// EnableGating binds the module to iface and enables it. The interface
// must exist and carry an IPv4 address.
func (g *Gate) EnableGating(ctx context.Context, iface string) error {
	if err := config.ValidateInterfaceName(iface); err != nil {
		return errors.NewValidationError(fmt.Sprintf("invalid interface name %q", iface), err)
	}

	binding, err := g.interfaces.Binding(iface)
	if err != nil {
		return err
	}

	if err := g.kernel.SetModule(ctx, iface, true); err != nil {
		return err
	}

	g.mu.Lock()
	g.binding = binding
	g.mu.Unlock()

	log.Infof("Gating enabled on %s (%s/%s)", binding.Name, binding.IP, binding.Mask)
	return nil
}

// DisableGating turns enforcement off.
func (g *Gate) DisableGating(ctx context.Context) error {
	if err := g.kernel.SetModule(ctx, "", false); err != nil {
		return err
	}

	g.mu.Lock()
	g.binding = nil
	g.mu.Unlock()
	return nil
}

// AllowDestination makes ip reachable before authentication.
func (g *Gate) AllowDestination(ctx context.Context, ip string) error {
	return g.setDestination(ctx, ip, true)
}

// DenyDestination revokes pre-auth reachability of ip.
func (g *Gate) DenyDestination(ctx context.Context, ip string) error {
	return g.setDestination(ctx, ip, false)
}

func (g *Gate) setDestination(ctx context.Context, ip string, allow bool) error {
	addr, ok := utils.ParseIPv4Literal(ip)
	if !ok {
		return errors.NewValidationError(fmt.Sprintf("invalid IPv4 address %q", ip), nil)
	}
	return g.kernel.SetDestination(ctx, addr, allow)
}

// AllowDomain makes domain reachable before authentication. Only literal
// IPv4 domains are applied before it returns.
func (g *Gate) AllowDomain(ctx context.Context, domain string) (*resolver.Pending, error) {
	return g.domainRule(ctx, domain, resolver.IntentAllow)
}

// DenyDomain revokes pre-auth reachability of domain.
func (g *Gate) DenyDomain(ctx context.Context, domain string) (*resolver.Pending, error) {
	return g.domainRule(ctx, domain, resolver.IntentDeny)
}

func (g *Gate) domainRule(ctx context.Context, domain string, intent resolver.Intent) (*resolver.Pending, error) {
	if !utils.IsIPv4Literal(domain) && !utils.IsDNSName(domain) {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid domain %q", domain), nil)
	}
	// Err is nil while a lookup is still running, so only literal write
	// failures and rules rejected up front are reported here.
	p := g.domains.Resolve(ctx, domain, intent)
	return p, p.Err()
}

// AdmitTerminal grants access to mac. temporary selects the short-lived
// admission used while the client completes authentication.
func (g *Gate) AdmitTerminal(ctx context.Context, mac, token string, temporary bool) error {
	hw, err := parseMAC(mac)
	if err != nil {
		return err
	}
	if !utils.IsLineSafe(token) {
		return errors.NewValidationError("token must not contain whitespace or control characters", nil)
	}

	action := kmod.ActionAdmit
	if temporary {
		action = kmod.ActionTempAdmit
	}
	return g.kernel.SetTerminal(ctx, action, hw, token)
}

// EvictTerminal revokes access of mac.
func (g *Gate) EvictTerminal(ctx context.Context, mac string) error {
	hw, err := parseMAC(mac)
	if err != nil {
		return err
	}
	return g.kernel.SetTerminal(ctx, kmod.ActionDeny, hw, "")
}

// WhitelistTerminal exempts mac from authentication.
func (g *Gate) WhitelistTerminal(ctx context.Context, mac string) error {
	hw, err := parseMAC(mac)
	if err != nil {
		return err
	}
	return g.kernel.SetTerminal(ctx, kmod.ActionWhitelist, hw, "")
}

// AdmitTerminalByIP admits the client currently using ip on the gated
// interface. It returns the MAC that was admitted.
func (g *Gate) AdmitTerminalByIP(ctx context.Context, ip, token string, temporary bool) (string, error) {
	binding := g.Binding()
	if binding == nil {
		return "", errors.NewValidationError("gating is not enabled", nil)
	}
	return g.AdmitNeighbour(ctx, binding.Name, ip, token, temporary)
}

// AdmitNeighbour admits the neighbour using ip on iface, whether or not
// gating was enabled by this process.
func (g *Gate) AdmitNeighbour(ctx context.Context, iface, ip, token string, temporary bool) (string, error) {
	if !utils.IsIPv4Literal(ip) {
		return "", errors.NewValidationError(fmt.Sprintf("invalid IPv4 address %q", ip), nil)
	}

	hw, err := g.interfaces.Neighbour(iface, ip)
	if err != nil {
		return "", err
	}
	if err := g.AdmitTerminal(ctx, hw.String(), token, temporary); err != nil {
		return "", err
	}
	return hw.Colon(), nil
}

func parseMAC(mac string) (utils.MAC, error) {
	hw, err := utils.ParseMAC(mac)
	if err != nil {
		return utils.MAC{}, errors.NewValidationError(fmt.Sprintf("invalid MAC address %q", mac), err)
	}
	return hw, nil
}
