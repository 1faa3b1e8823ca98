package kmod

import (
	"context"
	"net/netip"
	"path/filepath"
	"time"

	"github.com/captivegate/captivegate/src/internal/log"
	"github.com/captivegate/captivegate/src/internal/metrics"
	"github.com/captivegate/captivegate/src/internal/utils"
)

// Control file names inside the control directory.
const (
	ModuleFile      = "config"
	DestinationFile = "ip"
	TerminalFile    = "term"
)

// Options configures a Controller.
type Options struct {
	// WriteTimeout bounds each command; zero means no bound.
	WriteTimeout time.Duration
	// Metrics receives per-write observations (optional).
	Metrics *metrics.Metrics
}

// Controller issues commands on the three control channels.
type Controller struct {
	module      *Channel
	destination *Channel
	terminal    *Channel
}

// NewController creates a controller for the control files in dir.
func NewController(dir string, opts Options) *Controller {
	return &Controller{
		module:      newChannel(ModuleFile, filepath.Join(dir, ModuleFile), opts.WriteTimeout, opts.Metrics),
		destination: newChannel(DestinationFile, filepath.Join(dir, DestinationFile), opts.WriteTimeout, opts.Metrics),
		terminal:    newChannel(TerminalFile, filepath.Join(dir, TerminalFile), opts.WriteTimeout, opts.Metrics),
	}
}

// Channels returns the module, destination and terminal channels.
func (c *Controller) Channels() []*Channel {
	return []*Channel{c.module, c.destination, c.terminal}
}

// SetModule binds the module to iface and enables it, or disables it.
// iface is ignored when disabling.
func (c *Controller) SetModule(ctx context.Context, iface string, enable bool) error {
	if err := c.module.Write(ctx, EncodeModule(iface, enable)); err != nil {
		return err
	}
	if enable {
		log.Infof("Enable kmod on %s", iface)
	} else {
		log.Infof("Disable kmod")
	}
	return nil
}

// SetDestination grants or revokes pre-auth reachability of ip.
func (c *Controller) SetDestination(ctx context.Context, ip netip.Addr, allow bool) error {
	if err := c.destination.Write(ctx, EncodeDestination(ip, allow)); err != nil {
		return err
	}
	verb := "deny"
	if allow {
		verb = "allow"
	}
	log.Infof("%s destip: %s", verb, ip)
	return nil
}

// SetTerminal applies action to the terminal identified by mac.
func (c *Controller) SetTerminal(ctx context.Context, action Action, mac utils.MAC, token string) error {
	if err := c.terminal.Write(ctx, EncodeTerminal(action, mac, token)); err != nil {
		return err
	}
	log.Infof("terminal ctl: %s %s", action, mac.Colon())
	return nil
}
