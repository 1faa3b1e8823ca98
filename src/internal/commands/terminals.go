package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/captivegate/captivegate/src/internal/config"
	"github.com/captivegate/captivegate/src/internal/log"
	"github.com/captivegate/captivegate/src/internal/utils"
)

func CreateAdmitCommand() *AdmitCommand {
	ac := &AdmitCommand{
		fs: flag.NewFlagSet("admit", flag.ExitOnError),
	}
	ac.fs.StringVar(&ac.token, "token", "", "Session token handed to the kernel module")
	ac.fs.BoolVar(&ac.temporary, "temp", false, "Admit temporarily (general.temppass_time)")
	return ac
}

// AdmitCommand admits a terminal given by MAC, or by IPv4 address looked
// up in the ARP table of the gated interface.
type AdmitCommand struct {
	fs        *flag.FlagSet
	ctx       *AppContext
	cfg       *config.Config
	token     string
	temporary bool
	target    string
}

func (c *AdmitCommand) Name() string {
	return c.fs.Name()
}

func (c *AdmitCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	if err := c.fs.Parse(args); err != nil {
		return err
	}
	if c.fs.NArg() != 1 {
		return fmt.Errorf("usage: admit [-token <token>] [-temp] <mac|ipv4>")
	}
	c.target = c.fs.Arg(0)

	_, cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *AdmitCommand) Run() error {
	rt, err := newRuntime(c.ctx, c.cfg, nil)
	if err != nil {
		return err
	}
	ctx := context.Background()

	if !utils.IsIPv4Literal(c.target) {
		return rt.gate.AdmitTerminal(ctx, c.target, c.token, c.temporary)
	}

	mac, err := rt.gate.AdmitNeighbour(ctx, c.cfg.General.Interface, c.target, c.token, c.temporary)
	if err != nil {
		return err
	}
	log.Infof("Admitted %s (%s)", c.target, mac)
	return nil
}

func CreateEvictCommand() *TerminalCommand {
	return &TerminalCommand{fs: flag.NewFlagSet("evict", flag.ExitOnError)}
}

func CreateWhitelistCommand() *TerminalCommand {
	return &TerminalCommand{fs: flag.NewFlagSet("whitelist", flag.ExitOnError)}
}

// TerminalCommand evicts or whitelists the terminals given by MAC.
type TerminalCommand struct {
	fs   *flag.FlagSet
	ctx  *AppContext
	cfg  *config.Config
	macs []string
}

func (c *TerminalCommand) Name() string {
	return c.fs.Name()
}

func (c *TerminalCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	if err := c.fs.Parse(args); err != nil {
		return err
	}
	c.macs = c.fs.Args()
	if len(c.macs) == 0 {
		return fmt.Errorf("usage: %s <mac>...", c.Name())
	}

	_, cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *TerminalCommand) Run() error {
	rt, err := newRuntime(c.ctx, c.cfg, nil)
	if err != nil {
		return err
	}

	ctx := context.Background()
	for _, mac := range c.macs {
		var err error
		if c.Name() == "whitelist" {
			err = rt.gate.WhitelistTerminal(ctx, mac)
		} else {
			err = rt.gate.EvictTerminal(ctx, mac)
		}
		if err != nil {
			return fmt.Errorf("%s %s: %w", c.Name(), mac, err)
		}
	}
	return nil
}
