package commands

import (
	"context"
	"flag"

	"github.com/captivegate/captivegate/src/internal/config"
)

func CreateEnableCommand() *GatingCommand {
	gc := &GatingCommand{
		fs:     flag.NewFlagSet("enable", flag.ExitOnError),
		enable: true,
	}
	gc.fs.StringVar(&gc.iface, "interface", "", "Interface to gate (default: general.interface from config)")
	return gc
}

func CreateDisableCommand() *GatingCommand {
	return &GatingCommand{
		fs: flag.NewFlagSet("disable", flag.ExitOnError),
	}
}

// GatingCommand enables or disables the kernel module.
type GatingCommand struct {
	fs     *flag.FlagSet
	ctx    *AppContext
	cfg    *config.Config
	enable bool
	iface  string
}

func (g *GatingCommand) Name() string {
	return g.fs.Name()
}

func (g *GatingCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	_, cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	g.cfg = cfg

	if g.iface == "" {
		g.iface = cfg.General.Interface
	}
	return nil
}

func (g *GatingCommand) Run() error {
	rt, err := newRuntime(g.ctx, g.cfg, nil)
	if err != nil {
		return err
	}

	if g.enable {
		return rt.gate.EnableGating(context.Background(), g.iface)
	}
	return rt.gate.DisableGating(context.Background())
}
