package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/captivegate/captivegate/src/internal/config"
)

func CreateIfaceCommand() *IfaceCommand {
	return &IfaceCommand{
		fs:  flag.NewFlagSet("iface", flag.ExitOnError),
		out: os.Stdout,
	}
}

// IfaceCommand lists interfaces, or prints the binding of one interface.
type IfaceCommand struct {
	fs   *flag.FlagSet
	ctx  *AppContext
	cfg  *config.Config
	name string
	out  io.Writer
}

func (c *IfaceCommand) Name() string {
	return c.fs.Name()
}

func (c *IfaceCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	if err := c.fs.Parse(args); err != nil {
		return err
	}
	c.name = c.fs.Arg(0)

	_, cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *IfaceCommand) Run() error {
	rt, err := newRuntime(c.ctx, c.cfg, nil)
	if err != nil {
		return err
	}

	if c.name != "" {
		binding, err := rt.network.Binding(c.name)
		if err != nil {
			return err
		}
		mac, err := rt.network.InterfaceMAC(c.name)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "name=%s\nifindex=%d\nmac=%s\nipaddr=%s\nmask=%s\nbroadcast=%s\n",
			binding.Name, binding.Index, mac, binding.IP, binding.Mask, binding.Broadcast)
		return nil
	}

	interfaces, err := rt.network.Interfaces()
	if err != nil {
		return err
	}
	var sb strings.Builder
	for _, iface := range interfaces {
		state := "down"
		if iface.Up {
			state = "up"
		}
		marker := " "
		if iface.Name == c.cfg.General.Interface {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%s %-16s %-4s %-17s %s\n", marker, iface.Name, state, iface.MAC, iface.IPv4)
	}
	_, err = io.WriteString(c.out, sb.String())
	return err
}

func CreateARPCommand() *ARPCommand {
	ac := &ARPCommand{
		fs:  flag.NewFlagSet("arp", flag.ExitOnError),
		out: os.Stdout,
	}
	ac.fs.StringVar(&ac.iface, "interface", "", "Interface to search (default: general.interface from config)")
	return ac
}

// ARPCommand prints the MAC address of a neighbour.
type ARPCommand struct {
	fs    *flag.FlagSet
	ctx   *AppContext
	cfg   *config.Config
	iface string
	ip    string
	out   io.Writer
}

func (c *ARPCommand) Name() string {
	return c.fs.Name()
}

func (c *ARPCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	if err := c.fs.Parse(args); err != nil {
		return err
	}
	if c.fs.NArg() != 1 {
		return fmt.Errorf("usage: arp [-interface <name>] <ipv4>")
	}
	c.ip = c.fs.Arg(0)

	_, cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if c.iface == "" {
		c.iface = cfg.General.Interface
	}
	return nil
}

func (c *ARPCommand) Run() error {
	rt, err := newRuntime(c.ctx, c.cfg, nil)
	if err != nil {
		return err
	}

	mac, err := rt.network.ARPLookup(c.iface, c.ip)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, mac)
	return err
}

func CreateShowConfigCommand() *ShowConfigCommand {
	return &ShowConfigCommand{
		fs:  flag.NewFlagSet("show-config", flag.ExitOnError),
		out: os.Stdout,
	}
}

// ShowConfigCommand prints the effective configuration with defaults applied.
type ShowConfigCommand struct {
	fs  *flag.FlagSet
	cfg *config.Config
	out io.Writer
}

func (c *ShowConfigCommand) Name() string {
	return c.fs.Name()
}

func (c *ShowConfigCommand) Init(args []string, ctx *AppContext) error {
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	_, cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *ShowConfigCommand) Run() error {
	buf, err := c.cfg.SerializeConfig()
	if err != nil {
		return err
	}
	_, err = c.out.Write(buf.Bytes())
	return err
}
