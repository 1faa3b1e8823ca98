package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/captivegate/captivegate/src/internal/api"
	"github.com/captivegate/captivegate/src/internal/commands"
	"github.com/captivegate/captivegate/src/internal/log"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

func main() {
	ctx := &commands.AppContext{}

	flag.StringVar(&ctx.ConfigPath, "config", "/etc/captivegate/captivegate.toml", "Path to configuration file")
	flag.BoolVar(&ctx.Verbose, "verbose", false, "Enable debug logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Captive portal gateway control daemon\n")
		fmt.Fprintf(os.Stderr, "Version: %s (Commit: %s, Date: %s)\n\n", version, commit, date)
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command> [args]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  service                      Run as a daemon (gating, policy, control API)\n")
		fmt.Fprintf(os.Stderr, "  enable [-interface <name>]   Bind the kernel module to an interface and enable it\n")
		fmt.Fprintf(os.Stderr, "  disable                      Disable the kernel module\n")
		fmt.Fprintf(os.Stderr, "  allow <ipv4|domain>...       Allow destinations before authentication\n")
		fmt.Fprintf(os.Stderr, "  deny <ipv4|domain>...        Revoke pre-auth destinations\n")
		fmt.Fprintf(os.Stderr, "  admit [-token t] [-temp] <mac|ipv4>\n")
		fmt.Fprintf(os.Stderr, "                               Admit a terminal\n")
		fmt.Fprintf(os.Stderr, "  evict <mac>...               Revoke terminal access\n")
		fmt.Fprintf(os.Stderr, "  whitelist <mac>...           Exempt terminals from authentication\n")
		fmt.Fprintf(os.Stderr, "  iface [name]                 Show interfaces or one interface binding\n")
		fmt.Fprintf(os.Stderr, "  arp [-interface <name>] <ipv4>\n")
		fmt.Fprintf(os.Stderr, "                               Look up a neighbour MAC address\n")
		fmt.Fprintf(os.Stderr, "  show-config                  Print the effective configuration\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if ctx.Verbose {
		log.SetVerbose(true)
	}
	api.Version, api.Commit, api.Date = version, commit, date

	if _, err := os.Stat(ctx.ConfigPath); errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Configuration file not found: %s", ctx.ConfigPath)
	}

	cmds := []commands.Runner{
		commands.CreateServiceCommand(),
		commands.CreateEnableCommand(),
		commands.CreateDisableCommand(),
		commands.CreateAllowCommand(),
		commands.CreateDenyCommand(),
		commands.CreateAdmitCommand(),
		commands.CreateEvictCommand(),
		commands.CreateWhitelistCommand(),
		commands.CreateIfaceCommand(),
		commands.CreateARPCommand(),
		commands.CreateShowConfigCommand(),
	}

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	subcommand := args[0]
	for _, cmd := range cmds {
		if cmd.Name() == subcommand {
			if err := cmd.Init(args[1:], ctx); err != nil {
				log.Fatalf("Failed to initialize command: %v", err)
			}

			if err := cmd.Run(); err != nil {
				log.Fatalf("Failed to run command: %v", err)
			}

			os.Exit(0)
		}
	}

	log.Fatalf("Unknown subcommand: %s", subcommand)
}
