package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/captivegate/captivegate/src/internal/config"
	"github.com/captivegate/captivegate/src/internal/log"
	"github.com/captivegate/captivegate/src/internal/resolver"
	"github.com/captivegate/captivegate/src/internal/utils"
)

func CreateAllowCommand() *RuleCommand {
	return newRuleCommand("allow", resolver.IntentAllow)
}

func CreateDenyCommand() *RuleCommand {
	return newRuleCommand("deny", resolver.IntentDeny)
}

func newRuleCommand(name string, intent resolver.Intent) *RuleCommand {
	return &RuleCommand{
		fs:     flag.NewFlagSet(name, flag.ExitOnError),
		intent: intent,
	}
}

// RuleCommand applies pre-auth rules for IPv4 addresses or domains given as
// arguments. Domains are resolved before the command exits.
type RuleCommand struct {
	fs      *flag.FlagSet
	ctx     *AppContext
	cfg     *config.Config
	intent  resolver.Intent
	targets []string
}

func (c *RuleCommand) Name() string {
	return c.fs.Name()
}

func (c *RuleCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	if err := c.fs.Parse(args); err != nil {
		return err
	}
	c.targets = c.fs.Args()
	if len(c.targets) == 0 {
		return fmt.Errorf("usage: %s <ipv4|domain>...", c.Name())
	}

	_, cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *RuleCommand) Run() error {
	rt, err := newRuntime(c.ctx, c.cfg, nil)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var pending []*resolver.Pending
	var failed int
	for _, target := range c.targets {
		var err error
		if utils.IsIPv4Literal(target) {
			if c.intent == resolver.IntentAllow {
				err = rt.gate.AllowDestination(ctx, target)
			} else {
				err = rt.gate.DenyDestination(ctx, target)
			}
		} else {
			var p *resolver.Pending
			if c.intent == resolver.IntentAllow {
				p, err = rt.gate.AllowDomain(ctx, target)
			} else {
				p, err = rt.gate.DenyDomain(ctx, target)
			}
			if p != nil {
				pending = append(pending, p)
			}
		}
		if err != nil {
			log.Errorf("Failed to %s %s: %v", c.intent, target, err)
			failed++
		}
	}

	if err := rt.drain(); err != nil {
		return err
	}
	for _, p := range pending {
		if len(p.Addresses()) == 0 {
			log.Warnf("%s: no addresses applied", p.Domain())
			continue
		}
		for _, addr := range p.Addresses() {
			fmt.Printf("%s %s (%s)\n", c.intent, addr, p.Domain())
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d rule(s) failed", failed, len(c.targets))
	}
	return nil
}
