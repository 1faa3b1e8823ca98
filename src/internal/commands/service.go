package commands

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/captivegate/captivegate/src/internal/api"
	"github.com/captivegate/captivegate/src/internal/config"
	"github.com/captivegate/captivegate/src/internal/hashing"
	"github.com/captivegate/captivegate/src/internal/log"
	"github.com/captivegate/captivegate/src/internal/metrics"
	"github.com/captivegate/captivegate/src/internal/utils"
)

const shutdownTimeout = 10 * time.Second

func CreateServiceCommand() *ServiceCommand {
	sc := &ServiceCommand{
		fs: flag.NewFlagSet("service", flag.ExitOnError),
	}
	sc.fs.BoolVar(&sc.noAPI, "no-api", false, "Do not start the control API even if enabled in config")
	sc.fs.BoolVar(&sc.keepGating, "keep-gating", false, "Leave gating enabled on shutdown")
	return sc
}

// ServiceCommand runs the daemon: it enables gating on the configured
// interface, applies the configured policy, serves the control API and
// disables gating again on SIGINT/SIGTERM. SIGHUP reloads the policy.
type ServiceCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext

	noAPI      bool
	keepGating bool

	provider *config.Provider
	cfg      *config.Config
	rt       *runtime

	apiRunner *RestartableRunner

	// whitelist is the canonical whitelist of the last applied config.
	whitelist *hashing.StringSet

	// ready is closed once gating is enabled and the API is started (tests).
	ready chan struct{}
	// signals overrides signal.Notify (tests).
	signals chan os.Signal
}

func (s *ServiceCommand) Name() string {
	return s.fs.Name()
}

func (s *ServiceCommand) Init(args []string, ctx *AppContext) error {
	s.ctx = ctx

	if err := s.fs.Parse(args); err != nil {
		return err
	}

	provider, cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	s.provider = provider
	s.cfg = cfg

	rt, err := newRuntime(ctx, cfg, metrics.New())
	if err != nil {
		return err
	}
	s.rt = rt

	if s.ready == nil {
		s.ready = make(chan struct{})
	}
	return nil
}

func (s *ServiceCommand) Run() error {
	log.Infof("Starting captivegate service on %s...", s.cfg.General.Interface)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := s.signals
	if sigChan == nil {
		sigChan = make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sigChan)
	}

	if err := s.rt.gate.EnableGating(ctx, s.cfg.General.Interface); err != nil {
		return fmt.Errorf("failed to enable gating: %w", err)
	}
	s.applyPolicy(ctx, s.cfg.Policy)

	if s.cfg.API.Enabled && !s.noAPI {
		if err := s.startAPI(ctx); err != nil {
			s.shutdown()
			return err
		}
	}
	close(s.ready)

	for sig := range sigChan {
		switch sig {
		case syscall.SIGHUP:
			s.reload(ctx)
		default:
			log.Infof("Received signal %v, shutting down...", sig)
			return s.shutdown()
		}
	}
	return s.shutdown()
}

// applyPolicy writes the configured whitelist and pre-auth domains. Every
// entry is sent again on each call so that the kernel matches the file even
// after terminals were evicted through the API. Single failures are logged
// and do not stop the daemon.
func (s *ServiceCommand) applyPolicy(ctx context.Context, policy *config.PolicyConfig) {
	macs := hashing.NewStringSet()
	for _, entry := range policy.WhitelistMACs {
		mac, err := utils.ParseMAC(entry)
		if err != nil {
			log.Errorf("Failed to whitelist %s: %v", entry, err)
			continue
		}
		macs.Put(mac.String())
	}
	s.logWhitelistChanges(macs)

	for _, mac := range macs.Values() {
		if err := s.rt.gate.WhitelistTerminal(ctx, mac); err != nil {
			log.Errorf("Failed to whitelist %s: %v", mac, err)
		}
	}
	for _, domain := range policy.AllowedDomains {
		if _, err := s.rt.gate.AllowDomain(ctx, domain); err != nil {
			log.Errorf("Failed to allow %s: %v", domain, err)
		}
	}
	log.Infof("Applied policy: %d whitelisted terminal(s), %d allowed domain(s)",
		macs.Size(), len(policy.AllowedDomains))
}

// logWhitelistChanges reports how the whitelist differs from the previous
// load. Removed MACs stay whitelisted in the kernel until evicted.
func (s *ServiceCommand) logWhitelistChanges(macs *hashing.StringSet) {
	prev := s.whitelist
	s.whitelist = macs
	if prev == nil || prev.Checksum() == macs.Checksum() {
		return
	}
	for _, mac := range macs.Difference(prev) {
		log.Infof("Whitelist entry added: %s", mac)
	}
	for _, mac := range prev.Difference(macs) {
		log.Warnf("Whitelist entry %s removed from config; evict it to revoke access", mac)
	}
}

// reload re-reads the configuration and applies its policy. Rules dropped
// from the file stay in the kernel until gating is restarted.
func (s *ServiceCommand) reload(ctx context.Context) {
	log.Infof("Reloading configuration from %s", s.ctx.ConfigPath)
	if err := s.provider.Init(s.ctx.ConfigPath); err != nil {
		log.Errorf("Reload failed, keeping previous configuration: %v", err)
		return
	}
	cfg, err := s.provider.Get()
	if err != nil {
		log.Errorf("Reload failed: %v", err)
		return
	}
	if cfg.General.Interface != s.cfg.General.Interface || cfg.Kernel.ControlDir != s.cfg.Kernel.ControlDir {
		log.Warnf("Interface and control directory changes need a restart")
	}
	s.applyPolicy(ctx, cfg.Policy)
}

func (s *ServiceCommand) startAPI(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.API.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to start control API: %w", err)
	}

	router := api.NewRouter(api.Dependencies{
		Gate:         s.rt.gate,
		Network:      s.rt.network,
		Config:       s.provider,
		Metrics:      s.rt.metrics,
		ControlFiles: s.rt.controlFiles(),
	})

	// The first run serves the listener bound above so that bind errors
	// fail the service; restarts after a crash bind again.
	s.apiRunner = NewRestartableRunner(RunnerConfig{Name: "api"}, func(runCtx context.Context) error {
		server := api.NewServer(s.cfg.API.ListenAddr, router)
		listener := ln
		ln = nil

		errCh := make(chan error, 1)
		go func() {
			if listener != nil {
				errCh <- server.Serve(listener)
				return
			}
			errCh <- server.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-runCtx.Done():
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Stop(stopCtx); err != nil {
				log.Errorf("API shutdown: %v", err)
			}
			return <-errCh
		}
	})
	return s.apiRunner.Start(ctx)
}

func (s *ServiceCommand) shutdown() error {
	if s.apiRunner != nil {
		if err := s.apiRunner.Stop(); err != nil {
			log.Errorf("Failed to stop control API: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.rt.domains.Close(ctx); err != nil {
		log.Warnf("%v", err)
	}

	if s.keepGating {
		log.Infof("Leaving gating enabled")
		return nil
	}
	if err := s.rt.gate.DisableGating(ctx); err != nil {
		return fmt.Errorf("failed to disable gating: %w", err)
	}
	log.Infof("Service stopped")
	return nil
}
