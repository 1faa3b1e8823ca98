package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/captivegate/captivegate/src/internal/config"
	"github.com/captivegate/captivegate/src/internal/gate"
	"github.com/captivegate/captivegate/src/internal/kmod"
	"github.com/captivegate/captivegate/src/internal/metrics"
	"github.com/captivegate/captivegate/src/internal/netinfo"
	"github.com/captivegate/captivegate/src/internal/resolver"
)

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run() error
	Name() string
}

type AppContext struct {
	ConfigPath string
	Verbose    bool

	// Netlink overrides the host netlink socket (tests).
	Netlink netinfo.Netlink
}

// loadConfig loads and validates the configuration into a provider.
func loadConfig(ctx *AppContext) (*config.Provider, *config.Config, error) {
	provider := config.NewProvider()
	if err := provider.Init(ctx.ConfigPath); err != nil {
		return nil, nil, err
	}
	cfg, err := provider.Get()
	if err != nil {
		return nil, nil, err
	}
	return provider, cfg, nil
}

// runtime is the component graph shared by the daemon and one-shot commands.
type runtime struct {
	cfg     *config.Config
	metrics *metrics.Metrics
	network *netinfo.Resolver
	kernel  *kmod.Controller
	domains *resolver.Adapter
	gate    *gate.Gate
}

func newRuntime(ctx *AppContext, cfg *config.Config, m *metrics.Metrics) (*runtime, error) {
	lookuper, err := resolver.NewDNSLookuper(cfg.DNS.Upstreams, cfg.DNS.Timeout())
	if err != nil {
		return nil, err
	}

	network := netinfo.NewResolver()
	if ctx.Netlink != nil {
		network = netinfo.NewResolverWithNetlink(ctx.Netlink)
	}

	kernel := kmod.NewController(cfg.Kernel.ControlDir, kmod.Options{
		WriteTimeout: cfg.Kernel.WriteTimeout(),
		Metrics:      m,
	})
	domains := resolver.NewAdapter(lookuper, kernel, resolver.Options{Metrics: m})

	return &runtime{
		cfg:     cfg,
		metrics: m,
		network: network,
		kernel:  kernel,
		domains: domains,
		gate:    gate.New(kernel, domains, network),
	}, nil
}

// drain waits for background domain lookups. One-shot commands call it
// before exiting so that resolved addresses still reach the kernel.
func (r *runtime) drain() error {
	wait := time.Duration(len(r.cfg.DNS.Upstreams))*r.cfg.DNS.Timeout() + r.cfg.Kernel.WriteTimeout() + time.Second
	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()
	if err := r.domains.Close(ctx); err != nil {
		return fmt.Errorf("domain lookups did not finish: %w", err)
	}
	return nil
}

// controlFiles lists the kernel control file paths.
func (r *runtime) controlFiles() []string {
	var files []string
	for _, ch := range r.kernel.Channels() {
		files = append(files, ch.Path())
	}
	return files
}
